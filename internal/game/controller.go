package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/movelog"
	"github.com/hailam/simplechess/internal/movepath"
	"github.com/hailam/simplechess/internal/obslog"
)

const (
	lastMovePrefix  = "Last move:\n"
	boardCreatedMsg = lastMovePrefix + "Board Created."
)

// Options configures a Controller.
type Options struct {
	// Start is the initial position; nil means the standard start.
	Start *board.Board
	Mode  Mode

	Recorder Recorder
	Effects  Effects
	Logger   *zap.Logger
}

// Controller owns one game session. It is not safe for concurrent use.
type Controller struct {
	board board.Board
	bg    board.Background

	state     State
	selected  board.Square
	lastClick board.Square
	turn      Player
	result    Result

	turnText     string
	lastMoveText string
	entries      []movelog.Entry

	mode Mode
	rec  Recorder
	fx   Effects
	log  *zap.Logger
}

// NewController starts a session with player one to move.
func NewController(opts Options) *Controller {
	c := &Controller{
		board:        board.StartingBoard(),
		turn:         PlayerOne,
		turnText:     PlayerOne.TurnText(),
		lastMoveText: boardCreatedMsg,
		mode:         opts.Mode,
		rec:          opts.Recorder,
		fx:           opts.Effects,
		log:          opts.Logger,
	}
	if opts.Start != nil {
		c.board = *opts.Start
	}
	if c.fx == nil {
		c.fx = noEffects{}
	}
	if c.log == nil {
		c.log = obslog.L()
	}
	return c
}

// Board returns a copy of the current position.
func (c *Controller) Board() board.Board { return c.board }

// Background returns a copy of the highlight grid.
func (c *Controller) Background() board.Background { return c.bg }

// Turn returns the player to move.
func (c *Controller) Turn() Player { return c.turn }

// State returns the selection state.
func (c *Controller) State() State { return c.state }

// Selected returns the selected square and whether a selection is showing.
func (c *Controller) Selected() (board.Square, bool) {
	return c.selected, c.state == ShowingPaths
}

// LastClick returns the square of the most recent accepted click.
func (c *Controller) LastClick() board.Square { return c.lastClick }

// Result returns the session result, ResultNone while play continues.
func (c *Controller) Result() Result { return c.result }

// Done reports whether the session has ended.
func (c *Controller) Done() bool { return c.result != ResultNone }

// Mode returns the seating mode.
func (c *Controller) Mode() Mode { return c.mode }

// TurnText returns the "Player N's Turn" line.
func (c *Controller) TurnText() string { return c.turnText }

// LastMoveText returns the "Last move:" block.
func (c *Controller) LastMoveText() string { return c.lastMoveText }

// Entries returns the moves committed this session.
func (c *Controller) Entries() []movelog.Entry {
	out := make([]movelog.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// LocalTurn reports whether the player to move sits at this host.
func (c *Controller) LocalTurn() bool {
	return c.mode.Seated(c.turn)
}

// Click handles a click on sq by the local player to move.
func (c *Controller) Click(sq board.Square) (Outcome, error) {
	if c.Done() || !sq.Valid() || !c.LocalTurn() {
		return Ignored, nil
	}
	c.lastClick = sq

	friendly := c.mode.Friendly(c.turn)

	if c.board.At(sq).Color() == c.turn.Color() {
		c.fx.Play(SoundSelect)
		c.selected = sq
		c.bg.Clear()
		movepath.Show(&c.board, &c.bg, sq, friendly)
		c.state = ShowingPaths
		return Selected, nil
	}

	marker := c.bg.At(sq)
	if c.state != ShowingPaths || !marker.Matches(friendly) {
		return Ignored, nil
	}

	c.fx.Play(SoundMove)
	kind := movelog.KindMove
	if marker.IsCapture() {
		kind = movelog.KindCapture
	}
	if err := c.commit(c.selected, sq, kind); err != nil {
		return Committed, err
	}
	return Committed, nil
}

// ApplyRemote applies a move received from the remote player. The entry
// must describe a move the remote piece could make from the current
// position; anything else ends the session with ResultError.
func (c *Controller) ApplyRemote(e movelog.Entry) error {
	if c.Done() {
		return ErrSessionOver
	}
	if c.LocalTurn() {
		return ErrNotRemoteTurn
	}
	if err := c.checkRemote(e); err != nil {
		c.Fail(err)
		return err
	}
	c.fx.Play(SoundMove)
	return c.commit(e.From, e.To, e.Kind)
}

func (c *Controller) checkRemote(e movelog.Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	src := c.board.At(e.From)
	if src.Color() != c.turn.Color() {
		return fmt.Errorf("%w: %v holds %v, not a %v piece", ErrMalformedEntry, e.From, src, c.turn.Color())
	}
	targets := movepath.Targets(&c.board, e.From, true)
	m := targets.At(e.To)
	switch {
	case m == board.None:
		return fmt.Errorf("%w: %v cannot reach %v", ErrMalformedEntry, src, e.To)
	case m.IsCapture() != (e.Kind == movelog.KindCapture):
		return fmt.Errorf("%w: kind %v does not match the target square", ErrMalformedEntry, e.Kind)
	case board.Promote(src, e.To) != e.Piece:
		return fmt.Errorf("%w: piece %v, expected %v", ErrMalformedEntry, e.Piece, board.Promote(src, e.To))
	case c.board.At(e.To) != e.Captured:
		return fmt.Errorf("%w: captured %v, board has %v", ErrMalformedEntry, e.Captured, c.board.At(e.To))
	}
	return nil
}

// commit is the single mutation path shared by local and remote moves.
func (c *Controller) commit(from, to board.Square, kind movelog.Kind) error {
	c.bg.Clear()
	c.state = AwaitingSelection

	moved, captured := c.board.Commit(from, to)
	e := movelog.Entry{
		Piece:    moved,
		From:     from,
		Kind:     kind,
		Captured: captured,
		To:       to,
	}
	if from != to {
		c.turn = c.turn.Other()
		c.turnText = c.turn.TurnText()
	}
	c.lastMoveText = lastMovePrefix + e.Describe()
	c.entries = append(c.entries, e)

	c.log.Debug("move_committed",
		zap.Stringer("piece", e.Piece),
		zap.Stringer("from", e.From),
		zap.Stringer("to", e.To),
		zap.Stringer("kind", e.Kind),
		zap.Stringer("captured", e.Captured),
	)

	if c.rec != nil {
		if err := c.rec.Record(e); err != nil {
			c.Fail(err)
			return fmt.Errorf("record move: %w", err)
		}
	}

	c.checkGameOver()
	return nil
}

// checkGameOver scans for missing kings.
func (c *Controller) checkGameOver() {
	switch {
	case !c.board.HasKing(board.White):
		c.result = ResultBlackWins
	case !c.board.HasKing(board.Black):
		c.result = ResultWhiteWins
	default:
		return
	}
	c.log.Info("game_over", zap.Stringer("result", c.result), zap.Int("moves", len(c.entries)))
	c.fx.Play(SoundGameEnd)
}

// Fail ends the session with ResultError. A session that already has a
// result keeps it.
func (c *Controller) Fail(err error) {
	if c.Done() {
		return
	}
	c.result = ResultError
	c.bg.Clear()
	c.state = AwaitingSelection
	c.log.Warn("session_failed", zap.Error(err))
}
