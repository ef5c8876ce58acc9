// Package session runs one game from the start page's point of view:
// connecting, clearing and writing the move log, polling the peer and
// archiving the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/config"
	"github.com/hailam/simplechess/internal/game"
	"github.com/hailam/simplechess/internal/movelog"
	"github.com/hailam/simplechess/internal/netplay"
	"github.com/hailam/simplechess/internal/obslog"
	"github.com/hailam/simplechess/internal/replay"
	"github.com/hailam/simplechess/internal/storage"
)

// Deps are the long-lived services a session uses.
type Deps struct {
	Config  *config.Config
	Archive storage.Archive // nil disables archiving
	Effects game.Effects
	Logger  *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return obslog.L()
}

// Session is a running game.
type Session struct {
	mode game.Mode
	ctrl *game.Controller
	net  *game.NetSession

	archive storage.Archive
	rec     storage.GameRecord
	closed  bool
	err     error
	log     *zap.Logger
}

func newSession(mode game.Mode, conn netplay.Conn, deps Deps) (*Session, error) {
	cfg := deps.Config
	logFile := movelog.NewFile(cfg.Files.Log)
	if err := logFile.Clear(); err != nil {
		return nil, err
	}

	start := board.StartingBoard()
	opts := game.Options{
		Start:    &start,
		Mode:     mode,
		Recorder: logFile,
		Effects:  deps.Effects,
		Logger:   deps.logger(),
	}

	s := &Session{
		mode:    mode,
		archive: deps.Archive,
		rec:     storage.NewGameRecord(mode.String(), start.Placement()),
		log:     deps.logger(),
	}
	if conn != nil {
		s.net = game.NewNetSession(conn, opts)
		s.ctrl = s.net.Controller
	} else {
		s.ctrl = game.NewController(opts)
	}

	s.log.Info("session_started",
		zap.String("mode", mode.String()),
		zap.String("game_id", s.rec.ID),
		zap.String("log", logFile.Path()),
	)
	return s, nil
}

// Controller exposes the board state for drawing.
func (s *Session) Controller() *game.Controller {
	return s.ctrl
}

// Mode returns the session mode.
func (s *Session) Mode() game.Mode {
	return s.mode
}

// ID returns the archive id of this game.
func (s *Session) ID() string {
	return s.rec.ID
}

// Err returns the error that ended the session, if any.
func (s *Session) Err() error {
	return s.err
}

// Click forwards a board click. Clicks are ignored while waiting on the peer.
func (s *Session) Click(ctx context.Context, sq board.Square) error {
	if s.closed || s.ctrl.Done() {
		return nil
	}
	var err error
	if s.net != nil {
		if !s.net.LocalTurn() {
			return nil
		}
		_, err = s.net.Click(ctx, sq)
	} else {
		_, err = s.ctrl.Click(sq)
	}
	return s.fail(err)
}

// Update runs once per frame. It starts a background receive when the peer
// is to move and applies the move when it lands.
func (s *Session) Update() error {
	if s.net == nil || s.closed || s.ctrl.Done() {
		return nil
	}
	s.net.StartWaiting()
	_, err := s.net.Poll()
	return s.fail(err)
}

// Waiting reports whether the session is blocked on the peer.
func (s *Session) Waiting() bool {
	return s.net != nil && !s.ctrl.Done() && !s.net.LocalTurn()
}

func (s *Session) fail(err error) error {
	if err == nil {
		return nil
	}
	if s.err == nil {
		s.err = err
	}
	s.log.Warn("session_error", zap.String("game_id", s.rec.ID), zap.Error(err))
	return err
}

// Close ends the session, releases the connection and archives the game.
// It returns the result to show on the start page.
func (s *Session) Close(ctx context.Context) game.Result {
	if s.closed {
		return s.ctrl.Result()
	}
	s.closed = true

	if s.net != nil {
		if err := s.net.Close(); err != nil {
			s.log.Debug("close_transport", zap.Error(err))
		}
	}

	result := s.ctrl.Result()
	s.rec.Result = resultName(result)
	s.rec.Entries = s.ctrl.Entries()
	s.rec.EndedAt = time.Now()

	if s.archive != nil {
		if err := s.archive.Save(ctx, s.rec); err != nil {
			s.log.Warn("archive_save_failed", zap.String("game_id", s.rec.ID), zap.Error(err))
		}
	}
	s.log.Info("session_closed",
		zap.String("game_id", s.rec.ID),
		zap.String("result", result.String()),
		zap.Int("moves", len(s.rec.Entries)),
	)
	return result
}

func resultName(r game.Result) string {
	switch r {
	case game.ResultWhiteWins:
		return storage.ResultWhiteWins
	case game.ResultBlackWins:
		return storage.ResultBlackWins
	case game.ResultError:
		return storage.ResultError
	default:
		return storage.ResultNone
	}
}

// Pending is a session still being set up. Network modes connect in the
// background; Poll reports when the session is ready.
type Pending struct {
	mode   game.Mode
	done   chan pendingResult
	cancel context.CancelFunc
	taken  bool
}

type pendingResult struct {
	s   *Session
	err error
}

// Start begins a session in mode. Local sessions are ready immediately.
func Start(ctx context.Context, mode game.Mode, deps Deps) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{
		mode:   mode,
		done:   make(chan pendingResult, 1),
		cancel: cancel,
	}

	if mode == game.ModeLocal {
		s, err := newSession(mode, nil, deps)
		p.done <- pendingResult{s, err}
		return p
	}

	n := deps.Config.Network
	opts := netplay.Options{Transport: n.Transport, Host: n.Host, Port: n.Port, Path: n.Path}
	go func() {
		var (
			conn netplay.Conn
			err  error
		)
		if mode == game.ModeHost {
			conn, err = netplay.Host(ctx, opts)
		} else {
			conn, err = netplay.Join(ctx, opts)
		}
		if err != nil {
			p.done <- pendingResult{nil, err}
			return
		}
		s, err := newSession(mode, conn, deps)
		if err != nil {
			conn.Close()
		}
		p.done <- pendingResult{s, err}
	}()
	return p
}

// Mode returns the mode being started.
func (p *Pending) Mode() game.Mode {
	return p.mode
}

// Poll returns the session once it is ready. ok is false while connecting.
func (p *Pending) Poll() (s *Session, ok bool, err error) {
	if p.taken {
		return nil, false, nil
	}
	select {
	case r := <-p.done:
		p.taken = true
		return r.s, true, r.err
	default:
		return nil, false, nil
	}
}

// Wait blocks until the session is ready or ctx is done.
func (p *Pending) Wait(ctx context.Context) (*Session, error) {
	select {
	case r := <-p.done:
		p.taken = true
		return r.s, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel abandons a connection attempt. A session that became ready in the
// meantime is closed.
func (p *Pending) Cancel() {
	p.cancel()
	if p.taken {
		return
	}
	go func() {
		if r := <-p.done; r.s != nil {
			r.s.Close(context.Background())
		}
	}()
	p.taken = true
}

// OpenReplay loads the move log for the reader. The board config file gives
// the start position; when it does not exist the standard start is used.
func OpenReplay(files config.Files) (*replay.Replayer, error) {
	start := board.StartingBoard()
	if files.BoardConfig != "" {
		if _, err := os.Stat(files.BoardConfig); err == nil {
			start, err = board.LoadConfig(files.BoardConfig)
			if err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", board.ErrConfigIO, err)
		}
	}

	entries, err := movelog.NewFile(files.Log).ReadAll()
	if err != nil {
		return nil, err
	}
	return replay.New(start, entries), nil
}

// ReplayRecord builds a replayer for an archived game.
func ReplayRecord(rec storage.GameRecord) (*replay.Replayer, error) {
	start := board.StartingBoard()
	if rec.Start != "" {
		b, err := board.ParsePlacement(rec.Start)
		if err != nil {
			return nil, err
		}
		start = b
	}
	return replay.New(start, rec.Entries), nil
}
