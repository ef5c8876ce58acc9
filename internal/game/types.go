// Package game implements the click-driven turn controller: selecting a
// piece, showing its paths, committing a move, applying moves received from
// a remote host and deciding when the game is over.
package game

import (
	"errors"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/movelog"
)

var (
	// ErrMalformedEntry is returned by ApplyRemote for an entry that cannot
	// be applied to the current position.
	ErrMalformedEntry = errors.New("game: malformed remote move")
	// ErrNotRemoteTurn is returned by ApplyRemote while the local player is to move.
	ErrNotRemoteTurn = errors.New("game: remote move out of turn")
	// ErrSessionOver is returned once the session has a result.
	ErrSessionOver = errors.New("game: session is over")
)

// Player identifies a side. Player one plays White and moves first.
type Player uint8

const (
	PlayerOne Player = iota
	PlayerTwo
)

// Color returns the piece color the player controls.
func (p Player) Color() board.Color {
	if p == PlayerTwo {
		return board.Black
	}
	return board.White
}

// Other returns the opponent.
func (p Player) Other() Player {
	if p == PlayerTwo {
		return PlayerOne
	}
	return PlayerTwo
}

func (p Player) String() string {
	if p == PlayerTwo {
		return "Player 2"
	}
	return "Player 1"
}

// TurnText is the line shown while p is to move.
func (p Player) TurnText() string {
	return p.String() + "'s Turn"
}

// Result is the outcome of a session.
type Result int

const (
	ResultNone Result = iota
	ResultWhiteWins
	ResultBlackWins
	ResultError
)

// Message returns the line shown on the start page after a session.
func (r Result) Message() string {
	switch r {
	case ResultWhiteWins:
		return "White (Player 1) Won!"
	case ResultBlackWins:
		return "Black (Player 2) Won!"
	case ResultError:
		return "There was an error!"
	default:
		return ""
	}
}

func (r Result) String() string {
	switch r {
	case ResultWhiteWins:
		return "white_wins"
	case ResultBlackWins:
		return "black_wins"
	case ResultError:
		return "error"
	default:
		return "none"
	}
}

// State is the selection state of the controller.
type State int

const (
	AwaitingSelection State = iota
	ShowingPaths
)

// Outcome reports what a click did.
type Outcome int

const (
	Ignored Outcome = iota
	Selected
	Committed
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Committed:
		return "committed"
	default:
		return "ignored"
	}
}

// Mode says which players sit at this host.
type Mode int

const (
	// ModeLocal seats both players at one window.
	ModeLocal Mode = iota
	// ModeHost seats player one here; player two is remote.
	ModeHost
	// ModeGuest seats player two here; player one is remote.
	ModeGuest
)

func (m Mode) String() string {
	switch m {
	case ModeHost:
		return "host"
	case ModeGuest:
		return "guest"
	default:
		return "local"
	}
}

// Seated reports whether p plays at this host.
func (m Mode) Seated(p Player) bool {
	switch m {
	case ModeHost:
		return p == PlayerOne
	case ModeGuest:
		return p == PlayerTwo
	default:
		return true
	}
}

// Friendly returns the highlight perspective used for p's selections.
// At a shared board player two gets the opposing markers. Across the
// network each host sees its own moves as friendly.
func (m Mode) Friendly(p Player) bool {
	if m == ModeLocal {
		return p == PlayerOne
	}
	return true
}

// Sound is a cue played on controller events.
type Sound int

const (
	SoundSelect Sound = iota
	SoundMove
	SoundGameEnd
)

// Effects plays cues. Implementations must not block.
type Effects interface {
	Play(Sound)
}

// Recorder receives every committed move.
type Recorder interface {
	Record(movelog.Entry) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(movelog.Entry) error

// Record calls f(e).
func (f RecorderFunc) Record(e movelog.Entry) error {
	return f(e)
}

// MultiRecorder records to each recorder in order and stops at the first error.
type MultiRecorder []Recorder

// Record implements Recorder.
func (m MultiRecorder) Record(e movelog.Entry) error {
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Record(e); err != nil {
			return err
		}
	}
	return nil
}

type noEffects struct{}

func (noEffects) Play(Sound) {}
