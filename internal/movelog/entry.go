// Package movelog records committed moves: the text line format of the
// log file and the seven byte record exchanged between networked hosts.
package movelog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam/simplechess/internal/board"
)

var (
	// ErrIO is returned when the log file cannot be opened, read or written.
	ErrIO = errors.New("move log: i/o error")
	// ErrMalformed is returned for a line or record that is not a valid entry.
	ErrMalformed = errors.New("move log: malformed entry")
)

// Kind distinguishes a plain move from a capture.
type Kind uint8

const (
	KindMove    Kind = 0
	KindCapture Kind = 1
)

func (k Kind) String() string {
	if k == KindCapture {
		return "capture"
	}
	return "move"
}

// Entry is one committed move. Piece is the piece standing on To after the
// move, so a promoted pawn is logged as a queen.
type Entry struct {
	Piece    board.Piece
	From     board.Square
	Kind     Kind
	Captured board.Piece
	To       board.Square
}

// fields returns the entry in serialized order.
func (e Entry) fields() [7]int {
	return [7]int{
		int(e.Piece), e.From.X, e.From.Y,
		int(e.Kind), int(e.Captured), e.To.X, e.To.Y,
	}
}

func fromFields(v [7]int) (Entry, error) {
	for _, n := range v {
		if n < 0 || n > 255 {
			return Entry{}, fmt.Errorf("%w: value %d out of range", ErrMalformed, n)
		}
	}
	e := Entry{
		Piece:    board.Piece(v[0]),
		From:     board.Sq(v[1], v[2]),
		Kind:     Kind(v[3]),
		Captured: board.Piece(v[4]),
		To:       board.Sq(v[5], v[6]),
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks that every field is in range.
func (e Entry) Validate() error {
	switch {
	case e.Piece == board.Empty || !e.Piece.Valid():
		return fmt.Errorf("%w: piece id %d", ErrMalformed, e.Piece)
	case !e.Captured.Valid():
		return fmt.Errorf("%w: captured piece id %d", ErrMalformed, e.Captured)
	case e.Kind != KindMove && e.Kind != KindCapture:
		return fmt.Errorf("%w: move kind %d", ErrMalformed, e.Kind)
	case !e.From.Valid():
		return fmt.Errorf("%w: source square %v", ErrMalformed, e.From)
	case !e.To.Valid():
		return fmt.Errorf("%w: destination square %v", ErrMalformed, e.To)
	}
	return nil
}

// String returns the log file line without the trailing newline,
// e.g. "2 0 7 0 0 0 3".
func (e Entry) String() string {
	f := e.fields()
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// ParseLine parses one log file line.
func ParseLine(line string) (Entry, error) {
	tokens := strings.Fields(line)
	if len(tokens) != 7 {
		return Entry{}, fmt.Errorf("%w: need 7 values, got %d", ErrMalformed, len(tokens))
	}
	var v [7]int
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: %q is not a number", ErrMalformed, tok)
		}
		v[i] = n
	}
	return fromFields(v)
}

// Describe renders the entry the way the game shows the last move:
// "White Knight (1, 7) moved to (2, 5)." or
// "White Rook (0, 7) captured Black Pawn (0, 1).".
func (e Entry) Describe() string {
	if e.Kind == KindCapture {
		return fmt.Sprintf("%s %v captured %s %v.", e.Piece.Name(), e.From, e.Captured.Name(), e.To)
	}
	return fmt.Sprintf("%s %v moved to %v.", e.Piece.Name(), e.From, e.To)
}
