// Package replay steps through a recorded game one move at a time, in both
// directions.
package replay

import (
	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/movelog"
)

// undo remembers what a step overwrote.
type undo struct {
	from, to         board.Square
	fromPrev, toPrev board.Piece
}

// Replayer applies log entries to a start position. Back restores the
// exact squares an entry changed, so stepping back and forth always lands
// on the same positions.
type Replayer struct {
	start   board.Board
	pos     board.Board
	entries []movelog.Entry
	history []undo
}

// New returns a replayer positioned before the first entry.
func New(start board.Board, entries []movelog.Entry) *Replayer {
	return &Replayer{
		start:   start,
		pos:     start,
		entries: entries,
	}
}

// Position returns the current board.
func (r *Replayer) Position() board.Board {
	return r.pos
}

// Index returns how many entries have been applied.
func (r *Replayer) Index() int {
	return len(r.history)
}

// Len returns the number of entries.
func (r *Replayer) Len() int {
	return len(r.entries)
}

// Next applies the next entry. It returns false at the end of the log.
func (r *Replayer) Next() bool {
	i := len(r.history)
	if i >= len(r.entries) {
		return false
	}
	e := r.entries[i]
	r.history = append(r.history, undo{
		from:     e.From,
		to:       e.To,
		fromPrev: r.pos.At(e.From),
		toPrev:   r.pos.At(e.To),
	})
	r.pos.Commit(e.From, e.To)
	return true
}

// Back undoes the last applied entry. It returns false at the start.
func (r *Replayer) Back() bool {
	n := len(r.history)
	if n == 0 {
		return false
	}
	u := r.history[n-1]
	r.history = r.history[:n-1]
	r.pos.Set(u.to, u.toPrev)
	r.pos.Set(u.from, u.fromPrev)
	return true
}

// Seek moves to the position after i entries, clamped to the log bounds.
func (r *Replayer) Seek(i int) {
	for r.Index() < i && r.Next() {
	}
	for r.Index() > i && r.Back() {
	}
}

// Reset returns to the start position.
func (r *Replayer) Reset() {
	r.pos = r.start
	r.history = r.history[:0]
}

// LastMove returns the most recently applied entry.
func (r *Replayer) LastMove() (movelog.Entry, bool) {
	n := len(r.history)
	if n == 0 {
		return movelog.Entry{}, false
	}
	return r.entries[n-1], true
}

// LastMoveText returns the last move line shown under the board.
func (r *Replayer) LastMoveText() string {
	e, ok := r.LastMove()
	if !ok {
		return "Last move:\nBoard Created."
	}
	return "Last move:\n" + e.Describe()
}
