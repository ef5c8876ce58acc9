package replay

import (
	"strings"
	"testing"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/movelog"
)

func TestRookLineForwardAndBack(t *testing.T) {
	// A rook on (0, 7) with an open file in front of it.
	start, err := board.ParsePlacement("4k3/8/8/8/8/8/8/R3K3")
	if err != nil {
		t.Fatalf("ParsePlacement: %v", err)
	}
	entries, err := movelog.Parse(strings.NewReader("2 0 7 0 0 0 3\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	r := New(start, entries)
	if r.LastMoveText() != "Last move:\nBoard Created." {
		t.Errorf("initial text = %q", r.LastMoveText())
	}

	if !r.Next() {
		t.Fatal("Next() returned false")
	}
	pos := r.Position()
	if pos.At(board.Sq(0, 3)) != board.WhiteRook || pos.At(board.Sq(0, 7)) != board.Empty {
		t.Errorf("after Next:\n%s", pos.String())
	}
	if r.LastMoveText() != "Last move:\nWhite Rook (0, 7) moved to (0, 3)." {
		t.Errorf("LastMoveText() = %q", r.LastMoveText())
	}
	if r.Next() {
		t.Error("Next() past the end should return false")
	}

	if !r.Back() {
		t.Fatal("Back() returned false")
	}
	if r.Position() != start {
		t.Errorf("Back did not restore the start:\n%s", pos.String())
	}
	if r.Back() {
		t.Error("Back() before the start should return false")
	}
}

func TestCaptureAndPromotionUndo(t *testing.T) {
	start, err := board.ParsePlacement("1r2k3/P7/8/8/8/8/8/4K3")
	if err != nil {
		t.Fatalf("ParsePlacement: %v", err)
	}
	entries := []movelog.Entry{
		// White pawn captures on (1, 0) and promotes; the log holds the queen.
		{Piece: board.WhiteQueen, From: board.Sq(0, 1), Kind: movelog.KindCapture, Captured: board.BlackRook, To: board.Sq(1, 0)},
		{Piece: board.BlackKing, From: board.Sq(4, 0), To: board.Sq(3, 1)},
	}

	r := New(start, entries)
	r.Seek(2)
	if r.Index() != 2 {
		t.Fatalf("Index() = %d, want 2", r.Index())
	}
	pos := r.Position()
	if pos.At(board.Sq(1, 0)) != board.WhiteQueen {
		t.Errorf("(1, 0) = %v, want White Queen", pos.At(board.Sq(1, 0)))
	}
	if pos.At(board.Sq(3, 1)) != board.BlackKing {
		t.Errorf("(3, 1) = %v, want Black King", pos.At(board.Sq(3, 1)))
	}

	r.Back()
	r.Back()
	if r.Position() != start {
		t.Errorf("undo did not restore the pawn and rook:\n%s", r.Position().String())
	}

	r.Seek(10)
	if r.Index() != 2 {
		t.Errorf("Seek past end: Index() = %d", r.Index())
	}
	r.Reset()
	if r.Index() != 0 || r.Position() != start {
		t.Error("Reset did not return to the start")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d", r.Len())
	}
}

func TestForwardBackIsStable(t *testing.T) {
	start := board.StartingBoard()
	entries := []movelog.Entry{
		{Piece: board.WhiteKnight, From: board.Sq(1, 7), To: board.Sq(2, 5)},
		{Piece: board.BlackPawn, From: board.Sq(3, 1), To: board.Sq(3, 3)},
		{Piece: board.WhiteKnight, From: board.Sq(2, 5), Kind: movelog.KindCapture, Captured: board.BlackPawn, To: board.Sq(3, 3)},
	}

	r := New(start, entries)
	var forward []board.Board
	for r.Next() {
		forward = append(forward, r.Position())
	}
	for i := len(forward) - 2; i >= 0; i-- {
		r.Back()
		if r.Position() != forward[i] {
			t.Errorf("position after %d entries differs on the way back", i+1)
		}
	}
	r.Back()
	if r.Position() != start {
		t.Error("did not return to the start")
	}
}
