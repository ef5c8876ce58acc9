package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/movelog"
	"github.com/hailam/simplechess/internal/replay"
	"github.com/hailam/simplechess/internal/storage"
)

func knightGame() storage.GameRecord {
	rec := storage.NewGameRecord("local", board.StartPlacement)
	rec.StartedAt = time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	rec.Result = storage.ResultWhiteWins
	rec.Entries = []movelog.Entry{
		{Piece: board.WhiteKnight, From: board.Sq(1, 7), Kind: movelog.KindMove, To: board.Sq(2, 5)},
		{Piece: board.BlackKnight, From: board.Sq(6, 0), Kind: movelog.KindMove, To: board.Sq(5, 2)},
	}
	return rec
}

func TestRecordLabel(t *testing.T) {
	tests := []struct {
		result string
		want   string
	}{
		{storage.ResultWhiteWins, "1-0"},
		{storage.ResultBlackWins, "0-1"},
		{storage.ResultError, "error"},
		{storage.ResultNone, "..."},
	}
	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			rec := knightGame()
			rec.Result = tt.result
			got := recordLabel(rec)
			if !strings.HasPrefix(got, "2026-03-01 18:30  local") {
				t.Errorf("label %q: wrong prefix", got)
			}
			if !strings.HasSuffix(got, tt.want) {
				t.Errorf("label %q: want suffix %q", got, tt.want)
			}
		})
	}
}

func TestBrowserStepping(t *testing.T) {
	b := NewBrowser([]item{recordItem(knightGame())}, nil)
	if b.current == nil {
		t.Fatalf("first game not opened: %v", b.err)
	}

	b.Step(1)
	if got := b.current.Position().At(board.Sq(2, 5)); got != board.WhiteKnight {
		t.Fatalf("after one step (2,5) = %v, want white knight", got)
	}
	b.Step(5)
	if b.current.Index() != 2 {
		t.Errorf("step past the end: index %d, want 2", b.current.Index())
	}
	b.Step(-10)
	if b.current.Index() != 0 {
		t.Errorf("step before the start: index %d, want 0", b.current.Index())
	}
}

func TestBrowserOpenError(t *testing.T) {
	failing := item{label: "broken", open: func() (*replay.Replayer, error) {
		return nil, movelog.ErrMalformed
	}}
	b := NewBrowser([]item{failing}, nil)
	if !errors.Is(b.err, movelog.ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", b.err)
	}
	b.Step(1) // no game open
	if !strings.Contains(infoText(b.current, b.err), "malformed") {
		t.Errorf("info text does not show the error")
	}
}

func TestDrawBoard(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(40, 20)

	b := NewBrowser([]item{recordItem(knightGame())}, nil)
	b.Step(1)
	b.drawBoard(screen, 0, 0, 40, 20)

	cell := func(sq board.Square) rune {
		r, _, _, _ := screen.GetContent(1+sq.X*2, 1+sq.Y)
		return r
	}
	if got := cell(board.Sq(2, 5)); got != '♘' {
		t.Errorf("(2,5) = %q, want white knight", got)
	}
	if got := cell(board.Sq(1, 7)); got != ' ' {
		t.Errorf("(1,7) = %q, want empty", got)
	}
	if got := cell(board.Sq(4, 0)); got != '♚' {
		t.Errorf("(4,0) = %q, want black king", got)
	}
	_, _, style, _ := screen.GetContent(1+2*2, 1+5)
	if _, bg, _ := style.Decompose(); bg != lastSquare {
		t.Errorf("last move square not highlighted")
	}
}

func TestThreatOverlay(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(40, 20)

	b := NewBrowser([]item{recordItem(knightGame())}, nil)
	b.Step(1)
	b.handleInput(tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone))
	b.drawBoard(screen, 0, 0, 40, 20)

	cell := func(sq board.Square) rune {
		r, _, _, _ := screen.GetContent(1+sq.X*2, 1+sq.Y)
		return r
	}
	for _, sq := range []board.Square{board.Sq(1, 3), board.Sq(3, 3), board.Sq(4, 4), board.Sq(1, 7)} {
		if got := cell(sq); got != '·' {
			t.Errorf("%v = %q, want target dot", sq, got)
		}
	}
	if got := cell(board.Sq(4, 6)); got != '♙' {
		t.Errorf("own pawn (4,6) = %q, want it untouched", got)
	}
}

func TestKeyBindings(t *testing.T) {
	quit := false
	b := NewBrowser([]item{recordItem(knightGame())}, func() { quit = true })

	b.handleInput(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	if b.current.Index() != 2 {
		t.Errorf("End: index %d, want 2", b.current.Index())
	}
	b.handleInput(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if b.current.Index() != 1 {
		t.Errorf("Left: index %d, want 1", b.current.Index())
	}
	b.handleInput(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	if b.current.Index() != 0 {
		t.Errorf("Home: index %d, want 0", b.current.Index())
	}
	if ev := b.handleInput(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); ev == nil {
		t.Errorf("unbound key was swallowed")
	}
	b.handleInput(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if !quit {
		t.Errorf("q did not quit")
	}
}
