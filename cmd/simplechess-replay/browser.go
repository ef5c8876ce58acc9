package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/movepath"
	"github.com/hailam/simplechess/internal/replay"
	"github.com/hailam/simplechess/internal/session"
	"github.com/hailam/simplechess/internal/storage"
)

// item is one entry in the game list: either the current move log or an
// archived game.
type item struct {
	label string
	open  func() (*replay.Replayer, error)
}

func logItem(path string, open func() (*replay.Replayer, error)) item {
	return item{label: "Move log  " + path, open: open}
}

func recordItem(rec storage.GameRecord) item {
	return item{label: recordLabel(rec), open: func() (*replay.Replayer, error) {
		return session.ReplayRecord(rec)
	}}
}

func recordLabel(rec storage.GameRecord) string {
	result := rec.Result
	switch result {
	case storage.ResultWhiteWins:
		result = "1-0"
	case storage.ResultBlackWins:
		result = "0-1"
	case storage.ResultError:
		result = "error"
	default:
		result = "..."
	}
	return fmt.Sprintf("%s  %-5s  %3d  %s", rec.StartedAt.Format("2006-01-02 15:04"), rec.Mode, len(rec.Entries), result)
}

var (
	lightSquare   = tcell.NewRGBColor(240, 217, 181)
	darkSquare    = tcell.NewRGBColor(181, 136, 99)
	lastSquare    = tcell.NewRGBColor(205, 210, 106)
	captureSquare = tcell.NewRGBColor(214, 90, 80)
	whiteGlyph    = tcell.ColorWhite
	blackGlyph    = tcell.ColorBlack
)

var glyphs = [board.NumPieces]rune{
	' ',
	'♙', '♖', '♘', '♗', '♕', '♔',
	'♟', '♜', '♞', '♝', '♛', '♚',
}

// Browser lists games on the left and shows the selected one on the right.
type Browser struct {
	flex    *tview.Flex
	list    *tview.List
	board   *tview.Box
	info    *tview.TextView
	hint    *tview.TextView
	items   []item
	current *replay.Replayer
	err     error
	threats bool
	onDone  func()
}

// NewBrowser creates the browser over items.
func NewBrowser(items []item, onDone func()) *Browser {
	b := &Browser{items: items, onDone: onDone}

	b.list = tview.NewList()
	b.list.SetBorder(true)
	b.list.SetTitle(" Games ")
	b.list.ShowSecondaryText(false)
	b.list.SetHighlightFullLine(true)

	b.board = tview.NewBox()
	b.board.SetBorder(true)
	b.board.SetTitle(" Board ")
	b.board.SetDrawFunc(b.drawBoard)

	b.info = tview.NewTextView()
	b.info.SetBorder(true)
	b.info.SetDynamicColors(true)

	b.hint = tview.NewTextView()
	b.hint.SetDynamicColors(true)
	b.hint.SetText("  [dimgray]←/→[-] step  [dimgray]Home/End[-] jump  [dimgray]t[-] threats  [dimgray]q[-] quit")

	if len(items) == 0 {
		b.list.AddItem("[dimgray]No games found[-]", "", 0, nil)
	}
	for _, it := range items {
		b.list.AddItem(it.label, "", 0, nil)
	}
	b.list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		b.Select(index)
	})
	b.list.SetInputCapture(b.handleInput)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(b.board, 2*board.Size+2, 0, false).
		AddItem(b.info, 0, 1, false)
	top := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(b.list, 44, 0, true).
		AddItem(right, 0, 1, false)
	b.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 1, true).
		AddItem(b.hint, 1, 0, false)

	b.Select(0)
	return b
}

// Flex returns the root primitive.
func (b *Browser) Flex() *tview.Flex {
	return b.flex
}

// Select opens the game at index.
func (b *Browser) Select(index int) {
	b.current, b.err = nil, nil
	if index < 0 || index >= len(b.items) {
		b.refreshInfo()
		return
	}
	b.current, b.err = b.items[index].open()
	b.refreshInfo()
}

// Step moves the selected game by delta plies.
func (b *Browser) Step(delta int) {
	if b.current == nil {
		return
	}
	b.current.Seek(b.current.Index() + delta)
	b.refreshInfo()
}

func (b *Browser) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		b.done()
		return nil
	case tcell.KeyLeft:
		b.Step(-1)
		return nil
	case tcell.KeyRight:
		b.Step(1)
		return nil
	case tcell.KeyHome:
		if b.current != nil {
			b.current.Reset()
			b.refreshInfo()
		}
		return nil
	case tcell.KeyEnd:
		if b.current != nil {
			b.current.Seek(b.current.Len())
			b.refreshInfo()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			b.done()
			return nil
		case 't':
			b.threats = !b.threats
			return nil
		}
	}
	return event
}

func (b *Browser) done() {
	if b.onDone != nil {
		b.onDone()
	}
}

func (b *Browser) refreshInfo() {
	b.info.SetText(infoText(b.current, b.err))
}

func infoText(r *replay.Replayer, err error) string {
	if err != nil {
		return fmt.Sprintf("[red]%v[-]", err)
	}
	if r == nil {
		return ""
	}
	return fmt.Sprintf("Move %d / %d\n\n%s", r.Index(), r.Len(), r.LastMoveText())
}

// drawBoard renders the current position two cells per square.
func (b *Browser) drawBoard(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if b.current == nil || width < 2*board.Size+2 || height < board.Size+2 {
		return x, y, width, height
	}
	pos := b.current.Position()
	last, hasLast := b.current.LastMove()
	var targets board.Background
	if b.threats && hasLast {
		targets = movepath.Targets(&pos, last.To, true)
	}

	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			sq := board.Sq(col, row)
			bg := lightSquare
			if (row+col)%2 == 1 {
				bg = darkSquare
			}
			if hasLast && (sq == last.From || sq == last.To) {
				bg = lastSquare
			}
			m := targets.At(sq)
			if m.IsCapture() {
				bg = captureSquare
			}
			p := pos.At(sq)
			glyph := glyphs[p]
			if m.IsMove() {
				glyph = '·'
			}
			fg := whiteGlyph
			if p.IsBlack() {
				fg = blackGlyph
			}
			style := tcell.StyleDefault.Background(bg).Foreground(fg)
			cx, cy := x+1+col*2, y+1+row
			if m.IsMove() {
				style = style.Foreground(blackGlyph)
			}
			screen.SetContent(cx, cy, glyph, nil, style)
			screen.SetContent(cx+1, cy, ' ', nil, style)
		}
	}
	return x, y, width, height
}
