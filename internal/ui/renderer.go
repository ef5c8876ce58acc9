package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/movelog"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare     color.RGBA
	DarkSquare      color.RGBA
	SelectedSquare  color.RGBA
	FriendlyMove    color.RGBA
	FriendlyCapture color.RGBA
	OpposingMove    color.RGBA
	OpposingCapture color.RGBA
	LastMoveColor   color.RGBA
	Background      color.RGBA
	TextColor       color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:     color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:      color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare:  color.RGBA{247, 247, 105, 180},
		FriendlyMove:    color.RGBA{76, 175, 120, 200},
		FriendlyCapture: color.RGBA{220, 80, 70, 170},
		OpposingMove:    color.RGBA{90, 140, 220, 200},
		OpposingCapture: color.RGBA{230, 150, 40, 170},
		LastMoveColor:   color.RGBA{180, 190, 100, 90},
		Background:      color.RGBA{40, 44, 52, 255},
		TextColor:       color.RGBA{220, 220, 220, 255},
	}
}

// Renderer draws the board, its highlights and pieces.
type Renderer struct {
	pieces     *PieceSet
	theme      *Theme
	boardSize  int
	squareSize int
}

// NewRenderer creates a new renderer.
func NewRenderer(boardSize, squareSize int) *Renderer {
	return &Renderer{
		pieces:     NewPieceSet(squareSize),
		theme:      DefaultTheme(),
		boardSize:  boardSize,
		squareSize: squareSize,
	}
}

// DrawBoard draws the chess board squares. The top-left square is light.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			c := r.theme.LightSquare
			if (x+y)%2 == 1 {
				c = r.theme.DarkSquare
			}
			px, py := r.SquareToScreen(board.Sq(x, y))
			fillRect(screen, px, py, r.squareSize, r.squareSize, c)
		}
	}
}

// DrawLastMove tints the source and destination of the last move.
func (r *Renderer) DrawLastMove(screen *ebiten.Image, e movelog.Entry, ok bool) {
	if !ok {
		return
	}
	r.highlightSquare(screen, e.From, r.theme.LastMoveColor)
	r.highlightSquare(screen, e.To, r.theme.LastMoveColor)
}

// DrawSelected highlights the selected square.
func (r *Renderer) DrawSelected(screen *ebiten.Image, sq board.Square, ok bool) {
	if ok {
		r.highlightSquare(screen, sq, r.theme.SelectedSquare)
	}
}

// DrawMarkers draws the highlight grid: dots for moves, rings for captures,
// colored by the perspective that placed them.
func (r *Renderer) DrawMarkers(screen *ebiten.Image, bg board.Background) {
	for _, sq := range bg.Marked() {
		m := bg.At(sq)
		c := r.markerColor(m)
		px, py := r.SquareToScreen(sq)
		cx := float32(px) + float32(r.squareSize)/2
		cy := float32(py) + float32(r.squareSize)/2
		if m.IsCapture() {
			radius := float32(r.squareSize) * 0.44
			vector.StrokeCircle(screen, cx, cy, radius, 5, c, true)
			continue
		}
		vector.DrawFilledCircle(screen, cx, cy, float32(r.squareSize)*0.15, c, true)
	}
}

func (r *Renderer) markerColor(m board.Marker) color.RGBA {
	switch {
	case m.IsFriendly() && m.IsCapture():
		return r.theme.FriendlyCapture
	case m.IsFriendly():
		return r.theme.FriendlyMove
	case m.IsCapture():
		return r.theme.OpposingCapture
	default:
		return r.theme.OpposingMove
	}
}

// highlightSquare draws a colored overlay on a square.
func (r *Renderer) highlightSquare(screen *ebiten.Image, sq board.Square, c color.RGBA) {
	if !sq.Valid() {
		return
	}
	x, y := r.SquareToScreen(sq)
	fillRect(screen, x, y, r.squareSize, r.squareSize, c)
}

// DrawPieces draws all pieces on the board.
func (r *Renderer) DrawPieces(screen *ebiten.Image, b board.Board) {
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			sq := board.Sq(x, y)
			p := b.At(sq)
			if p == board.Empty {
				continue
			}
			px, py := r.SquareToScreen(sq)
			r.pieces.Draw(screen, p, px, py)
		}
	}
}

// SquareToScreen converts a board square to screen coordinates. Row 0,
// Black's back rank, is at the top.
func (r *Renderer) SquareToScreen(sq board.Square) (int, int) {
	return sq.X * r.squareSize, sq.Y * r.squareSize
}

// ScreenToSquare converts screen coordinates to a board square.
func (r *Renderer) ScreenToSquare(x, y int) (board.Square, bool) {
	if x < 0 || x >= r.boardSize || y < 0 || y >= r.boardSize {
		return board.Square{}, false
	}
	return board.Sq(x/r.squareSize, y/r.squareSize), true
}

// BoardSize returns the board size in pixels.
func (r *Renderer) BoardSize() int {
	return r.boardSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
