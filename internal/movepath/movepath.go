// Package movepath computes the squares a piece may move to or capture on
// and marks them on a highlight grid. It does not know whose turn it is and
// never checks for check; blocking, board edges and the pawn double step are
// the only rules.
package movepath

import "github.com/hailam/simplechess/internal/board"

// PathFunc marks the targets of the piece standing on sq.
type PathFunc func(b *board.Board, bg *board.Background, sq board.Square, friendly bool)

// Direction tables for the non-pawn pieces.
var (
	rookDirs    = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	bishopDirs  = [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	kingSteps   = [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	knightJumps = [8][2]int{{1, -2}, {-1, -2}, {2, -1}, {-2, -1}, {2, 1}, {-2, 1}, {1, 2}, {-1, 2}}
)

// paths is indexed by piece id. The Empty entry is nil.
var paths = [board.NumPieces]PathFunc{
	board.WhitePawn:   ShowWhitePawnPath,
	board.WhiteRook:   ShowWhiteRookPath,
	board.WhiteKnight: ShowWhiteKnightPath,
	board.WhiteBishop: ShowWhiteBishopPath,
	board.WhiteQueen:  ShowWhiteQueenPath,
	board.WhiteKing:   ShowWhiteKingPath,
	board.BlackPawn:   ShowBlackPawnPath,
	board.BlackRook:   ShowBlackRookPath,
	board.BlackKnight: ShowBlackKnightPath,
	board.BlackBishop: ShowBlackBishopPath,
	board.BlackQueen:  ShowBlackQueenPath,
	board.BlackKing:   ShowBlackKingPath,
}

// Show marks every target of the piece on sq. An empty square, an unknown
// piece id or an off-board square marks nothing.
func Show(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	if !sq.Valid() {
		return
	}
	p := b.At(sq)
	if !p.Valid() {
		return
	}
	if fn := paths[p]; fn != nil {
		fn(b, bg, sq, friendly)
	}
}

// Targets returns a fresh highlight grid holding the targets of the piece on sq.
func Targets(b *board.Board, sq board.Square, friendly bool) board.Background {
	var bg board.Background
	Show(b, &bg, sq, friendly)
	return bg
}

func ShowWhitePawnPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	pawnPath(b, bg, sq, board.White, friendly)
}

func ShowBlackPawnPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	pawnPath(b, bg, sq, board.Black, friendly)
}

func ShowWhiteRookPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	rays(b, bg, sq, board.White, rookDirs[:], friendly)
}

func ShowBlackRookPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	rays(b, bg, sq, board.Black, rookDirs[:], friendly)
}

func ShowWhiteBishopPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	rays(b, bg, sq, board.White, bishopDirs[:], friendly)
}

func ShowBlackBishopPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	rays(b, bg, sq, board.Black, bishopDirs[:], friendly)
}

func ShowWhiteQueenPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	rays(b, bg, sq, board.White, rookDirs[:], friendly)
	rays(b, bg, sq, board.White, bishopDirs[:], friendly)
}

func ShowBlackQueenPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	rays(b, bg, sq, board.Black, rookDirs[:], friendly)
	rays(b, bg, sq, board.Black, bishopDirs[:], friendly)
}

func ShowWhiteKnightPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	steps(b, bg, sq, board.White, knightJumps[:], friendly)
}

func ShowBlackKnightPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	steps(b, bg, sq, board.Black, knightJumps[:], friendly)
}

func ShowWhiteKingPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	steps(b, bg, sq, board.White, kingSteps[:], friendly)
}

func ShowBlackKingPath(b *board.Board, bg *board.Background, sq board.Square, friendly bool) {
	steps(b, bg, sq, board.Black, kingSteps[:], friendly)
}

// opposes reports whether p belongs to the side opposite to c.
func opposes(p board.Piece, c board.Color) bool {
	return p != board.Empty && p.Color() == c.Other()
}

// pawnPath marks the single push, the double push from the home row and
// the two diagonal captures.
func pawnPath(b *board.Board, bg *board.Background, sq board.Square, c board.Color, friendly bool) {
	dy := board.Forward(c)

	one := sq.Add(0, dy)
	if one.Valid() && b.At(one) == board.Empty {
		bg.Set(one, board.MoveMarker(friendly))

		two := sq.Add(0, 2*dy)
		if sq.Y == board.HomeRow(c) && two.Valid() && b.At(two) == board.Empty {
			bg.Set(two, board.MoveMarker(friendly))
		}
	}

	for _, dx := range [2]int{-1, 1} {
		diag := sq.Add(dx, dy)
		if diag.Valid() && opposes(b.At(diag), c) {
			bg.Set(diag, board.CaptureMarker(friendly))
		}
	}
}

// rays walks each direction until the edge. Empty squares are moves, the
// first enemy piece is a capture and ends the ray, a friendly piece ends
// the ray unmarked.
func rays(b *board.Board, bg *board.Background, sq board.Square, c board.Color, dirs [][2]int, friendly bool) {
	for _, d := range dirs {
		for t := sq.Add(d[0], d[1]); t.Valid(); t = t.Add(d[0], d[1]) {
			p := b.At(t)
			if p == board.Empty {
				bg.Set(t, board.MoveMarker(friendly))
				continue
			}
			if opposes(p, c) {
				bg.Set(t, board.CaptureMarker(friendly))
			}
			break
		}
	}
}

// steps checks each offset on its own, with no blocking between them.
func steps(b *board.Board, bg *board.Background, sq board.Square, c board.Color, offsets [][2]int, friendly bool) {
	for _, o := range offsets {
		t := sq.Add(o[0], o[1])
		if !t.Valid() {
			continue
		}
		p := b.At(t)
		switch {
		case p == board.Empty:
			bg.Set(t, board.MoveMarker(friendly))
		case opposes(p, c):
			bg.Set(t, board.CaptureMarker(friendly))
		}
	}
}
