package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartPlacement is the FEN piece placement of the starting position.
const StartPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// Board is the 8x8 piece grid indexed [y][x].
type Board [Size][Size]Piece

// StartingBoard returns the standard starting position.
func StartingBoard() Board {
	var b Board
	back := [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x := 0; x < Size; x++ {
		b[0][x] = NewPiece(back[x], Black)
		b[1][x] = BlackPawn
		b[6][x] = WhitePawn
		b[7][x] = NewPiece(back[x], White)
	}
	return b
}

// At returns the piece on sq. sq must be valid.
func (b Board) At(sq Square) Piece {
	return b[sq.Y][sq.X]
}

// Set places p on sq. sq must be valid.
func (b *Board) Set(sq Square, p Piece) {
	b[sq.Y][sq.X] = p
}

// Promote returns the piece p becomes on arriving at sq: a pawn reaching
// its promotion row turns into a queen of the same color.
func Promote(p Piece, sq Square) Piece {
	if p.Kind() != Pawn || sq.Y != PromotionRow(p.Color()) {
		return p
	}
	return NewPiece(Queen, p.Color())
}

// Commit moves the piece on from to to, applying promotion and emptying the
// source square. It returns the piece that now stands on to and the piece
// that was there before. Committing a square onto itself changes nothing.
func (b *Board) Commit(from, to Square) (moved, captured Piece) {
	if from == to {
		return b.At(from), Empty
	}
	captured = b.At(to)
	moved = Promote(b.At(from), to)
	b.Set(to, moved)
	b.Set(from, Empty)
	return moved, captured
}

// HasKing reports whether a king of color c is anywhere on the board.
func (b Board) HasKing(c Color) bool {
	king := NewPiece(King, c)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b[y][x] == king {
				return true
			}
		}
	}
	return false
}

// Count returns the number of non-empty squares.
func (b Board) Count() int {
	n := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b[y][x] != Empty {
				n++
			}
		}
	}
	return n
}

// ParsePlacement parses the piece placement field of a FEN string.
// The first rank listed is row 0.
func ParsePlacement(placement string) (Board, error) {
	var b Board
	rows := strings.Split(placement, "/")
	if len(rows) != Size {
		return b, fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(rows))
	}

	for y, rowStr := range rows {
		x := 0
		for _, c := range rowStr {
			if x > Size-1 {
				return b, fmt.Errorf("too many squares in row %d", y)
			}

			if c >= '1' && c <= '8' {
				x += int(c - '0')
				continue
			}
			p, ok := PieceFromChar(byte(c))
			if !ok {
				return b, fmt.Errorf("invalid piece character: %c", c)
			}
			b[y][x] = p
			x++
		}

		if x != Size {
			return b, fmt.Errorf("invalid number of squares in row %d: got %d", y, x)
		}
	}

	return b, nil
}

// Placement returns the FEN piece placement of the board.
func (b Board) Placement() string {
	var sb strings.Builder

	for y := 0; y < Size; y++ {
		empty := 0
		for x := 0; x < Size; x++ {
			p := b[y][x]
			if p == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if y < Size-1 {
			sb.WriteByte('/')
		}
	}

	return sb.String()
}

// String returns an ASCII diagram of the board, row 0 first.
func (b Board) String() string {
	var sb strings.Builder
	for y := 0; y < Size; y++ {
		sb.WriteByte(byte('8' - y))
		sb.WriteByte(' ')
		for x := 0; x < Size; x++ {
			sb.WriteByte(b[y][x].Char())
			if x < Size-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}
