// Package board implements the SimpleChess board model: piece ids, squares,
// the piece grid and the highlight grid drawn underneath it.
package board

import "fmt"

// Size is the number of files and rows on the board.
const Size = 8

// Square addresses a board cell. X is the file (column) 0-7 from the left,
// Y is the row 0-7 counted from the top, so row 0 is Black's back rank and
// row 7 is White's.
type Square struct {
	X, Y int
}

// Sq is shorthand for Square{X: x, Y: y}.
func Sq(x, y int) Square {
	return Square{X: x, Y: y}
}

// Valid returns true if the square lies on the board.
func (s Square) Valid() bool {
	return s.X >= 0 && s.X < Size && s.Y >= 0 && s.Y < Size
}

// Add returns the square offset by (dx, dy). The result may be off the board.
func (s Square) Add(dx, dy int) Square {
	return Square{X: s.X + dx, Y: s.Y + dy}
}

// String returns the coordinate form used in move descriptions, e.g. "(1, 7)".
func (s Square) String() string {
	return fmt.Sprintf("(%d, %d)", s.X, s.Y)
}

// Algebraic returns the algebraic name of the square (e.g. "b1" for (1, 7)).
func (s Square) Algebraic() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+s.X, '8'-s.Y)
}

// ParseAlgebraic parses algebraic notation (e.g. "e4") into a Square.
func ParseAlgebraic(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("invalid square: %s", s)
	}

	x := int(s[0] - 'a')
	y := int('8' - s[1])

	sq := Square{X: x, Y: y}
	if !sq.Valid() {
		return Square{}, fmt.Errorf("invalid square: %s", s)
	}
	return sq, nil
}

// PromotionRow returns the row on which a pawn of color c promotes.
func PromotionRow(c Color) int {
	if c == Black {
		return Size - 1
	}
	return 0
}

// HomeRow returns the row pawns of color c start on.
func HomeRow(c Color) int {
	if c == Black {
		return 1
	}
	return Size - 2
}

// Forward returns the row delta a pawn of color c advances by.
func Forward(c Color) int {
	if c == Black {
		return 1
	}
	return -1
}
