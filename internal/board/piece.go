package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opposite color.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Kind represents the type of a chess piece regardless of color.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Rook:
		return "Rook"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Piece is the content of a board square. The numeric values are stable:
// they appear in the board config file, the move log and the wire format.
// Encoded as: kind + color*6, with 0 meaning an empty square.
type Piece uint8

const (
	Empty Piece = iota
	WhitePawn
	WhiteRook
	WhiteKnight
	WhiteBishop
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackRook
	BlackKnight
	BlackBishop
	BlackQueen
	BlackKing
)

// NumPieces is the number of distinct square contents, Empty included.
const NumPieces = 13

// NewPiece creates a Piece from a Kind and Color.
func NewPiece(k Kind, c Color) Piece {
	if k == NoKind || k > King || c >= NoColor {
		return Empty
	}
	return Piece(k) + Piece(c)*6
}

// Valid reports whether p is one of the thirteen known ids.
func (p Piece) Valid() bool {
	return p <= BlackKing
}

// IsWhite reports whether p is a white piece.
func (p Piece) IsWhite() bool {
	return p >= WhitePawn && p <= WhiteKing
}

// IsBlack reports whether p is a black piece.
func (p Piece) IsBlack() bool {
	return p >= BlackPawn && p <= BlackKing
}

// Color returns the color of the piece, NoColor for Empty.
func (p Piece) Color() Color {
	switch {
	case p.IsWhite():
		return White
	case p.IsBlack():
		return Black
	default:
		return NoColor
	}
}

// Kind returns the kind of the piece, NoKind for Empty.
func (p Piece) Kind() Kind {
	if p == Empty || !p.Valid() {
		return NoKind
	}
	return Kind((p-1)%6 + 1)
}

// Opposes reports whether p and q are pieces of opposite colors.
func (p Piece) Opposes(q Piece) bool {
	return (p.IsWhite() && q.IsBlack()) || (p.IsBlack() && q.IsWhite())
}

// Name returns the human readable name, e.g. "White Knight" or "Empty".
func (p Piece) Name() string {
	if p == Empty || !p.Valid() {
		return "Empty"
	}
	return p.Color().String() + " " + p.Kind().String()
}

// String returns the piece name.
func (p Piece) String() string {
	return p.Name()
}

// Char returns the FEN character for the piece.
// Uppercase for white, lowercase for black, '.' for an empty square.
func (p Piece) Char() byte {
	if p == Empty || !p.Valid() {
		return '.'
	}
	return "PRNBQKprnbqk"[p-1]
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) (Piece, bool) {
	switch c {
	case 'P':
		return WhitePawn, true
	case 'N':
		return WhiteKnight, true
	case 'B':
		return WhiteBishop, true
	case 'R':
		return WhiteRook, true
	case 'Q':
		return WhiteQueen, true
	case 'K':
		return WhiteKing, true
	case 'p':
		return BlackPawn, true
	case 'n':
		return BlackKnight, true
	case 'b':
		return BlackBishop, true
	case 'r':
		return BlackRook, true
	case 'q':
		return BlackQueen, true
	case 'k':
		return BlackKing, true
	default:
		return Empty, false
	}
}
