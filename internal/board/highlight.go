package board

// Marker is the highlight drawn underneath a square. Values match the
// background ids used by existing SimpleChess files and must not be reordered.
type Marker uint8

const (
	None Marker = iota
	FriendlyMove
	FriendlyCapture
	OpposingCapture
	OpposingMove
)

// MoveMarker returns the move marker for the given perspective.
func MoveMarker(friendly bool) Marker {
	if friendly {
		return FriendlyMove
	}
	return OpposingMove
}

// CaptureMarker returns the capture marker for the given perspective.
func CaptureMarker(friendly bool) Marker {
	if friendly {
		return FriendlyCapture
	}
	return OpposingCapture
}

// IsMove reports whether m marks a move onto an empty square.
func (m Marker) IsMove() bool {
	return m == FriendlyMove || m == OpposingMove
}

// IsCapture reports whether m marks a capture.
func (m Marker) IsCapture() bool {
	return m == FriendlyCapture || m == OpposingCapture
}

// IsFriendly reports whether m belongs to the friendly family.
func (m Marker) IsFriendly() bool {
	return m == FriendlyMove || m == FriendlyCapture
}

// Matches reports whether m is a move or capture marker of the given
// perspective.
func (m Marker) Matches(friendly bool) bool {
	return m != None && m.IsFriendly() == friendly
}

func (m Marker) String() string {
	switch m {
	case FriendlyMove:
		return "FriendlyMove"
	case FriendlyCapture:
		return "FriendlyCapture"
	case OpposingCapture:
		return "OpposingCapture"
	case OpposingMove:
		return "OpposingMove"
	default:
		return "None"
	}
}

// Background is the highlight grid indexed [y][x].
type Background [Size][Size]Marker

// At returns the marker on sq. sq must be valid.
func (bg Background) At(sq Square) Marker {
	return bg[sq.Y][sq.X]
}

// Set marks sq. sq must be valid.
func (bg *Background) Set(sq Square, m Marker) {
	bg[sq.Y][sq.X] = m
}

// Clear removes every highlight.
func (bg *Background) Clear() {
	*bg = Background{}
}

// Marked returns every highlighted square in row-major order.
func (bg Background) Marked() []Square {
	var out []Square
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if bg[y][x] != None {
				out = append(out, Sq(x, y))
			}
		}
	}
	return out
}
