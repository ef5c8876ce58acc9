package ui

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Nav is a reader navigation request from the keyboard.
type Nav int

const (
	NavNone Nav = iota
	NavStart
	NavBack
	NavNext
	NavEnd
)

var navKeys = []struct {
	key ebiten.Key
	nav Nav
}{
	{ebiten.KeyHome, NavStart},
	{ebiten.KeyArrowLeft, NavBack},
	{ebiten.KeyBackspace, NavBack},
	{ebiten.KeyArrowRight, NavNext},
	{ebiten.KeySpace, NavNext},
	{ebiten.KeyEnd, NavEnd},
}

// InputHandler samples mouse and keyboard state once per frame so every
// widget sees the same snapshot.
type InputHandler struct {
	cursor  image.Point
	down    bool
	clicked bool
	leave   bool
	nav     Nav
	threats bool
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update samples the current frame.
func (ih *InputHandler) Update() {
	x, y := ebiten.CursorPosition()
	ih.cursor = image.Pt(x, y)
	ih.down = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	ih.clicked = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	// Escape, or W/C with Ctrl or Alt held.
	held := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyAlt)
	ih.leave = inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		held && (inpututil.IsKeyJustPressed(ebiten.KeyW) || inpututil.IsKeyJustPressed(ebiten.KeyC))

	ih.threats = inpututil.IsKeyJustPressed(ebiten.KeyT)

	ih.nav = NavNone
	for _, k := range navKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			ih.nav = k.nav
			break
		}
	}
}

// MousePosition returns the cursor in layout coordinates.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.cursor.X, ih.cursor.Y
}

func (ih *InputHandler) IsLeftJustPressed() bool { return ih.clicked }

func (ih *InputHandler) IsLeftPressed() bool { return ih.down }

// CloseRequested reports whether the user asked to leave the current view.
func (ih *InputHandler) CloseRequested() bool {
	return ih.leave
}

// Nav returns the navigation key pressed this frame.
func (ih *InputHandler) Nav() Nav {
	return ih.nav
}

// ThreatsToggled reports whether T was pressed this frame.
func (ih *InputHandler) ThreatsToggled() bool {
	return ih.threats
}

// IsInBounds reports whether the cursor is inside the w by h rectangle at x, y.
func (ih *InputHandler) IsInBounds(x, y, w, h int) bool {
	return ih.cursor.In(image.Rect(x, y, x+w, y+h))
}
