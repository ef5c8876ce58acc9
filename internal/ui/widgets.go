package ui

import (
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Palette
var (
	panelBg          = color.RGBA{38, 40, 45, 255}
	buttonBg         = color.RGBA{50, 54, 60, 255}
	buttonHoverBg    = color.RGBA{65, 70, 78, 255}
	buttonPressedBg  = color.RGBA{40, 44, 50, 255}
	accentColor      = color.RGBA{76, 175, 120, 255}
	accentHover      = color.RGBA{96, 195, 140, 255}
	accentPressed    = color.RGBA{56, 155, 100, 255}
	textPrimary      = color.RGBA{240, 240, 245, 255}
	textSecondary    = color.RGBA{160, 165, 175, 255}
	textMuted        = color.RGBA{120, 125, 135, 255}
	dividerColor     = color.RGBA{60, 65, 72, 255}
	statusWaiting    = color.RGBA{100, 180, 255, 255}
	statusGameOver   = color.RGBA{255, 200, 80, 255}
	statusError      = color.RGBA{235, 90, 80, 255}
	dimOverlay       = color.RGBA{0, 0, 0, 150}
	widgetBg         = color.RGBA{48, 52, 58, 255}
	widgetBorder     = color.RGBA{68, 72, 78, 255}
	widgetHoverBg    = color.RGBA{65, 70, 78, 255}
	inputTextColor   = color.RGBA{240, 240, 245, 255}
	inputPlaceholder = color.RGBA{120, 125, 135, 255}
)

// TextInput is an editable single-line field.
type TextInput struct {
	X, Y, W, H  int
	Value       string
	Placeholder string
	MaxLength   int
	// Accept filters typed runes; nil accepts everything.
	Accept func(rune) bool

	focused     bool
	hovered     bool
	cursorBlink int
}

// NewTextInput creates a new text input widget.
func NewTextInput(x, y, w, h int, placeholder string, maxLen int) *TextInput {
	return &TextInput{
		X: x, Y: y, W: w, H: h,
		Placeholder: placeholder,
		MaxLength:   maxLen,
	}
}

// Update handles focus and typing. It returns true while focused.
func (ti *TextInput) Update(input *InputHandler) bool {
	ti.hovered = input.IsInBounds(ti.X, ti.Y, ti.W, ti.H)
	if input.IsLeftJustPressed() {
		ti.focused = ti.hovered
	}
	if !ti.focused {
		return false
	}

	ti.cursorBlink = (ti.cursorBlink + 1) % 60

	for _, c := range ebiten.AppendInputChars(nil) {
		if ti.Accept != nil && !ti.Accept(c) {
			continue
		}
		if ti.MaxLength == 0 || utf8.RuneCountInString(ti.Value) < ti.MaxLength {
			ti.Value += string(c)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(ti.Value) > 0 {
		_, size := utf8.DecodeLastRuneInString(ti.Value)
		ti.Value = ti.Value[:len(ti.Value)-size]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		ti.focused = false
	}
	return true
}

// Draw renders the text input.
func (ti *TextInput) Draw(screen *ebiten.Image) {
	bg := widgetBg
	if ti.hovered && !ti.focused {
		bg = widgetHoverBg
	}
	fillRect(screen, ti.X, ti.Y, ti.W, ti.H, bg)

	border := widgetBorder
	if ti.focused || ti.hovered {
		border = accentColor
	}
	strokeRect(screen, ti.X, ti.Y, ti.W, ti.H, 2, border)

	face := GetRegularFace()
	if face == nil {
		return
	}
	textX := float64(ti.X + 10)
	s, c := ti.Value, color.Color(inputTextColor)
	if s == "" {
		s, c = ti.Placeholder, inputPlaceholder
	}
	_, h := MeasureText(s, face)
	drawText(screen, s, face, textX, float64(ti.Y+ti.H/2)-h/2, c)

	if ti.focused && ti.cursorBlink < 30 {
		w := 0.0
		if ti.Value != "" {
			w, _ = MeasureText(ti.Value, face)
			w += 2
		}
		vector.DrawFilledRect(screen, float32(textX+w), float32(ti.Y+8), 2, float32(ti.H-16), inputTextColor, false)
	}
}

// IsFocused returns true if the input is focused.
func (ti *TextInput) IsFocused() bool {
	return ti.focused
}

// Checkbox is a toggleable checkbox widget.
type Checkbox struct {
	X, Y    int
	Label   string
	Checked bool
	hovered bool
}

// NewCheckbox creates a new checkbox.
func NewCheckbox(x, y int, label string, checked bool) *Checkbox {
	return &Checkbox{X: x, Y: y, Label: label, Checked: checked}
}

// Update toggles the box on click and reports whether it changed.
func (cb *Checkbox) Update(input *InputHandler) bool {
	cb.hovered = input.IsInBounds(cb.X, cb.Y, 200, 24)
	if input.IsLeftJustPressed() && cb.hovered {
		cb.Checked = !cb.Checked
		return true
	}
	return false
}

// Draw renders the checkbox.
func (cb *Checkbox) Draw(screen *ebiten.Image) {
	boxX, boxY, boxSize := float32(cb.X), float32(cb.Y), float32(20)

	bg := widgetBg
	if cb.hovered {
		bg = widgetHoverBg
	}
	vector.DrawFilledRect(screen, boxX, boxY, boxSize, boxSize, bg, false)

	border := widgetBorder
	if cb.hovered || cb.Checked {
		border = accentColor
	}
	vector.StrokeRect(screen, boxX, boxY, boxSize, boxSize, 2, border, false)

	if cb.Checked {
		vector.StrokeLine(screen, boxX+4, boxY+10, boxX+8, boxY+14, 2, accentColor, false)
		vector.StrokeLine(screen, boxX+8, boxY+14, boxX+16, boxY+6, 2, accentColor, false)
	}

	face := GetRegularFace()
	_, h := MeasureText(cb.Label, face)
	c := textSecondary
	if cb.Checked {
		c = textPrimary
	}
	drawText(screen, cb.Label, face, float64(cb.X+30), float64(cb.Y+10)-h/2, c)
}

// ButtonGroup is a horizontal group of toggle buttons.
type ButtonGroup struct {
	X, Y     int
	Options  []string
	Selected int
	ButtonW  int
	ButtonH  int
	hovered  int
}

// NewButtonGroup creates a new button group.
func NewButtonGroup(x, y int, options []string, selected int, buttonW, buttonH int) *ButtonGroup {
	return &ButtonGroup{
		X: x, Y: y,
		Options:  options,
		Selected: selected,
		ButtonW:  buttonW,
		ButtonH:  buttonH,
		hovered:  -1,
	}
}

// Update selects the clicked option and reports whether the selection changed.
func (bg *ButtonGroup) Update(input *InputHandler) bool {
	bg.hovered = -1
	for i := range bg.Options {
		if !input.IsInBounds(bg.X+i*bg.ButtonW, bg.Y, bg.ButtonW, bg.ButtonH) {
			continue
		}
		bg.hovered = i
		if input.IsLeftJustPressed() && bg.Selected != i {
			bg.Selected = i
			return true
		}
	}
	return false
}

// Draw renders the button group.
func (bg *ButtonGroup) Draw(screen *ebiten.Image) {
	tabActive := color.RGBA{76, 132, 96, 255}

	for i, label := range bg.Options {
		x := bg.X + i*bg.ButtonW
		fill := buttonBg
		switch {
		case i == bg.Selected:
			fill = tabActive
		case i == bg.hovered:
			fill = buttonHoverBg
		}
		fillRect(screen, x, bg.Y, bg.ButtonW, bg.ButtonH, fill)
		strokeRect(screen, x, bg.Y, bg.ButtonW, bg.ButtonH, 1, widgetBorder)

		c := textSecondary
		if i == bg.Selected {
			c = textPrimary
		}
		drawTextCentered(screen, label, GetRegularFace(),
			float64(x)+float64(bg.ButtonW)/2, float64(bg.Y)+float64(bg.ButtonH)/2, c)
	}
}

// Button is a clickable labelled rectangle.
type Button struct {
	X, Y, W, H int
	Label      string
	Primary    bool
	Disabled   bool
	OnClick    func()
	hovered    bool
	pressed    bool
}

// NewButton creates a new button.
func NewButton(x, y, w, h int, label string, primary bool, onClick func()) *Button {
	return &Button{
		X: x, Y: y, W: w, H: h,
		Label:   label,
		Primary: primary,
		OnClick: onClick,
	}
}

// IsHovered returns true if the button is hovered.
func (b *Button) IsHovered() bool {
	return b.hovered && !b.Disabled
}

// Update runs OnClick when the button is clicked.
func (b *Button) Update(input *InputHandler) bool {
	b.hovered = input.IsInBounds(b.X, b.Y, b.W, b.H)
	b.pressed = input.IsLeftPressed() && b.hovered
	if b.Disabled {
		return false
	}
	if input.IsLeftJustPressed() && b.hovered && b.OnClick != nil {
		b.OnClick()
		return true
	}
	return false
}

// Draw renders the button.
func (b *Button) Draw(screen *ebiten.Image) {
	fill, border := buttonBg, widgetBorder
	switch {
	case b.Disabled:
		fill = buttonPressedBg
	case b.Primary && b.pressed:
		fill, border = accentPressed, accentPressed
	case b.Primary && b.hovered:
		fill, border = accentHover, accentHover
	case b.Primary:
		fill, border = accentColor, accentPressed
	case b.pressed:
		fill = buttonPressedBg
	case b.hovered:
		fill, border = buttonHoverBg, accentColor
	}

	fillRect(screen, b.X, b.Y, b.W, b.H, fill)
	strokeRect(screen, b.X, b.Y, b.W, b.H, 1, border)

	c := textPrimary
	if b.Disabled {
		c = textMuted
	}
	drawTextCentered(screen, b.Label, GetRegularFace(), float64(b.X)+float64(b.W)/2, float64(b.Y)+float64(b.H)/2, c)
}

// DrawDivider draws a horizontal divider line.
func DrawDivider(screen *ebiten.Image, x, y, w int) {
	fillRect(screen, x, y, w, 1, dividerColor)
}

func fillRect(dst *ebiten.Image, x, y, w, h int, c color.Color) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

func strokeRect(dst *ebiten.Image, x, y, w, h int, width float32, c color.Color) {
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), width, c, false)
}

// DrawSectionHeader draws a muted section label.
func DrawSectionHeader(screen *ebiten.Image, label string, x, y int) {
	face := GetRegularFace()
	_, h := MeasureText(label, face)
	drawText(screen, label, face, float64(x), float64(y)-h/2, textMuted)
}
