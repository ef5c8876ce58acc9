package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Panel dimensions
const (
	PanelPadding   = 20
	SectionSpacing = 28
	ButtonHeight   = 40
	SectionLabelH  = 20
)

// PanelView is the text the side panel shows for the current frame.
type PanelView struct {
	Title       string
	Turn        string
	LastMove    string
	Status      string
	StatusColor color.RGBA
	Progress    string // reader only, e.g. "Move 3 / 10"
}

// Panel is the side panel next to the board. In reader mode it also shows
// the step controls.
type Panel struct {
	reader bool

	menuBtn  *Button
	startBtn *Button
	backBtn  *Button
	nextBtn  *Button
	endBtn   *Button
}

// PanelActions are the callbacks behind the panel buttons.
type PanelActions struct {
	Menu  func()
	Start func()
	Back  func()
	Next  func()
	End   func()
}

// NewPanel creates the side panel.
func NewPanel(actions PanelActions) *Panel {
	x := BoardSize + PanelPadding
	w := PanelWidth - PanelPadding*2

	p := &Panel{}
	p.menuBtn = NewButton(x, PanelPadding+8, w, ButtonHeight, "Back to Menu", false, actions.Menu)

	navY := ScreenHeight - 140
	navW := w / 4
	p.startBtn = NewButton(x, navY, navW, ButtonHeight-4, "|<", false, actions.Start)
	p.backBtn = NewButton(x+navW, navY, navW, ButtonHeight-4, "<", true, actions.Back)
	p.nextBtn = NewButton(x+navW*2, navY, navW, ButtonHeight-4, ">", true, actions.Next)
	p.endBtn = NewButton(x+navW*3, navY, navW, ButtonHeight-4, ">|", false, actions.End)
	return p
}

// SetReader switches the step controls on or off.
func (p *Panel) SetReader(on bool) {
	p.reader = on
}

func (p *Panel) buttons() []*Button {
	if p.reader {
		return []*Button{p.menuBtn, p.startBtn, p.backBtn, p.nextBtn, p.endBtn}
	}
	return []*Button{p.menuBtn}
}

// HandleInput updates the panel buttons and reports whether one was clicked.
func (p *Panel) HandleInput(input *InputHandler) bool {
	for _, b := range p.buttons() {
		if b.Update(input) {
			return true
		}
	}
	return false
}

// AnyButtonHovered returns true if any panel button is hovered.
func (p *Panel) AnyButtonHovered() bool {
	for _, b := range p.buttons() {
		if b.IsHovered() {
			return true
		}
	}
	return false
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image, v PanelView) {
	fillRect(screen, BoardSize, 0, PanelWidth, ScreenHeight, panelBg)

	x := BoardSize + PanelPadding
	w := PanelWidth - PanelPadding*2

	p.menuBtn.Draw(screen)

	y := p.menuBtn.Y + ButtonHeight + SectionSpacing
	DrawSectionHeader(screen, v.Title, x, y)
	y += SectionLabelH

	drawText(screen, v.Turn, GetBoldFace(), float64(x), float64(y), textPrimary)
	y += SectionSpacing + 8

	DrawDivider(screen, x, y, w)
	y += 12
	drawText(screen, v.LastMove, GetRegularFace(), float64(x), float64(y), textSecondary)

	if p.reader {
		if v.Progress != "" {
			drawTextCentered(screen, v.Progress, GetRegularFace(), float64(x+w/2), float64(p.backBtn.Y-20), textMuted)
		}
		for _, b := range []*Button{p.startBtn, p.backBtn, p.nextBtn, p.endBtn} {
			b.Draw(screen)
		}
	}

	statusY := ScreenHeight - 70
	DrawDivider(screen, x, statusY-10, w)
	if v.Status != "" {
		drawText(screen, v.Status, GetRegularFace(), float64(x), float64(statusY), v.StatusColor)
	}
}
