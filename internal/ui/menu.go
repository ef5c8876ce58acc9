package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/simplechess/internal/config"
	"github.com/hailam/simplechess/internal/game"
	"github.com/hailam/simplechess/internal/netplay"
	"github.com/hailam/simplechess/internal/storage"
)

// MenuAction is what the start page asks the app to do.
type MenuAction int

const (
	MenuNone MenuAction = iota
	MenuHost
	MenuJoin
	MenuLocal
	MenuReader
)

// Mode maps a session action to its game mode.
func (a MenuAction) Mode() game.Mode {
	switch a {
	case MenuHost:
		return game.ModeHost
	case MenuJoin:
		return game.ModeGuest
	default:
		return game.ModeLocal
	}
}

// Start page layout
const (
	menuColumnW = 320
	menuButtonH = 44
	menuGap     = 12
)

var transports = []string{netplay.TCP, netplay.WebSocket}

// Menu is the start page: four session buttons, connection fields, the
// outcome of the last game and overall statistics.
type Menu struct {
	buttons   []*Button
	hostInput *TextInput
	portInput *TextInput
	transport *ButtonGroup
	sound     *Checkbox

	action MenuAction
	result game.Result
	stats  string
}

// NewMenu builds the start page from the saved network settings.
func NewMenu(net config.Network, soundOn bool) *Menu {
	m := &Menu{}

	x := ScreenWidth/2 - menuColumnW - 20
	y := 200
	add := func(label string, primary bool, a MenuAction) {
		m.buttons = append(m.buttons, NewButton(x, y, menuColumnW, menuButtonH, label, primary, func() { m.action = a }))
		y += menuButtonH + menuGap
	}
	add("New Game", true, MenuHost)
	add("Connect", false, MenuJoin)
	add("Local Game", false, MenuLocal)
	add("Reader", false, MenuReader)

	fx := ScreenWidth/2 + 20
	m.hostInput = NewTextInput(fx, 224, menuColumnW, 36, "Host", 64)
	m.hostInput.Value = net.Host
	m.portInput = NewTextInput(fx, 290, menuColumnW, 36, "Port", 5)
	m.portInput.Value = strconv.Itoa(net.Port)
	m.portInput.Accept = func(r rune) bool { return r >= '0' && r <= '9' }

	selected := 0
	if net.Transport == netplay.WebSocket {
		selected = 1
	}
	m.transport = NewButtonGroup(fx, 356, []string{"TCP", "WebSocket"}, selected, menuColumnW/2, 32)
	m.sound = NewCheckbox(fx, 410, "Sound", soundOn)
	return m
}

// Update handles input and returns the chosen action, if any.
func (m *Menu) Update(input *InputHandler) MenuAction {
	m.action = MenuNone
	m.hostInput.Update(input)
	m.portInput.Update(input)
	m.transport.Update(input)
	m.sound.Update(input)
	for _, b := range m.buttons {
		if b.Update(input) {
			break
		}
	}
	return m.action
}

// Network returns the connection settings typed into the page.
func (m *Menu) Network(base config.Network) (config.Network, error) {
	n := base
	n.Host = strings.TrimSpace(m.hostInput.Value)
	if n.Host == "" {
		return n, fmt.Errorf("%w: host is empty", config.ErrInvalid)
	}
	port, err := strconv.Atoi(m.portInput.Value)
	if err != nil || port < 1 || port > 65535 {
		return n, fmt.Errorf("%w: port %q", config.ErrInvalid, m.portInput.Value)
	}
	n.Port = port
	n.Transport = transports[m.transport.Selected]
	return n, nil
}

// SoundEnabled reports the sound checkbox.
func (m *Menu) SoundEnabled() bool {
	return m.sound.Checked
}

// SetResult sets the line shown under the title.
func (m *Menu) SetResult(r game.Result) {
	m.result = r
}

// SetStats summarizes stats on the page.
func (m *Menu) SetStats(s *storage.GameStats) {
	if s == nil || s.GamesPlayed == 0 {
		m.stats = ""
		return
	}
	m.stats = fmt.Sprintf("Games played: %d   White wins: %d   Black wins: %d   Errors: %d",
		s.GamesPlayed, s.WhiteWins, s.BlackWins, s.Errors)
}

// AnyButtonHovered returns true if the cursor is over a clickable element.
func (m *Menu) AnyButtonHovered() bool {
	for _, b := range m.buttons {
		if b.IsHovered() {
			return true
		}
	}
	return m.transport.hovered >= 0 || m.sound.hovered
}

// Draw renders the start page.
func (m *Menu) Draw(screen *ebiten.Image) {
	screen.Fill(panelBg)

	cx := float64(ScreenWidth) / 2
	drawTextCentered(screen, "SimpleChess", GetTitleFace(), cx, 70, textPrimary)

	if msg := m.result.Message(); msg != "" {
		c := statusGameOver
		if m.result == game.ResultError {
			c = statusError
		}
		drawTextCentered(screen, msg, GetBoldFace(), cx, 130, c)
	}

	for _, b := range m.buttons {
		b.Draw(screen)
	}

	x := m.hostInput.X
	DrawSectionHeader(screen, "Host", x, m.hostInput.Y-14)
	m.hostInput.Draw(screen)
	DrawSectionHeader(screen, "Port", x, m.portInput.Y-14)
	m.portInput.Draw(screen)
	DrawSectionHeader(screen, "Transport", x, m.transport.Y-14)
	m.transport.Draw(screen)
	m.sound.Draw(screen)

	fillRect(screen, ScreenWidth/2, 200, 1, 4*(menuButtonH+menuGap)-menuGap, dividerColor)

	hint := "New Game hosts as White. Connect joins as Black."
	drawTextCentered(screen, hint, GetRegularFace(), cx, 470, textSecondary)
	if m.stats != "" {
		DrawDivider(screen, ScreenWidth/2-menuColumnW, 540, menuColumnW*2)
		drawTextCentered(screen, m.stats, GetRegularFace(), cx, 570, textMuted)
	}
}
