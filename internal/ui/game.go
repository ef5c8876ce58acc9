package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/hailam/simplechess/internal/config"
	"github.com/hailam/simplechess/internal/game"
	"github.com/hailam/simplechess/internal/movepath"
	"github.com/hailam/simplechess/internal/obslog"
	"github.com/hailam/simplechess/internal/replay"
	"github.com/hailam/simplechess/internal/session"
	"github.com/hailam/simplechess/internal/storage"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

type view int

const (
	viewMenu view = iota
	viewConnecting
	viewPlay
	viewReader
)

// Options configures the window.
type Options struct {
	Config  *config.Config
	Storage *storage.Storage // nil runs without preferences or stats
	Archive storage.Archive  // nil disables archiving
	Logger  *zap.Logger
}

// Game implements ebiten.Game. It switches between the start page, a
// connecting screen, a game session and the log reader.
type Game struct {
	cfg     *config.Config
	storage *storage.Storage
	archive storage.Archive
	prefs   *storage.UserPreferences
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	renderer *Renderer
	input    *InputHandler
	audio    *AudioManager
	toasts   *ToastManager
	menu     *Menu
	panel    *Panel

	view    view
	target  string // host being joined
	pending *session.Pending
	session *session.Session
	replay  *replay.Replayer
	threats bool // reader shows the last moved piece's targets
}

// NewGame creates the window state and shows the start page.
func NewGame(opts Options) *Game {
	g := &Game{
		cfg:      opts.Config,
		storage:  opts.Storage,
		archive:  opts.Archive,
		log:      opts.Logger,
		renderer: NewRenderer(BoardSize, SquareSize),
		input:    NewInputHandler(),
		toasts:   NewToastManager(),
	}
	if g.log == nil {
		g.log = obslog.L()
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())

	g.loadPreferences()
	g.audio = NewAudioManager(g.prefs.SoundEnabled, g.prefs.Volume)
	net := g.cfg.Network
	// Reuse the last address typed into the menu once a network game was played.
	if g.prefs.LastMode != game.ModeLocal.String() && g.prefs.LastHost != "" {
		net.Host, net.Port = g.prefs.LastHost, g.prefs.LastPort
	}
	g.menu = NewMenu(net, g.prefs.SoundEnabled)
	g.panel = NewPanel(PanelActions{
		Menu:  g.leave,
		Start: func() { g.navigate(NavStart) },
		Back:  func() { g.navigate(NavBack) },
		Next:  func() { g.navigate(NavNext) },
		End:   func() { g.navigate(NavEnd) },
	})
	g.refreshStats()
	return g
}

// loadPreferences loads user preferences from storage. The config file
// decides the defaults.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	g.prefs.SoundEnabled = g.cfg.Sound.Enabled
	g.prefs.Volume = g.cfg.Sound.Volume
	if g.storage == nil {
		return
	}

	prefs, err := g.storage.LoadPreferences()
	if err != nil {
		g.log.Warn("load_preferences_failed", zap.Error(err))
		return
	}
	g.prefs = prefs
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		g.log.Warn("save_preferences_failed", zap.Error(err))
	}
}

func (g *Game) refreshStats() {
	if g.storage == nil {
		return
	}
	stats, err := g.storage.LoadStats()
	if err != nil {
		g.log.Warn("load_stats_failed", zap.Error(err))
		return
	}
	g.menu.SetStats(stats)
}

// Close releases the session and stops background work.
func (g *Game) Close() {
	g.endSession()
	if g.pending != nil {
		g.pending.Cancel()
		g.pending = nil
	}
	g.cancel()
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update()
	g.toasts.Update()

	switch g.view {
	case viewMenu:
		g.updateMenu()
	case viewConnecting:
		g.updateConnecting()
	case viewPlay:
		g.updatePlay()
	case viewReader:
		g.updateReader()
	}

	g.updateCursor()
	return nil
}

func (g *Game) updateMenu() {
	action := g.menu.Update(g.input)
	if on := g.menu.SoundEnabled(); on != g.audio.IsEnabled() {
		g.audio.SetEnabled(on)
		g.prefs.SoundEnabled = on
		g.savePreferences()
	}
	if action == MenuNone {
		return
	}
	g.audio.PlaySound(SoundMenu)

	if action == MenuReader {
		g.openReader()
		return
	}

	cfg := *g.cfg
	if action != MenuLocal {
		n, err := g.menu.Network(g.cfg.Network)
		if err != nil {
			g.showError(err)
			return
		}
		cfg.Network = n
		g.prefs.LastHost, g.prefs.LastPort = n.Host, n.Port
	}
	g.prefs.LastMode = action.Mode().String()
	g.prefs.LastPlayed = time.Now()
	g.savePreferences()

	g.pending = session.Start(g.ctx, action.Mode(), session.Deps{
		Config:  &cfg,
		Archive: g.archive,
		Effects: g.audio,
		Logger:  g.log,
	})
	g.target = cfg.Network.Host
	g.view = viewConnecting
}

func (g *Game) updateConnecting() {
	if g.input.CloseRequested() || (g.input.IsLeftJustPressed() && g.pending.Mode() != game.ModeLocal) {
		g.log.Info("connect_cancelled", zap.String("mode", g.pending.Mode().String()))
		g.pending.Cancel()
		g.pending = nil
		g.view = viewMenu
		return
	}

	s, ok, err := g.pending.Poll()
	if !ok {
		return
	}
	g.pending = nil
	if err != nil {
		g.log.Warn("session_start_failed", zap.Error(err))
		g.showError(err)
		g.menu.SetResult(game.ResultError)
		g.view = viewMenu
		return
	}
	g.session = s
	if s.Mode() != game.ModeLocal {
		g.toasts.Show("Opponent connected", ToastInfo, 2*time.Second)
	}
	g.panel.SetReader(false)
	g.view = viewPlay
}

func (g *Game) updatePlay() {
	s := g.session
	if g.input.CloseRequested() {
		g.leave()
		return
	}
	if g.panel.HandleInput(g.input) {
		return
	}

	if s.Controller().Done() {
		// Any click on the board after the end returns to the start page.
		if g.input.IsLeftJustPressed() {
			g.leave()
		}
		return
	}

	if g.input.IsLeftJustPressed() {
		mx, my := g.input.MousePosition()
		if sq, ok := g.renderer.ScreenToSquare(mx, my); ok {
			if err := s.Click(g.ctx, sq); err != nil {
				g.showError(err)
			}
		}
	}
	if err := s.Update(); err != nil {
		g.showError(err)
	}
}

func (g *Game) openReader() {
	r, err := session.OpenReplay(g.cfg.Files)
	if err != nil {
		g.log.Warn("reader_open_failed", zap.Error(err))
		g.showError(err)
		g.menu.SetResult(game.ResultError)
		return
	}
	g.replay = r
	g.panel.SetReader(true)
	g.view = viewReader
}

func (g *Game) updateReader() {
	if g.input.CloseRequested() {
		g.leave()
		return
	}
	if g.panel.HandleInput(g.input) {
		return
	}
	if g.input.ThreatsToggled() {
		g.threats = !g.threats
	}
	g.navigate(g.input.Nav())
}

func (g *Game) navigate(n Nav) {
	switch n {
	case NavStart:
		g.step(func(r *replay.Replayer) { r.Reset() })
	case NavBack:
		g.step(func(r *replay.Replayer) { r.Back() })
	case NavNext:
		g.step(func(r *replay.Replayer) { r.Next() })
	case NavEnd:
		g.step(func(r *replay.Replayer) { r.Seek(r.Len()) })
	}
}

// step moves the reader and plays the move sound when the position changed.
func (g *Game) step(f func(*replay.Replayer)) {
	if g.replay == nil {
		return
	}
	before := g.replay.Index()
	f(g.replay)
	if g.replay.Index() != before {
		g.audio.PlaySound(SoundMove)
	}
}

// showError reports err in a toast.
func (g *Game) showError(err error) {
	g.audio.PlaySound(SoundError)
	g.toasts.Show(err.Error(), ToastError, 4*time.Second)
}

// leave returns to the start page from a session or the reader.
func (g *Game) leave() {
	g.audio.PlaySound(SoundMenu)
	if g.session != nil {
		g.menu.SetResult(g.endSession())
		g.refreshStats()
	}
	g.replay = nil
	g.view = viewMenu
}

// endSession closes the running session and returns its result.
func (g *Game) endSession() game.Result {
	if g.session == nil {
		return game.ResultNone
	}
	r := g.session.Close(g.ctx)
	g.session = nil
	return r
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	var hovered bool
	switch g.view {
	case viewMenu:
		hovered = g.menu.AnyButtonHovered()
	case viewPlay, viewReader:
		hovered = g.panel.AnyButtonHovered()
	}
	if hovered {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// Draw renders the current view.
func (g *Game) Draw(screen *ebiten.Image) {
	switch g.view {
	case viewMenu:
		g.menu.Draw(screen)
	case viewConnecting:
		g.drawConnecting(screen)
	case viewPlay:
		g.drawPlay(screen)
	case viewReader:
		g.drawReader(screen)
	}
	width := BoardSize
	if g.view == viewMenu || g.view == viewConnecting {
		width = ScreenWidth
	}
	g.toasts.Draw(screen, width)
}

func (g *Game) drawConnecting(screen *ebiten.Image) {
	screen.Fill(panelBg)
	msg := "Starting..."
	if g.pending != nil {
		switch g.pending.Mode() {
		case game.ModeHost:
			msg = "Waiting for a player to connect..."
		case game.ModeGuest:
			msg = fmt.Sprintf("Connecting to %s...", g.target)
		}
	}
	cx, cy := float64(ScreenWidth)/2, float64(ScreenHeight)/2
	drawTextCentered(screen, msg, GetBoldFace(), cx, cy, textPrimary)
	drawTextCentered(screen, "Click or press Escape to cancel", GetRegularFace(), cx, cy+40, textMuted)
}

func (g *Game) drawPlay(screen *ebiten.Image) {
	s := g.session
	c := s.Controller()
	screen.Fill(g.renderer.Theme().Background)

	g.renderer.DrawBoard(screen)
	entries := c.Entries()
	if n := len(entries); n > 0 {
		g.renderer.DrawLastMove(screen, entries[n-1], true)
	}
	sel, ok := c.Selected()
	g.renderer.DrawSelected(screen, sel, ok)
	g.renderer.DrawMarkers(screen, c.Background())
	b := c.Board()
	g.renderer.DrawPieces(screen, b)

	v := PanelView{
		Title:    modeTitle(s.Mode()),
		Turn:     c.TurnText(),
		LastMove: c.LastMoveText(),
	}
	switch {
	case c.Done():
		v.Status, v.StatusColor = c.Result().Message(), statusGameOver
		if c.Result() == game.ResultError {
			v.StatusColor = statusError
		}
		g.drawResult(screen, c.Result())
	case s.Waiting():
		v.Status, v.StatusColor = "Waiting for opponent...", statusWaiting
	}
	g.panel.Draw(screen, v)
}

// drawResult dims the board and shows the outcome.
func (g *Game) drawResult(screen *ebiten.Image, r game.Result) {
	fillRect(screen, 0, 0, BoardSize, BoardSize, dimOverlay)
	cx, cy := float64(BoardSize)/2, float64(BoardSize)/2
	drawTextCentered(screen, r.Message(), GetTitleFace(), cx, cy, textPrimary)
	drawTextCentered(screen, "Click to return to the menu", GetRegularFace(), cx, cy+48, textSecondary)
}

func (g *Game) drawReader(screen *ebiten.Image) {
	r := g.replay
	screen.Fill(g.renderer.Theme().Background)
	g.renderer.DrawBoard(screen)
	last, ok := r.LastMove()
	g.renderer.DrawLastMove(screen, last, ok)
	b := r.Position()
	if g.threats && ok {
		g.renderer.DrawMarkers(screen, movepath.Targets(&b, last.To, true))
	}
	g.renderer.DrawPieces(screen, b)

	g.panel.Draw(screen, PanelView{
		Title:    "Reader",
		Turn:     readerTurn(r),
		LastMove: r.LastMoveText(),
		Progress: fmt.Sprintf("Move %d / %d", r.Index(), r.Len()),
	})
}

// readerTurn shows whose move comes next in the log.
func readerTurn(r *replay.Replayer) string {
	if r.Index()%2 == 0 {
		return game.PlayerOne.TurnText()
	}
	return game.PlayerTwo.TurnText()
}

func modeTitle(m game.Mode) string {
	switch m {
	case game.ModeHost:
		return "Hosting (White)"
	case game.ModeGuest:
		return "Connected (Black)"
	default:
		return "Local Game"
	}
}

// Layout returns the logical screen size; Ebitengine scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}
