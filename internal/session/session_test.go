package session

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/config"
	"github.com/hailam/simplechess/internal/game"
	"github.com/hailam/simplechess/internal/movelog"
	"github.com/hailam/simplechess/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Files.Log = filepath.Join(dir, "log.chesslog")
	cfg.Files.BoardConfig = filepath.Join(dir, "board.chessconf")
	cfg.Files.Connection = ""
	return &cfg
}

func testStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func startLocal(t *testing.T, deps Deps) *Session {
	t.Helper()
	s, ok, err := Start(context.Background(), game.ModeLocal, deps).Poll()
	if !ok || err != nil {
		t.Fatalf("Start local: ok=%v err=%v", ok, err)
	}
	return s
}

func TestLocalSession(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.Files.Log, []byte("stale 1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	st := testStorage(t)
	ctx := context.Background()

	s := startLocal(t, Deps{Config: cfg, Archive: st.Local()})

	// A new session starts with an empty log.
	if raw, _ := os.ReadFile(cfg.Files.Log); len(raw) != 0 {
		t.Fatalf("log not cleared: %q", raw)
	}

	s.Click(ctx, board.Sq(1, 7))
	if err := s.Click(ctx, board.Sq(2, 5)); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if got := s.Controller().Board().At(board.Sq(2, 5)); got != board.WhiteKnight {
		t.Fatalf("knight not moved, found %v", got)
	}
	raw, _ := os.ReadFile(cfg.Files.Log)
	if strings.TrimSpace(string(raw)) != "3 1 7 0 0 2 5" {
		t.Errorf("log = %q", raw)
	}
	if s.Waiting() {
		t.Error("local session should never wait on a peer")
	}
	if err := s.Update(); err != nil {
		t.Errorf("Update: %v", err)
	}

	if r := s.Close(ctx); r != game.ResultNone {
		t.Errorf("Close() = %v", r)
	}
	rec, err := st.LoadGame(s.ID())
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if rec.Mode != "local" || rec.Result != storage.ResultNone || len(rec.Entries) != 1 {
		t.Errorf("archived %+v", rec)
	}
	stats, _ := st.LoadStats()
	if stats.Abandoned != 1 {
		t.Errorf("stats = %+v", stats)
	}

	// Closing twice archives once.
	s.Close(ctx)
	if games, _ := st.ListGames(); len(games) != 1 {
		t.Errorf("archived %d games", len(games))
	}
}

func TestLocalSessionResult(t *testing.T) {
	cfg := testConfig(t)
	st := testStorage(t)
	ctx := context.Background()
	s := startLocal(t, Deps{Config: cfg, Archive: st.Local()})

	// Open the e-file and walk the queen in to take the black king.
	moves := [][2]board.Square{
		{board.Sq(4, 6), board.Sq(4, 4)}, // white pawn
		{board.Sq(5, 1), board.Sq(5, 2)}, // black pawn
		{board.Sq(3, 7), board.Sq(7, 3)}, // white queen
		{board.Sq(0, 1), board.Sq(0, 2)}, // black pawn
		{board.Sq(7, 3), board.Sq(4, 0)}, // queen takes king
	}
	for i, m := range moves {
		if err := s.Click(ctx, m[0]); err != nil {
			t.Fatalf("move %d select: %v", i, err)
		}
		if err := s.Click(ctx, m[1]); err != nil {
			t.Fatalf("move %d commit: %v", i, err)
		}
	}
	if !s.Controller().Done() {
		t.Fatalf("game not over; board:\n%s", s.Controller().Board().String())
	}
	if r := s.Close(ctx); r != game.ResultWhiteWins {
		t.Errorf("Close() = %v, want white wins", r)
	}
	rec, err := st.LoadGame(s.ID())
	if err != nil || rec.Result != storage.ResultWhiteWins {
		t.Errorf("archived %+v, %v", rec, err)
	}

	// Clicks after the game ends are ignored.
	if err := s.Click(ctx, board.Sq(0, 6)); err != nil {
		t.Errorf("Click after end: %v", err)
	}
}

func TestLogIOError(t *testing.T) {
	cfg := testConfig(t)
	// A directory in place of the log file cannot be truncated.
	if err := os.MkdirAll(cfg.Files.Log, 0755); err != nil {
		t.Fatal(err)
	}
	_, ok, err := Start(context.Background(), game.ModeLocal, Deps{Config: cfg}).Poll()
	if !ok || !errors.Is(err, movelog.ErrIO) {
		t.Errorf("Poll = %v, %v; want ErrIO", ok, err)
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	_, portStr, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()
	port, _ := strconv.Atoi(portStr)
	return port
}

func TestNetworkSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	port := freePort(t)
	hostCfg := testConfig(t)
	guestCfg := testConfig(t)
	for _, c := range []*config.Config{hostCfg, guestCfg} {
		c.Network.Host = "127.0.0.1"
		c.Network.Port = port
	}
	st := testStorage(t)

	hostPending := Start(ctx, game.ModeHost, Deps{Config: hostCfg, Archive: st.Local()})
	if _, ok, _ := hostPending.Poll(); ok {
		t.Fatal("host ready before a guest joined")
	}

	var guest *Session
	deadline := time.Now().Add(3 * time.Second)
	for {
		g, err := Start(ctx, game.ModeGuest, Deps{Config: guestCfg}).Wait(ctx)
		if err == nil {
			guest = g
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("guest: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	host, err := hostPending.Wait(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	defer host.Close(ctx)
	defer guest.Close(ctx)

	if guest.Mode() != game.ModeGuest || !guest.Waiting() || host.Waiting() {
		t.Fatal("white moves first")
	}

	// The guest cannot move out of turn.
	guest.Click(ctx, board.Sq(3, 1))
	if _, ok := guest.Controller().Selected(); ok {
		t.Error("guest selected a piece on the host's turn")
	}

	host.Click(ctx, board.Sq(6, 7))
	if err := host.Click(ctx, board.Sq(5, 5)); err != nil {
		t.Fatalf("host move: %v", err)
	}

	waitFor(t, guest, func() bool { return !guest.Waiting() })
	if guest.Controller().Board() != host.Controller().Board() {
		t.Fatal("boards diverged")
	}
	raw, _ := os.ReadFile(guestCfg.Files.Log)
	if strings.TrimSpace(string(raw)) != "3 6 7 0 0 5 5" {
		t.Errorf("guest log = %q", raw)
	}

	guest.Click(ctx, board.Sq(3, 1))
	if err := guest.Click(ctx, board.Sq(3, 3)); err != nil {
		t.Fatalf("guest move: %v", err)
	}
	waitFor(t, host, func() bool { return !host.Waiting() })

	// Guest leaves; the host fails on its next send or receive.
	guest.Close(ctx)
	host.Click(ctx, board.Sq(4, 6))
	host.Click(ctx, board.Sq(4, 4))
	waitFor(t, host, func() bool { return host.Controller().Done() })
	if host.Err() == nil {
		t.Error("host did not record the disconnect")
	}
	if r := host.Close(ctx); r != game.ResultError {
		t.Errorf("host result = %v", r)
	}
	stats, _ := st.LoadStats()
	if stats.Errors != 1 || stats.GamesByMode["host"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

// waitFor drives s.Update like the frame loop until cond holds.
func waitFor(t *testing.T, s *Session, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		s.Update()
		if time.Now().After(deadline) {
			t.Fatal("condition never held")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCancelPending(t *testing.T) {
	cfg := testConfig(t)
	cfg.Network.Port = freePort(t)
	p := Start(context.Background(), game.ModeHost, Deps{Config: cfg})
	p.Cancel()
	if _, ok, _ := p.Poll(); ok {
		t.Error("Poll after Cancel should report nothing")
	}

	// The port is released once the listener gives up.
	deadline := time.Now().Add(2 * time.Second)
	for {
		ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Network.Port)))
		if err == nil {
			ln.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("port still held: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestOpenReplay(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.Files.Log, []byte("2 0 7 0 0 0 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("StandardStart", func(t *testing.T) {
		r, err := OpenReplay(cfg.Files)
		if err != nil {
			t.Fatalf("OpenReplay: %v", err)
		}
		if r.Len() != 1 || !r.Next() {
			t.Fatal("expected one entry")
		}
		if r.Position().At(board.Sq(0, 3)) != board.WhiteRook {
			t.Errorf("rook not moved:\n%s", r.Position().String())
		}
	})

	t.Run("BoardConfig", func(t *testing.T) {
		var b board.Board
		b.Set(board.Sq(0, 7), board.WhiteRook)
		b.Set(board.Sq(4, 7), board.WhiteKing)
		b.Set(board.Sq(4, 0), board.BlackKing)
		if err := board.SaveConfig(cfg.Files.BoardConfig, &b); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(cfg.Files.BoardConfig)

		r, err := OpenReplay(cfg.Files)
		if err != nil {
			t.Fatalf("OpenReplay: %v", err)
		}
		if r.Position() != b {
			t.Errorf("start position not taken from the board config")
		}
	})

	t.Run("MissingLog", func(t *testing.T) {
		files := cfg.Files
		files.Log = filepath.Join(t.TempDir(), "absent")
		if _, err := OpenReplay(files); !errors.Is(err, movelog.ErrIO) {
			t.Errorf("got %v, want ErrIO", err)
		}
	})

	t.Run("MalformedConfig", func(t *testing.T) {
		if err := os.WriteFile(cfg.Files.BoardConfig, []byte("1 2 3"), 0644); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(cfg.Files.BoardConfig)
		if _, err := OpenReplay(cfg.Files); !errors.Is(err, board.ErrMalformedConfig) {
			t.Errorf("got %v, want ErrMalformedConfig", err)
		}
	})
}

func TestReplayRecord(t *testing.T) {
	rec := storage.NewGameRecord("local", board.StartPlacement)
	rec.Entries = []movelog.Entry{
		{Piece: board.WhiteKnight, From: board.Sq(1, 7), To: board.Sq(2, 5)},
	}
	r, err := ReplayRecord(rec)
	if err != nil {
		t.Fatalf("ReplayRecord: %v", err)
	}
	r.Seek(r.Len())
	if r.Position().At(board.Sq(2, 5)) != board.WhiteKnight {
		t.Error("entry not replayed")
	}

	rec.Start = "not a placement"
	if _, err := ReplayRecord(rec); err == nil {
		t.Error("expected error for bad placement")
	}
}
