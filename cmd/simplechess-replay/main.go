// simplechess-replay browses the move log and archived SimpleChess games in
// the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/hailam/simplechess/internal/config"
	"github.com/hailam/simplechess/internal/obslog"
	"github.com/hailam/simplechess/internal/replay"
	"github.com/hailam/simplechess/internal/session"
	"github.com/hailam/simplechess/internal/storage"
)

var (
	flagConfig = flag.String("config", "", "Config file (default: XDG config dir)")
	flagRedis  = flag.String("redis", "", "Read archived games from this Redis URL instead of the local database")
	flagLog    = flag.Bool("log-only", false, "Only show the move log, skip the archive")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "simplechess-replay:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to tview, so log lines only go to the file.
	logFile := ""
	if dir, err := storage.LogDir(); err == nil {
		logFile = filepath.Join(dir, "replay.log")
	}
	if err := obslog.Init(obslog.Options{Level: cfg.Log.Level, Format: "json", File: logFile, Console: io.Discard}); err != nil {
		return err
	}
	defer obslog.Sync()
	log := obslog.L()

	items := []item{logItem(cfg.Files.Log, func() (*replay.Replayer, error) {
		return session.OpenReplay(cfg.Files)
	})}
	if !*flagLog {
		games, err := archivedGames(cfg)
		if err != nil {
			log.Warn("archive_unavailable", zap.Error(err))
		}
		for _, rec := range games {
			items = append(items, recordItem(rec))
		}
		log.Info("archive_loaded", zap.Int("games", len(games)))
	}

	app := tview.NewApplication()
	browser := NewBrowser(items, app.Stop)
	return app.SetRoot(browser.Flex(), true).EnableMouse(true).Run()
}

func loadConfig() (*config.Config, error) {
	if *flagConfig != "" {
		return config.LoadFile(*flagConfig)
	}
	return config.Load()
}

// archivedGames lists games from Redis when asked to, otherwise from the
// local database.
func archivedGames(cfg *config.Config) ([]storage.GameRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := *flagRedis
	if url == "" && cfg.Archive.Backend == "redis" {
		url = cfg.Archive.RedisURL
	}
	if url != "" {
		a, err := storage.NewRedisArchive(ctx, url)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return a.List(ctx)
	}

	if cfg.Archive.Backend == "none" {
		return nil, nil
	}
	s, err := storage.NewStorage()
	if err != nil {
		// The window holds the database lock while it runs.
		return nil, errors.Join(errors.New("local archive is busy or missing"), err)
	}
	defer s.Close()
	return s.Local().List(ctx)
}
