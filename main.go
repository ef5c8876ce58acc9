// SimpleChess - a two-player chess board built with Ebitengine
package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/hailam/simplechess/internal/config"
	"github.com/hailam/simplechess/internal/obslog"
	"github.com/hailam/simplechess/internal/storage"
	"github.com/hailam/simplechess/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet.
		_ = obslog.Init(obslog.Options{})
		obslog.L().Error("config_load_failed", zap.Error(err))
		return 1
	}

	logOpts := obslog.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if logOpts.File == "" {
		if dir, err := storage.LogDir(); err == nil {
			logOpts.File = filepath.Join(dir, "simplechess.log")
		}
	}
	if err := obslog.Init(logOpts); err != nil {
		return 1
	}
	defer obslog.Sync()
	log := obslog.L()

	store, err := storage.NewStorage()
	if err != nil {
		log.Warn("storage_unavailable", zap.Error(err))
		store = nil
	} else {
		defer store.Close()
	}

	archive, closeArchive := openArchive(cfg, store, log)
	defer closeArchive()

	game := ui.NewGame(ui.Options{
		Config:  cfg,
		Storage: store,
		Archive: archive,
		Logger:  log,
	})
	defer game.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("SimpleChess")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Info("window_started", zap.String("transport", cfg.Network.Transport), zap.String("archive", cfg.Archive.Backend))
	if err := ebiten.RunGame(game); err != nil {
		log.Error("run_failed", zap.Error(err))
		return 1
	}
	return 0
}

// openArchive picks where finished games go. A Redis archive that cannot be
// reached falls back to the local database.
func openArchive(cfg *config.Config, store *storage.Storage, log *zap.Logger) (storage.Archive, func()) {
	noop := func() {}
	var local storage.Archive
	if store != nil {
		local = store.Local()
	}

	switch cfg.Archive.Backend {
	case "none":
		return nil, noop
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		remote, err := storage.NewRedisArchive(ctx, cfg.Archive.RedisURL)
		if err != nil {
			log.Warn("redis_archive_unavailable", zap.Error(err))
			return local, noop
		}
		closeRemote := func() { _ = remote.Close() }
		if local == nil {
			return remote, closeRemote
		}
		return storage.MultiArchive{local, remote}, closeRemote
	default:
		return local, noop
	}
}
