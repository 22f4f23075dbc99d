package internal

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Jericoz-JC/flux-notes/pkg/config"
)

// watchConfig watches the config file and applies log level changes at
// runtime until ctx is cancelled.
//
// The parent directory is watched rather than the file itself: most
// editors replace the file via rename, which would silently drop a
// watch on the file path. Events are debounced because a single save
// often produces several fsnotify events.
func watchConfig(ctx context.Context, path string, level *slog.LevelVar, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	logger.Info("config watcher: started", slog.String("path", absPath))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("config watcher: stopped")
			return nil

		case <-reloadCh:
			cfg := NewDefaultConfig()
			if loadErr := config.Load(absPath, cfg); loadErr != nil {
				logger.Warn("config watcher: reload failed", slog.String("error", loadErr.Error()))
				continue
			}
			if cfg.App.LogLevel != level.Level() {
				logger.Info("config watcher: log level changed",
					slog.String("from", level.Level().String()),
					slog.String("to", cfg.App.LogLevel.String()))
				level.Set(cfg.App.LogLevel)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != absPath {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("config watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
