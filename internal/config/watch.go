package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce window for editors that write profiles in multiple events.
const watchSettle = 200 * time.Millisecond

// Watch invokes onChange whenever the profile file at path is written or
// replaced, until ctx is cancelled. The parent directory is watched so
// atomic save-and-rename (how most editors write) is picked up too.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var settle *time.Timer
		var settleC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if settle == nil {
					settle = time.NewTimer(watchSettle)
					settleC = settle.C
				} else {
					settle.Reset(watchSettle)
				}
			case <-settleC:
				settle = nil
				settleC = nil
				logger.Info("profile changed on disk, reloading", zap.String("path", path))
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("profile watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
