package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// watcher calls reload once changes under root have settled for the
// debounce window.
type watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	reload   func() error
	logger   *zap.Logger

	mu    sync.Mutex
	timer *time.Timer
}

func newWatcher(root string, debounce time.Duration, reload func() error, logger *zap.Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{fsw: fsw, debounce: debounce, reload: reload, logger: logger}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run consumes events until ctx is done or the watcher is closed.
func (w *watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			// new subdirectories are not watched automatically
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := w.fsw.Add(event.Name); err != nil {
					w.logger.Warn("watch directory failed", zap.String("path", event.Name), zap.Error(err))
				}
			}
			w.logger.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.reload(); err != nil {
			w.logger.Error("content reload failed; keeping previous content", zap.Error(err))
			return
		}
		w.logger.Info("content reloaded")
	})
}

func (w *watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// Close stops watching.
func (w *watcher) Close() error {
	w.stopTimer()
	return w.fsw.Close()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
