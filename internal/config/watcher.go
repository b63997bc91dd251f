package config

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/farleyman/newsboard-go/internal/models"
)

// Watcher reloads the board document when the file is edited outside the
// daemon and hands the new settings to a callback. The daemon's own
// debounced writes also trigger events; callers are expected to treat a
// reload carrying unchanged settings as a no-op.
type Watcher struct {
	store   *JSONStore
	watcher *fsnotify.Watcher
	onLoad  func(models.Settings)
}

// NewWatcher starts watching the store's directory. A watcher that fails
// to initialize degrades to a no-op so the daemon still runs.
func NewWatcher(store *JSONStore, onLoad func(models.Settings)) *Watcher {
	w := &Watcher{store: store, onLoad: onLoad}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("config: could not create fsnotify watcher", "err", err)
		return w
	}
	w.watcher = fw

	if err := fw.Add(filepath.Dir(store.Path())); err != nil {
		slog.Warn("config: could not watch config dir", "err", err)
	}

	go w.watchLoop()
	return w
}

// Close stops the file watcher.
func (w *Watcher) Close() {
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) watchLoop() {
	path := w.store.Path()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Atomic writers replace the file, so Create counts too.
			if event.Name == path && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				cfg, err := w.store.Load()
				if err != nil {
					slog.Warn("config: failed to reload document", "err", err)
					continue
				}
				slog.Debug("config: document changed on disk, reloading settings")
				if w.onLoad != nil {
					w.onLoad(cfg.Settings)
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config: watcher error", "err", err)
		}
	}
}
