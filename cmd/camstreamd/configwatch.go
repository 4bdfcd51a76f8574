package main

import (
	"context"
	"log"

	"github.com/fsnotify/fsnotify"

	"github.com/camstream/camstreamd/internal/config"
)

// configWatcher watches the config file on disk and pushes reloaded,
// validated Config values into a Store. Grounded on lua.Engine's
// fsnotify watchLoop, narrowed from a directory of hot-reloaded scripts
// to a single hot-reloaded config file; this lives in cmd/, not in
// package config, so the core config package never depends on the
// filesystem (spec.md's config-store non-goal).
type configWatcher struct {
	path    string
	store   *config.Store
	watcher *fsnotify.Watcher
}

func newConfigWatcher(path string, store *config.Store) (*configWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	return &configWatcher{path: path, store: store, watcher: w}, nil
}

func (w *configWatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := config.Load(w.path)
			if err != nil {
				log.Printf("camstreamd: config reload failed: %v", err)
				continue
			}
			log.Printf("camstreamd: config file changed, starting a new generation")
			w.store.Set(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("camstreamd: config watcher error: %v", err)
		}
	}
}

func (w *configWatcher) close() {
	w.watcher.Close()
}
