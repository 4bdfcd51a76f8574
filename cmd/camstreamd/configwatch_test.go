package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/camstream/camstreamd/internal/config"
)

func TestConfigWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camstream.json")

	initial := config.Default()
	if err := config.Save(path, initial); err != nil {
		t.Fatalf("Save: %v", err)
	}

	store := config.NewStore(initial)
	w, err := newConfigWatcher(path, store)
	if err != nil {
		t.Fatalf("newConfigWatcher: %v", err)
	}
	defer w.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)

	updated := config.Default()
	updated.RotationDeg = 90
	if err := config.Save(path, updated); err != nil {
		t.Fatalf("Save updated: %v", err)
	}

	select {
	case <-store.Updates():
		if store.Get().RotationDeg != 90 {
			t.Fatalf("expected store to observe RotationDeg 90, got %d", store.Get().RotationDeg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
