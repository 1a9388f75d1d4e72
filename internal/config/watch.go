package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/xdg/multihook/internal/mlog"
)

// DefaultWatchDebounce is the quiet period after the last change before a
// reload is triggered.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watch calls onChange after configuration files under paths change. Each
// path may be a directory (any config file directly inside it counts) or a
// file (its parent directory is watched so atomic editor renames are seen).
// Bursts of events are coalesced until debounce has passed without another
// event. Missing paths are skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dirs := make(map[string]bool)
	files := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			mlog.Debug("config: not watching %s: %v", p, err)
			continue
		}
		dir := p
		if info.IsDir() {
			dirs[p] = true
		} else {
			files[p] = true
			dir = filepath.Dir(p)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		mlog.Debug("config: watching %s", dir)
	}

	relevant := func(name string) bool {
		name = filepath.Clean(name)
		if files[name] {
			return true
		}
		return dirs[filepath.Dir(name)] && isConfigFile(name)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				mlog.Debug("config: fsnotify event=%s file=%s", event.Op, event.Name)
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			mlog.Error("config: fsnotify error=%v", err)
		case <-timer.C:
			onChange()
		}
	}
}
