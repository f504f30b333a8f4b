package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a burst of file events must be quiet before the
// suites run again.
const settle = 100 * time.Millisecond

// suiteWatcher reruns suites when one of their files changes.
type suiteWatcher struct {
	watcher *fsnotify.Watcher
	targets map[string]bool
	log     *slog.Logger
}

// newSuiteWatcher watches the directories of paths; files replaced on save
// lose a watch placed on the file itself.
func newSuiteWatcher(paths []string, log *slog.Logger) (*suiteWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &suiteWatcher{watcher: watcher, targets: make(map[string]bool), log: log}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		w.targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// run calls rerun after every settled change until ctx is done.
func (w *suiteWatcher) run(ctx context.Context, rerun func()) {
	defer w.watcher.Close()
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.targets[abs] {
				continue
			}
			w.log.Debug("suite file changed", slog.String("path", abs))
			pending = time.After(settle)

		case <-pending:
			pending = nil
			rerun()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("suite watcher error", slog.Any("error", err))

		case <-ctx.Done():
			return
		}
	}
}
