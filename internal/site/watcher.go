package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long the watcher waits after the last relevant file event
// before running a sync pass. Editors and git checkouts touch many files in
// quick bursts; one pass covers them all.
const debounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on every category root and runs debounced
// incremental sync passes until ctx is cancelled. roots are absolute
// directory paths; missing roots are skipped with a warning. cb (if non-nil)
// is forwarded to the syncer for per-page events.
//
// New directories created at runtime are automatically added to the watch
// list. Renames and deletes are handled by the sync pass itself, which prunes
// pages whose source no longer exists.
func Watch(ctx context.Context, syncer *Syncer, roots []string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := 0
	for _, root := range roots {
		if _, statErr := os.Stat(root); statErr != nil {
			logger.Warn("watcher: root missing, not watched", slog.String("root", root))
			continue
		}
		if err := addDirsRecursive(w, root); err != nil {
			return err
		}
		watched++
	}
	logger.Info("watcher: started", slog.Int("roots", watched))

	// timer debounces sync passes across event bursts.
	var timer *time.Timer
	var timerCh <-chan time.Time

	scheduleSync := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			rep, err := syncer.SyncAll(ctx, cb)
			if err != nil {
				logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("watcher: sync pass done",
				slog.Int("synced", rep.Synced),
				slog.Int("skipped", rep.Skipped),
				slog.Int("pruned", rep.Pruned))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// New directories: add to the watch list and pick up their
			// contents on the next pass.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					scheduleSync()
					continue
				}
			}

			if !relevantFile(ev.Name) {
				continue
			}
			logger.Debug("watcher: event",
				slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			scheduleSync()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevantFile reports whether a path can affect generated pages.
func relevantFile(p string) bool {
	base := filepath.Base(p)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch filepath.Ext(base) {
	case ".md", ".py":
		return true
	}
	// Rename/remove events for a directory arrive without type info; let the
	// sync pass sort it out.
	return filepath.Ext(base) == ""
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return w.Add(path)
		}
		return nil
	})
}
