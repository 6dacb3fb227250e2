package cmd

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/withsy/sitekit/pkg/logger"
	path2 "github.com/withsy/sitekit/pkg/path"
)

const watchDebounce = 500 * time.Millisecond

// watchAndRun runs fn once, then again every time something changes under
// dirs, until ctx is cancelled. Bursts of events are collapsed into a single
// run.
func watchAndRun(ctx context.Context, log logger.Logger, dirs []string, fn func(ctx context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to start the file watcher")
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := addRecursive(watcher, dir); err != nil {
			return err
		}
	}

	if err := fn(ctx); err != nil {
		log.Warnf("run failed: %v", err)
	}
	infoPrinter.Printf("\nWatching %d directories for changes, press Ctrl+C to stop.\n", len(dirs))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			log.Debugw("file changed", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("file watcher error: %v", err)
		case <-timer.C:
			if err := fn(ctx); err != nil {
				log.Warnf("run failed: %v", err)
			}
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	if !path2.DirExists(fs, root) {
		return errors.Errorf("cannot watch '%s', the directory does not exist", root)
	}

	return afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if p != root && slices.Contains(path2.SkipDirs, filepath.Base(p)) {
			return filepath.SkipDir
		}

		return watcher.Add(p)
	})
}
