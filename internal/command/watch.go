package command

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/adhocteam/tern/internal/srcfile"
)

const debounceInterval = 125 * time.Millisecond

// Watch builds the tree once, then recompiles each source as it changes
// until ctx is done. Compile errors are logged and do not stop watching.
func Watch(ctx context.Context, opts BuildOptions) error {
	logger := opts.logger()
	root := opts.root()

	if err := Build(ctx, opts); err != nil {
		logger.Error("Initial build failed", "err", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating new fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchDirRecursively(watcher, root, logger); err != nil {
		return fmt.Errorf("adding dir to watch: %w", err)
	}
	logger.Info("Watching", "root", root)

	debounceEvents(ctx, debounceInterval, watcher, logger, func(event fsnotify.Event) {
		if !reloadableFilename(event.Name) {
			return
		}
		if isDir(event.Name, logger) {
			if err := watchDirRecursively(watcher, event.Name, logger); err != nil {
				logger.Error("Watching new directory", "dir", event.Name, "err", err)
			}
			return
		}
		if !srcfile.Match(event.Name, srcfile.Source) {
			return
		}
		logger.Debug("Change detected", "file", event.Name)
		if err := buildFile(root, opts.OutDir, event.Name, logger); err != nil {
			logger.Error("Compile failed", "err", err)
		}
	})
	return nil
}

// reloadableFilename tests whether the file is one we want to recompile on
// change. It ignores temporary files from editors like vim and Emacs.
func reloadableFilename(path string) bool {
	ext := filepath.Ext(path)
	// vim swap files: .swp, .swo, .swn, etc
	if len(ext) == 4 && strings.HasPrefix(ext, ".sw") {
		return false
	}
	// vim and Emacs backup files
	if strings.HasSuffix(ext, "~") {
		return false
	}
	// Emacs autosave files
	base := filepath.Base(path)
	if strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return false
	}
	return true
}

func isDir(path string, logger *slog.Logger) bool {
	fi, err := os.Stat(path)
	if err != nil {
		logger.Debug("Skipping unreadable path", "path", path, "err", err)
		return false
	}
	return fi.IsDir()
}

func watchDirRecursively(watcher *fsnotify.Watcher, root string, logger *slog.Logger) error {
	return fs.WalkDir(os.DirFS(root), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != "." && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
			return fs.SkipDir
		}
		path = filepath.Join(root, path)
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("adding path %s to watch: %w", path, err)
		}
		logger.Debug("Watching directory", "dir", path)
		return nil
	})
}

// debounceEvents calls fn for a file once no Create or Write event has
// arrived for it for interval. It returns when ctx is done or the watcher
// is closed.
func debounceEvents(ctx context.Context, interval time.Duration, watcher *fsnotify.Watcher, logger *slog.Logger, fn func(event fsnotify.Event)) {
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	has := func(ev fsnotify.Event, op fsnotify.Op) bool {
		return ev.Op&op == op
	}

	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error("File watch error", "err", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !has(ev, fsnotify.Create) && !has(ev, fsnotify.Write) {
				continue
			}
			mu.Lock()
			t, ok := timers[ev.Name]
			if !ok {
				t = time.AfterFunc(math.MaxInt64, func() {
					fn(ev)
					mu.Lock()
					defer mu.Unlock()
					delete(timers, ev.Name)
				})
				t.Stop()
				timers[ev.Name] = t
			}
			mu.Unlock()
			t.Reset(interval)
		case <-ctx.Done():
			return
		}
	}
}
