package generate

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"ocm.software/open-component-model/bindings/go/domainmodel/scan"
)

// watchDebounce collects bursts of file events, e.g. from editors writing through temporary files.
const watchDebounce = 100 * time.Millisecond

// Watch generates all packages below root and then regenerates a package
// whenever one of its Go files changes. It returns when ctx is done.
func (g *Generator) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, root); err != nil {
		return err
	}
	if _, err := g.Run(ctx, root); err != nil {
		g.logger.Error("initial generation failed", "root", root, "error", err)
	}

	pending := map[string]struct{}{}
	var flush <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addDirs(watcher, event.Name); err != nil {
						g.logger.Warn("could not watch folder", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !scan.IsValidGoFile(filepath.Base(event.Name)) {
				continue
			}
			g.logger.Debug("source changed", "file", event.Name, "op", event.Op.String())
			pending[filepath.Dir(event.Name)] = struct{}{}
			flush = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("file watcher error", "error", err)
		case <-flush:
			for _, dir := range slices.Sorted(maps.Keys(pending)) {
				g.Package(dir)
			}
			clear(pending)
			flush = nil
		}
	}
}

// addDirs adds root and all folders below it that are not ignored by the go tool.
func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if path != root && scan.IsIgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
