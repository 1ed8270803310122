// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package workspace

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/lsp"
)

// OpenFile reads path from disk and opens it under its file URI.
func (w *Workspace) OpenFile(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindInternal, "absolute path of %s", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.KindNotFound, "%s not found", path)
		}
		return nil, errors.Wrapf(err, errors.KindInternal, "failed to read %s", path)
	}
	return w.Change(lsp.FileURI(abs), data), nil
}

// Watch opens every path and re-parses a file whenever it is written or
// re-created on disk. It blocks until ctx is done.
func (w *Workspace) Watch(ctx context.Context, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.KindInternal, "create watcher")
	}
	defer watcher.Close()

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		doc, err := w.OpenFile(p)
		if err != nil {
			return err
		}
		path, _ := lsp.PathFromURI(doc.URI)
		files[path] = true

		// Watch the directory (more reliable for editors that do atomic saves)
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, errors.KindInternal, "watch directory %s", dir)
		}
		dirs[dir] = true
	}
	w.logger.Info("watching files", "files", len(files), "directories", len(dirs))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(event.Name)] {
				continue
			}
			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("file changed", "event", event.Op.String(), "file", event.Name)
			if _, err := w.OpenFile(event.Name); err != nil {
				w.logger.Error("reload failed, keeping previous parse", "file", event.Name, "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
