// Package inbox ingests background documents dropped on disk. A file
// written under <root>/<supervisee-id>/ becomes a Document on that
// supervisee and is removed from the inbox once ingested.
package inbox

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/coachnudge/internal/domain"
	"github.com/starford/coachnudge/internal/store"
)

// Watch starts an fsnotify watcher on the inbox root and processes file
// drops until ctx is cancelled. Supervisee directories created at runtime
// are added to the watch list automatically.
func Watch(ctx context.Context, st *store.Store, root string, logger *slog.Logger) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirs(w, root); err != nil {
		return err
	}

	logger.Info("inbox: started", slog.String("root", root))

	// Catch up on files that were dropped before the watcher started.
	sweep(st, root, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("inbox: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := w.Add(ev.Name); addErr != nil {
						logger.Warn("inbox: watch new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			ingest(st, root, ev.Name, logger)

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("inbox: watcher error", slog.String("error", werr.Error()))
		}
	}
}

func addDirs(w *fsnotify.Watcher, root string) error {
	if err := w.Add(root); err != nil {
		return err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := w.Add(filepath.Join(root, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// sweep ingests any files already sitting in supervisee directories.
func sweep(st *store.Store, root string, logger *slog.Logger) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, d.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if !f.IsDir() {
				ingest(st, root, filepath.Join(root, d.Name(), f.Name()), logger)
			}
		}
	}
}

// ingest reads a dropped file, attaches it as a document to the
// supervisee named by its parent directory, and removes the file. Files
// outside a supervisee directory, hidden files, and unknown supervisee
// ids are skipped.
func ingest(st *store.Store, root, path string, logger *slog.Logger) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 {
		return
	}
	superviseeID, fileName := parts[0], parts[1]
	if strings.HasPrefix(fileName, ".") {
		return
	}

	if _, ok := st.Supervisee(superviseeID); !ok {
		logger.Warn("inbox: unknown supervisee, skipping",
			slog.String("supervisee", superviseeID),
			slog.String("file", fileName))
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("inbox: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		// Likely a partially written file; the Write event will retry.
		return
	}

	doc := domain.NewDocument(fileName, content)
	st.Dispatch(store.AddDocument{SuperviseeID: superviseeID, Document: doc})

	if err := os.Remove(path); err != nil {
		logger.Warn("inbox: remove failed", slog.String("path", path), slog.String("error", err.Error()))
	}
	logger.Info("inbox: document ingested",
		slog.String("supervisee", superviseeID),
		slog.String("name", fileName))
}
