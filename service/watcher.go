package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultWatchDebounce = time.Second

// WatchRequest configures Watch
type WatchRequest struct {
	Dir       string
	Recursive bool
	// Debounce is how long a file must stay quiet before it is ingested
	Debounce time.Duration
	// OnResult is called after each ingestion attempt, if set
	OnResult func(path string, result *ProcessDocumentResult, err error)
}

// Watch ingests supported files created or rewritten under Dir until ctx is
// cancelled. Files are ingested one at a time once no event has touched them
// for the debounce period.
func (s *IngestionService) Watch(ctx context.Context, req WatchRequest) error {
	if req.Debounce <= 0 {
		req.Debounce = defaultWatchDebounce
	}
	if info, err := os.Stat(req.Dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirectoryNotFound, req.Dir)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := addWatchDirs(w, req.Dir, req.Recursive); err != nil {
		return err
	}
	s.logger.Info("Watching for documents", zap.String("dir", req.Dir), zap.Bool("recursive", req.Recursive))

	pending := map[string]time.Time{}
	ticker := time.NewTicker(req.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && req.Recursive {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchDirs(w, event.Name, true); err != nil {
						s.logger.Warn("Failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
					continue
				}
			}
			if (event.Has(fsnotify.Create) || event.Has(fsnotify.Write)) && s.supported(event.Name) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher error", zap.Error(err))

		case now := <-ticker.C:
			for _, path := range duePaths(pending, now, req.Debounce) {
				delete(pending, path)
				res, err := s.ProcessDocument(ctx, ProcessDocumentRequest{Path: path})
				if err != nil && !errors.Is(err, context.Canceled) {
					s.logger.Warn("Watched file not ingested", zap.String("path", path), zap.Error(err))
				}
				if req.OnResult != nil {
					req.OnResult(path, res, err)
				}
			}
		}
	}
}

// duePaths returns the pending paths quiet for at least debounce, sorted
func duePaths(pending map[string]time.Time, now time.Time, debounce time.Duration) []string {
	var due []string
	for path, last := range pending {
		if now.Sub(last) >= debounce {
			due = append(due, path)
		}
	}
	slices.Sort(due)
	return due
}

func addWatchDirs(w *fsnotify.Watcher, root string, recursive bool) error {
	if !recursive {
		return w.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
}
