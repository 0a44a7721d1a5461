package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/scene"
)

const watchDebounce = 200 * time.Millisecond

// Watch reloads the scene at path once writes to it have been quiet for
// watchDebounce, until ctx ends. A scene that fails to parse is logged and
// the current one kept.
func (s *Server) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch scene dir: %w", err)
	}

	// settle fires after the last write of a burst. Editors often truncate
	// and then write, and the half-written file must not be loaded.
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			settle = time.After(watchDebounce)

		case <-settle:
			settle = nil
			if err := s.reloadFile(ctx, target); err != nil {
				s.log.Warn("scene reload failed", zap.String("path", target), zap.Error(err))
				continue
			}
			s.log.Info("scene reloaded", zap.String("path", target))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (s *Server) reloadFile(ctx context.Context, path string) error {
	doc, err := scene.Load(path)
	if err != nil {
		return err
	}
	sc, err := scene.FromDocument(doc, s.log)
	if err != nil {
		return err
	}
	return s.Reload(ctx, sc)
}
