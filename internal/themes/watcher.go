package themes

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"newsreel/internal/logger"
)

// Watch reloads the registry whenever a template file changes. It blocks
// until the context is cancelled and is meant to run in its own goroutine.
func (r *Registry) Watch(ctx context.Context, log logger.Logger) error {
	if r.dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return err
	}
	log.Info(ctx, "Watching templates dir for theme changes: %s", r.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := r.Reload(); err != nil {
				log.Warn(ctx, "Theme reload failed: %v", err)
				continue
			}
			log.Info(ctx, "Themes reloaded (%d loaded) after change to %s", r.Count(), event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(ctx, "Template watcher error: %v", err)
		}
	}
}
