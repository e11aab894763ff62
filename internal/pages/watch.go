package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the template cache whenever a file in the template
// directory changes. The watcher stops when ctx is cancelled. It is an error
// to watch an engine that was not built WithDir.
func (e *Engine) Watch(ctx context.Context) error {
	if e.dir == "" {
		return errors.New("pages: watch requires a template directory")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("pages: create watcher: %w", err)
	}
	if err := watcher.Add(e.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("pages: watch %s: %w", e.dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					e.Invalidate()
					e.logger.LogAttrs(ctx, slog.LevelDebug, "templates reloaded",
						slog.String("file", event.Name), slog.String("op", event.Op.String()))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				e.logger.LogAttrs(ctx, slog.LevelWarn, "template watcher error", slog.Any("error", err))
			}
		}
	}()
	return nil
}
