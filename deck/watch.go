package deck

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watch reloads the deck at path whenever it changes and passes each
// successfully loaded deck to fn. Invalid intermediate saves are logged
// and skipped. The parent directory is watched so rename-on-save editors
// are handled. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *zap.Logger, fn func(*Deck)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("deck").With(zap.String("path", path))

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	name := filepath.Base(abs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	log.Debug("Watching deck")

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Deck watcher error", zap.Error(err))

		case <-timer.C:
			d, err := Load(abs)
			if err != nil {
				log.Warn("Deck reload failed", zap.Error(err))
				continue
			}
			log.Info("Deck reloaded", zap.Int("slides", len(d.Slides)))
			fn(d)
		}
	}
}
