package preview

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/urdf-preview/internal/logger"
)

// Watcher calls a function after a file has been saved. Bursts of events
// within the debounce interval produce one call.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
	log      *zap.Logger
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, debounce time.Duration, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
		log:      logger.Named("watch"),
	}
}

// Run watches until ctx is done. The parent directory is watched since
// many editors save by replacing the file.
func (w *Watcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.log.Info("watching", zap.String("path", abs))

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("file changed", zap.Stringer("op", event.Op))

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.onChange)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}
