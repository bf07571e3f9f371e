package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit per save.
const DefaultDebounce = 200 * time.Millisecond

// Watch runs once, then re-runs on every change to the source until ctx is
// cancelled. Runs are serial; failures are logged and the loop continues.
// onRun, when set, is called after every run.
func (r *Runner) Watch(ctx context.Context, debounce time.Duration, onRun func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	source, err := filepath.Abs(r.opts.Source)
	if err != nil {
		return err
	}
	// Watch the directory so editors that replace the file on save are seen.
	if err := watcher.Add(filepath.Dir(source)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(source), err)
	}

	run := func() {
		res, err := r.Run(ctx)
		if err != nil {
			r.log.WithError(err).Error("run failed")
		}
		if onRun != nil {
			onRun(res, err)
		}
	}
	run()

	var pending <-chan time.Time
	r.log.Infof("watching %s for changes", r.opts.Source)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != source {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			r.log.WithField("op", event.Op.String()).Debug("source changed")
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.WithError(err).Warn("watcher error")
		}
	}
}
