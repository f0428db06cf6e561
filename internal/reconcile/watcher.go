package reconcile

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher observes the staging directory and calls a settle function once
// events have stopped arriving for the debounce delay. A rename usually
// arrives as a remove and a create; both collapse into one call.
type Watcher struct {
	dir    string
	delay  time.Duration
	settle func()
	log    zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewWatcher creates a watcher for dir. settle runs on a timer goroutine.
func NewWatcher(dir string, delay time.Duration, settle func(), log zerolog.Logger) *Watcher {
	return &Watcher{dir: dir, delay: delay, settle: settle, log: log}
}

// Trigger arms the debounce timer, restarting it if already armed.
func (w *Watcher) Trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("reconcile callback panicked")
		}
	}()
	w.settle()
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Run watches the staging directory until ctx is cancelled. The directory
// is created if missing. Watch errors are logged and never end the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Debug().Str("dir", w.dir).Msg("watching staging directory")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug().Str("op", event.Op.String()).Str("file", event.Name).Msg("staging change")
			w.Trigger()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("staging watch error")
		}
	}
}
