package device

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrWaitTimeout is returned by Waiter.Wait when Timeout is set and elapses
// before the bootloader volume appears.
var ErrWaitTimeout = errors.New("timed out waiting for bootloader volume")

// Waiter blocks until the bootloader volume at Mount is ready. It polls on
// Poll and additionally wakes on filesystem events for the mount's parent
// directory, so a freshly appearing volume is probed without waiting out the
// current tick. After the first ready observation it sleeps Settle before
// returning: the volume can still be finishing its own mount sequence even
// once it reads as writable.
type Waiter struct {
	Mount   string
	Poll    time.Duration
	Settle  time.Duration
	Timeout time.Duration // zero means wait indefinitely
	Probe   ProbeFunc     // defaults to Ready
	Logger  zerolog.Logger
}

// Wait blocks until the volume is ready, the context is cancelled, or the
// configured timeout elapses.
func (w *Waiter) Wait(ctx context.Context) error {
	probe := w.Probe
	if probe == nil {
		probe = Ready
	}

	w.Logger.Info().
		Str("mount", w.Mount).
		Msg("waiting for bootloader volume, put the half into bootloader mode")

	start := time.Now()
	if probe(w.Mount) {
		return w.settle(ctx, start)
	}

	var timeoutCh <-chan time.Time
	if w.Timeout > 0 {
		timer := time.NewTimer(w.Timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	// Filesystem events on the parent directory wake the loop the moment the
	// volume mounts. If the watcher cannot be set up we degrade to plain
	// polling.
	var events chan fsnotify.Event
	var watchErrs chan error
	if watcher, err := fsnotify.NewWatcher(); err != nil {
		w.Logger.Debug().Err(err).Msg("mount watcher unavailable, polling only")
	} else {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(w.Mount)); err != nil {
			w.Logger.Debug().Err(err).Msg("cannot watch mount parent, polling only")
		} else {
			events = watcher.Events
			watchErrs = watcher.Errors
		}
	}

	ticker := time.NewTicker(w.Poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s: %w", w.Mount, ctx.Err())
		case <-timeoutCh:
			return fmt.Errorf("%w: %s not ready after %s", ErrWaitTimeout, w.Mount, w.Timeout)
		case <-ticker.C:
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.Mount) {
				continue
			}
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			w.Logger.Debug().Err(err).Msg("mount watcher error")
			continue
		}

		if probe(w.Mount) {
			return w.settle(ctx, start)
		}
	}
}

func (w *Waiter) settle(ctx context.Context, start time.Time) error {
	w.Logger.Info().
		Str("mount", w.Mount).
		Dur("waited", time.Since(start)).
		Msg("bootloader volume detected")

	if w.Settle <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("settle %s: %w", w.Mount, ctx.Err())
	case <-time.After(w.Settle):
		return nil
	}
}
