// Package goroutine runs long-lived background tasks that the application
// waits for on shutdown.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shandysiswandi/gorecover/internal/pkg/stacktrace"
)

// DefaultMaxTasks is used when NewManager receives a non-positive limit.
const DefaultMaxTasks = 16

// ErrClosed is returned by Go once Wait has been called.
var ErrClosed = errors.New("goroutine: manager is closed")

// ErrLimit is returned by Go when every slot is taken.
var ErrLimit = errors.New("goroutine: task limit reached")

// Manager runs named tasks with a bounded number of slots. A panicking task is
// recovered and reported as an error from Wait.
type Manager struct {
	mu     sync.Mutex
	closed bool
	errs   []error
	wg     sync.WaitGroup
	slots  chan struct{}
}

func NewManager(maxTasks int) *Manager {
	if maxTasks < 1 {
		maxTasks = DefaultMaxTasks
	}

	return &Manager{slots: make(chan struct{}, maxTasks)}
}

// Go starts f in its own goroutine. It never blocks.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}

	select {
	case g.slots <- struct{}{}:
	default:
		return ErrLimit
	}

	g.wg.Go(func() {
		defer func() { <-g.slots }()

		if err := g.run(ctx, name, f); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	})

	return nil
}

func (g *Manager) run(ctx context.Context, name string, f func(ctx context.Context) error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic occurred in background task", "task", name, "because", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic occurred in background task", "task", name, "because", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("task %s panicked: %v", name, rvr)
		}
	}()

	if err := f(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("task %s: %w", name, err)
	}

	return nil
}

// Wait refuses new tasks and blocks until the running ones return.
func (g *Manager) Wait() error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}

// Every calls f on each tick until ctx is done. Errors from f are logged and
// the loop continues.
func Every(ctx context.Context, interval time.Duration, name string, f func(ctx context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := f(ctx); err != nil {
				slog.WarnContext(ctx, "periodic task failed", "task", name, "error", err)
			}
		}
	}
}
