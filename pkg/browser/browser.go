// Package browser loads pages in the background on behalf of one caller at a
// time. A Tab is opened, awaited with a deadline, read, and always closed.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrLoadTimeout = errors.New("page did not finish loading before the deadline")
	ErrTabClosed   = errors.New("tab is closed")
)

// Tab is a page loading in the background.
type Tab interface {
	ID() int
	URL() string
	// Done is closed once the load completes or fails.
	Done() <-chan struct{}
	// Err reports why the load failed, once Done is closed.
	Err() error
	// VisibleText returns at most limit characters of rendered text.
	VisibleText(limit int) (string, error)
	Close() error
}

// Browser opens tabs.
type Browser interface {
	Open(ctx context.Context, url string) (Tab, error)
}

// WaitLoaded blocks until tab completes, ctx ends, or timeout passes. A
// non-positive timeout falls back to DefaultLoadTimeout; there is no unbounded
// wait.
func WaitLoaded(ctx context.Context, tab Tab, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-tab.Done():
		if err := tab.Err(); err != nil {
			return fmt.Errorf("failed to load %s: %w", tab.URL(), err)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: %s after %s", ErrLoadTimeout, tab.URL(), timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

const DefaultLoadTimeout = 30 * time.Second

var errNotLoaded = errors.New("page has not finished loading")
