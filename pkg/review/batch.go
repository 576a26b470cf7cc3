package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/dtnitsch/scholarship-tracker/models"
	"github.com/dtnitsch/scholarship-tracker/pkg/taskqueue"
)

var ErrReviewInProgress = errors.New("another review run holds the lock")

// Summary describes a finished batch run.
type Summary struct {
	RunID     string
	Attempted int
	Updated   int
	Failed    int
	Canceled  bool
	// Links is the store as reloaded after the run.
	Links []models.LinkRecord
}

// Batch reviews every stored link, one at a time.
type Batch struct {
	reviewer  *Reviewer
	delay     time.Duration
	lockPath  string
	queueOpts []taskqueue.Option
	newRunID  func() string
}

// BatchOption customizes a Batch.
type BatchOption func(*Batch)

// WithLockPath guards runs with a file lock so two processes never review at
// the same time.
func WithLockPath(path string) BatchOption {
	return func(b *Batch) { b.lockPath = path }
}

// WithQueueOptions passes options through to the task queue.
func WithQueueOptions(opts ...taskqueue.Option) BatchOption {
	return func(b *Batch) { b.queueOpts = append(b.queueOpts, opts...) }
}

func WithRunID(fn func() string) BatchOption {
	return func(b *Batch) {
		if fn != nil {
			b.newRunID = fn
		}
	}
}

func NewBatch(r *Reviewer, delay time.Duration, opts ...BatchOption) *Batch {
	b := &Batch{
		reviewer: r,
		delay:    delay,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run snapshots the store and reviews each record in order. Individual
// failures do not stop the run; a canceled ctx stops it before the next link.
func (b *Batch) Run(ctx context.Context, onEach func(Outcome)) (Summary, error) {
	if b.lockPath != "" {
		lock := flock.New(b.lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return Summary{}, fmt.Errorf("failed to acquire review lock: %w", err)
		}
		if !ok {
			return Summary{}, ErrReviewInProgress
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				b.reviewer.logger.Warn("failed to release review lock", "path", b.lockPath, "error", err)
			}
		}()
	}

	snapshot, err := b.reviewer.store.Links(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to snapshot links: %w", err)
	}

	summary := Summary{RunID: b.newRunID()}
	logger := b.reviewer.logger.With("run_id", summary.RunID)

	opts := append([]taskqueue.Option{taskqueue.WithOnDone(func(o taskqueue.Outcome) {
		logger.Debug("batch task finished", "index", o.Index, "elapsed", o.Finished.Sub(o.Started), "error", o.Err)
	})}, b.queueOpts...)
	queue := taskqueue.New(b.delay, opts...)
	logger.Info("batch review started", "links", len(snapshot), "delay", queue.Delay())

	tasks := make([]taskqueue.Task, len(snapshot))
	for i, rec := range snapshot {
		i, url := i, rec.URL
		tasks[i] = func(ctx context.Context) error {
			out, err := b.reviewer.review(ctx, summary.RunID, i, url, onEach)
			summary.Attempted++
			if err != nil {
				summary.Failed++
			} else if out.Updated {
				summary.Updated++
			}
			return err
		}
	}

	_, runErr := queue.Run(ctx, tasks)
	if runErr == nil {
		// The queue only checks ctx between tasks.
		runErr = ctx.Err()
	}
	if runErr != nil {
		summary.Canceled = true
		logger.Warn("batch review stopped", "attempted", summary.Attempted, "error", runErr)
	}

	links, err := b.reviewer.store.Load(context.WithoutCancel(ctx))
	if err != nil {
		return summary, fmt.Errorf("failed to reload links: %w", err)
	}
	summary.Links = links

	if summary.Canceled {
		return summary, runErr
	}
	fmt.Fprintln(b.reviewer.status, StatusAllReviewed)
	logger.Info("batch review finished", "attempted", summary.Attempted, "updated", summary.Updated, "failed", summary.Failed)
	return summary, nil
}
