// Package taskqueue runs tasks strictly one after another with a fixed pause
// between the end of one task and the start of the next.
package taskqueue

import (
	"context"
	"time"
)

// Task is one unit of work. Its error is reported but never stops the queue.
type Task func(ctx context.Context) error

// Outcome describes a finished task.
type Outcome struct {
	Index    int
	Err      error
	Started  time.Time
	Finished time.Time
}

// Queue is a sequential runner.
type Queue struct {
	delay   time.Duration
	sleeper func(ctx context.Context, d time.Duration) error
	now     func() time.Time
	onDone  func(Outcome)
}

// Option customizes the queue.
type Option func(*Queue)

// WithSleeper overrides how the inter-task delay is waited out (useful for tests).
func WithSleeper(sleeper func(ctx context.Context, d time.Duration) error) Option {
	return func(q *Queue) {
		if sleeper != nil {
			q.sleeper = sleeper
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

// WithOnDone registers a hook fired after every task.
func WithOnDone(fn func(Outcome)) Option {
	return func(q *Queue) {
		q.onDone = fn
	}
}

func New(delay time.Duration, opts ...Option) *Queue {
	if delay < 0 {
		delay = 0
	}
	q := &Queue{
		delay:   delay,
		sleeper: sleep,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Delay returns the pause between tasks.
func (q *Queue) Delay() time.Duration {
	return q.delay
}

// Run executes tasks in order. A canceled ctx stops the queue before the next
// task starts and is returned; task errors are collected in the outcomes.
func (q *Queue) Run(ctx context.Context, tasks []Task) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(tasks))
	for i, task := range tasks {
		if i > 0 && q.delay > 0 {
			if err := q.sleeper(ctx, q.delay); err != nil {
				return outcomes, err
			}
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		out := Outcome{Index: i, Started: q.now()}
		out.Err = task(ctx)
		out.Finished = q.now()
		outcomes = append(outcomes, out)
		if q.onDone != nil {
			q.onDone(out)
		}
	}
	return outcomes, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
