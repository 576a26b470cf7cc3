package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ParseSchedule validates a standard five-field cron expression or a
// descriptor such as "@daily".
func ParseSchedule(expr string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

// NextRun returns when expr fires next after ref.
func NextRun(expr string, ref time.Time) (time.Time, error) {
	schedule, err := ParseSchedule(expr)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(ref), nil
}

// Schedule runs the batch on expr until ctx is canceled. A run that is still
// going when the next one is due causes that one to be skipped.
func (b *Batch) Schedule(ctx context.Context, expr string, onRun func(Summary, error)) error {
	if _, err := ParseSchedule(expr); err != nil {
		return err
	}

	logger := b.reviewer.logger
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(expr, func() {
		summary, err := b.Run(ctx, nil)
		if errors.Is(err, ErrReviewInProgress) {
			logger.Warn("scheduled review skipped, another run holds the lock")
		} else if err != nil && ctx.Err() == nil {
			logger.Error("scheduled review failed", "error", err)
		}
		if onRun != nil {
			onRun(summary, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule review: %w", err)
	}

	c.Start()
	logger.Info("review schedule started", "cron", expr)
	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("review schedule stopped")
	return nil
}
