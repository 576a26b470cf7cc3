package review

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/scholarship-tracker/internal/common"
	"github.com/dtnitsch/scholarship-tracker/internal/dashboard"
	reviewpkg "github.com/dtnitsch/scholarship-tracker/pkg/review"
)

func OneAction(c *cli.Context) error {
	i, err := common.IndexArg(c)
	if err != nil {
		return err
	}

	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = s.ReviewOne(ctx, i)
	if errors.Is(err, reviewpkg.ErrCredentialNotSet) {
		// Status line already printed.
		return cli.Exit("", 1)
	}
	return err
}

func AllAction(c *cli.Context) error {
	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := s.ReviewAll(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Printf("Review stopped after %d of %d links.\n", summary.Attempted, len(summary.Links))
		return nil
	}
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		fmt.Printf("%d of %d reviews failed; their status is unchanged.\n", summary.Failed, summary.Attempted)
	}
	return nil
}

func HistoryAction(c *cli.Context) error {
	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	url := c.String("url")
	if c.NArg() > 0 {
		i, err := common.IndexArg(c)
		if err != nil {
			return err
		}
		links, err := s.Links(c.Context)
		if err != nil {
			return err
		}
		if i >= len(links) {
			return fmt.Errorf("no link #%d", i+1)
		}
		url = links[i].URL
	}
	return s.ShowHistory(c.Context, url, c.Int("limit"))
}

func ScheduleAction(c *cli.Context) error {
	expr := c.String("cron")
	next, err := reviewpkg.NextRun(expr, time.Now())
	if err != nil {
		return err
	}

	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Reviewing all links on %q; next run %s. Press Ctrl+C to stop.\n", expr, next.Format("2006-01-02 15:04"))
	return s.Batch.Schedule(ctx, expr, func(summary reviewpkg.Summary, err error) {
		if err == nil {
			fmt.Printf("Run %s: %d reviewed, %d failed.\n", summary.RunID, summary.Attempted, summary.Failed)
		}
	})
}
