package links

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/scholarship-tracker/models"
)

var nowFunc = time.Now

// filterFromFlags builds the --saved/--status filter, or nil for none.
func filterFromFlags(c *cli.Context) func(models.LinkRecord) bool {
	saved := c.Bool("saved")
	status := models.Status(c.String("status"))
	if !saved && status == "" {
		return nil
	}
	return func(l models.LinkRecord) bool {
		if saved && !l.Saved {
			return false
		}
		if status != "" && l.Status != status {
			return false
		}
		return true
	}
}

func filterLinks(links []models.LinkRecord, keep func(models.LinkRecord) bool) []models.LinkRecord {
	if keep == nil {
		return links
	}
	out := []models.LinkRecord{}
	for _, l := range links {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
