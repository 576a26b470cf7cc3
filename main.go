package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/scholarship-tracker/internal/links"
	"github.com/dtnitsch/scholarship-tracker/internal/review"
	"github.com/dtnitsch/scholarship-tracker/internal/search"
	"github.com/dtnitsch/scholarship-tracker/internal/settings"
	"github.com/dtnitsch/scholarship-tracker/models"
	"github.com/dtnitsch/scholarship-tracker/pkg/help"
)

func main() {
	// .env is optional; it only feeds GEMINI_API_KEY and friends.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "scholarship-tracker",
		Usage: "collect scholarship links from search results and classify them with Gemini",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "path to the SQLite database",
				Value: models.DefaultDBName,
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "optional YAML config file",
				Value:   "scholarship-tracker.yaml",
				EnvVars: []string{"SCHOLARSHIP_TRACKER_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Commands: []*cli.Command{
			settingsCommand(),
			linksCommand(),
			{
				Name:      "search",
				Usage:     "build a Google results URL for a query",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "import", Usage: "fetch the results page and import its links"},
				},
				Action: search.SearchAction,
			},
			{
				Name:  "import",
				Usage: "import result links from a search results page",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "results page to fetch"},
					&cli.StringFlag{Name: "file", Usage: "results page saved from a browser"},
					&cli.StringFlag{Name: "base-url", Usage: "URL the saved page was loaded from"},
				},
				Action: search.ImportAction,
			},
			reviewCommand(),
			{
				Name:  "quickstart",
				Usage: "print a quick reference",
				Action: func(c *cli.Context) error {
					fmt.Print(help.QuickstartYAML)
					return nil
				},
			},
		},
	}
}

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "manage the Gemini API key and resume",
		Subcommands: []*cli.Command{
			{
				Name:      "set-key",
				Usage:     "store the Gemini API key (defaults to $GEMINI_API_KEY)",
				ArgsUsage: "[key]",
				Action:    settings.SetKeyAction,
			},
			{
				Name:   "clear-key",
				Usage:  "forget the stored Gemini API key",
				Action: settings.ClearKeyAction,
			},
			{
				Name:   "show",
				Usage:  "show settings without revealing the key",
				Action: settings.ShowAction,
			},
			{
				Name:      "set-resume",
				Usage:     "store resume text",
				ArgsUsage: "[text]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read the resume from a file"},
				},
				Action: settings.SetResumeAction,
			},
			{
				Name:   "resume",
				Usage:  "print the stored resume",
				Action: settings.ResumeAction,
			},
		},
	}
}

func linksCommand() *cli.Command {
	return &cli.Command{
		Name:  "links",
		Usage: "list and edit stored links",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "show stored links",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "saved", Usage: "only saved links"},
					&cli.StringFlag{Name: "status", Usage: "only links with this status (open, closed, not found, ad)"},
					&cli.StringFlag{Name: "format", Value: "table", Usage: "table or yaml"},
				},
				Action: links.ListAction,
			},
			{
				Name:      "add",
				Usage:     "add one or more links",
				ArgsUsage: "<url>...",
				Action:    links.AddAction,
			},
			{
				Name:      "remove",
				Usage:     "remove a link by number",
				ArgsUsage: "<n>",
				Action:    links.RemoveAction,
			},
			{
				Name:      "toggle-saved",
				Usage:     "flip a link's saved flag",
				ArgsUsage: "<n>",
				Action:    links.ToggleSavedAction,
			},
			{
				Name:  "export",
				Usage: "write links to a JSON or YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (stdout when empty)"},
					&cli.StringFlag{Name: "format", Usage: "json or yaml (default from the file extension)"},
				},
				Action: links.ExportAction,
			},
		},
	}
}

func reviewCommand() *cli.Command {
	reviewFlags := []cli.Flag{
		&cli.DurationFlag{Name: "load-timeout", Usage: "give up on a page that has not loaded by then"},
		&cli.StringFlag{Name: "model", Usage: "Gemini model name"},
		&cli.DurationFlag{Name: "cache-max-age", Usage: "reuse fetched pages younger than this (0 disables)"},
	}
	batchFlags := append([]cli.Flag{
		&cli.DurationFlag{Name: "delay", Usage: "pause between pages"},
	}, reviewFlags...)

	return &cli.Command{
		Name:  "review",
		Usage: "classify links with Gemini",
		Subcommands: []*cli.Command{
			{
				Name:      "one",
				Usage:     "review a single link by number",
				ArgsUsage: "<n>",
				Flags:     reviewFlags,
				Action:    review.OneAction,
			},
			{
				Name:   "all",
				Usage:  "review every link, one at a time",
				Flags:  batchFlags,
				Action: review.AllAction,
			},
			{
				Name:      "history",
				Usage:     "show past review attempts",
				ArgsUsage: "[n]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "only this URL"},
					&cli.IntFlag{Name: "limit", Value: 50, Usage: "maximum entries"},
				},
				Action: review.HistoryAction,
			},
			{
				Name:  "schedule",
				Usage: "review every link on a cron schedule until interrupted",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "cron", Required: true, Usage: "cron expression, e.g. '0 8 * * *' or @daily"},
				}, batchFlags...),
				Action: review.ScheduleAction,
			},
		},
	}
}
