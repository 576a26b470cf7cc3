package common

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON stderr logger. --quiet keeps only errors.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// ParseIndex converts a 1-based index argument to a 0-based one.
func ParseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid link number %q: use the # column from 'links list'", arg)
	}
	return n - 1, nil
}

// IndexArg reads the first positional argument as a 1-based link number.
func IndexArg(c *cli.Context) (int, error) {
	if c.NArg() == 0 {
		return 0, fmt.Errorf("link number required")
	}
	return ParseIndex(c.Args().First())
}
