// Package render formats links and review history for the terminal.
package render

import (
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/dtnitsch/scholarship-tracker/models"
)

const (
	maxShortLen = 40
	ellipsis    = "..."
)

var (
	schemePrefix = regexp.MustCompile(`^https?://`)
	wwwPrefix    = regexp.MustCompile(`^www\.`)
	domainEnding = regexp.MustCompile(`\.[a-z]{2,6}([/?#].*)?$`)
)

// ShortenURL drops the scheme, a leading "www." and the domain ending with
// anything after it, then caps the result at 40 characters.
func ShortenURL(url string) string {
	u := schemePrefix.ReplaceAllString(url, "")
	u = wwwPrefix.ReplaceAllString(u, "")
	u = domainEnding.ReplaceAllString(u, "")

	r := []rune(u)
	if len(r) > maxShortLen {
		return string(r[:maxShortLen-len(ellipsis)]) + ellipsis
	}
	return u
}

// ShouldColorize reports whether w is a terminal.
func ShouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func statusColors(s models.Status) text.Colors {
	switch s {
	case models.StatusOpen:
		return text.Colors{text.FgGreen}
	case models.StatusClosed:
		return text.Colors{text.FgRed}
	case models.StatusNotFound:
		return text.Colors{text.FgHiBlack}
	case models.StatusAd:
		return text.Colors{text.FgYellow}
	default:
		return nil
	}
}

func paint(s string, colors text.Colors, colorize bool) string {
	if !colorize || len(colors) == 0 || s == "" {
		return s
	}
	return colors.Sprint(s)
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

// Links renders the link list with 1-based indexes. Statuses are coloured when
// colorize is set.
func Links(links []models.LinkRecord, colorize bool) string {
	return LinksWhere(links, nil, colorize)
}

// LinksWhere renders only the links keep accepts, numbered by their position
// in the full list so the numbers stay valid for other commands.
func LinksWhere(links []models.LinkRecord, keep func(models.LinkRecord) bool, colorize bool) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"#", "Link", "Status", "Saved", "URL"})
	rows := 0
	for i, l := range links {
		if keep != nil && !keep(l) {
			continue
		}
		rows++
		colors := statusColors(l.Status)
		saved := ""
		if l.Saved {
			saved = paint("★", text.Colors{text.FgHiYellow}, colorize)
		}
		status := ""
		if l.Status != models.StatusUnset {
			status = "[" + string(l.Status) + "]"
		}
		tw.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			paint(ShortenURL(l.URL), colors, colorize),
			paint(status, colors, colorize),
			saved,
			l.URL,
		})
	}
	if rows == 0 {
		return "No links stored.\n"
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render() + "\n"
}

// History renders review history entries, newest first as given.
func History(entries []models.ReviewEntry, colorize bool) string {
	if len(entries) == 0 {
		return "No reviews recorded.\n"
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"When", "Link", "Status", "Lang", "Run", "Error"})
	for _, e := range entries {
		status := string(e.Status)
		colors := statusColors(e.Status)
		if !e.Succeeded() {
			status = "failed"
			colors = text.Colors{text.FgRed}
		}
		run := e.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		tw.AppendRow(table.Row{
			e.ReviewedAt.Local().Format("2006-01-02 15:04:05"),
			ShortenURL(e.URL),
			paint(status, colors, colorize),
			e.Language,
			run,
			truncate(e.Error, 60),
		})
	}
	return tw.Render() + "\n"
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-len(ellipsis)]) + ellipsis
}
