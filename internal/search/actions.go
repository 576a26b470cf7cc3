package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/scholarship-tracker/internal/dashboard"
	"github.com/dtnitsch/scholarship-tracker/pkg/storage"
)

// SearchAction prints the results page URL for a query, and with --import
// fetches that page and imports its links.
func SearchAction(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("search query required")
	}

	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	searchURL := s.SearchURL(query)
	fmt.Println(searchURL)
	if !c.Bool("import") {
		fmt.Println("Open the URL in a browser, or rerun with --import.")
		return nil
	}

	_, err = s.ImportFromURL(c.Context, searchURL)
	return ignoreStatusErr(err)
}

// ImportAction imports links from a live results page (--url) or a results
// page saved to disk (--file with --base-url).
func ImportAction(c *cli.Context) error {
	pageURL := c.String("url")
	file := c.String("file")
	if (pageURL == "") == (file == "") {
		return errors.New("exactly one of --url or --file is required")
	}

	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if pageURL != "" {
		_, err = s.ImportFromURL(c.Context, pageURL)
		return ignoreStatusErr(err)
	}

	st := &storage.Storage{}
	if !st.HasFile(file) {
		return fmt.Errorf("saved page not found: %s", file)
	}
	if stats, err := st.GetFileStats(file); err == nil {
		s.Logger.Info("Importing saved page", "file", file, "bytes", stats.SizeBytes, "modified", stats.ModTime)
	}
	html, err := st.ReadFile(file)
	if err != nil {
		return err
	}
	_, err = s.ImportFromPage(c.Context, c.String("base-url"), html)
	return ignoreStatusErr(err)
}

// ignoreStatusErr drops errors already reported on the status line.
func ignoreStatusErr(err error) error {
	if errors.Is(err, dashboard.ErrNotSearchPage) {
		return nil
	}
	return err
}
