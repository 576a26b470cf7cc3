// Package dashboard is the controller behind every user-facing command: it
// owns the status line, re-renders the link list after each change and
// delegates the real work to the store, extractor and reviewers.
package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/scholarship-tracker/internal/common"
	"github.com/dtnitsch/scholarship-tracker/models"
	"github.com/dtnitsch/scholarship-tracker/pkg/extractor"
	"github.com/dtnitsch/scholarship-tracker/pkg/render"
	"github.com/dtnitsch/scholarship-tracker/pkg/review"
	"github.com/dtnitsch/scholarship-tracker/pkg/store"
)

var (
	ErrNotSearchPage = errors.New("not a search results page")
	ErrInvalidURL    = errors.New("invalid url")
)

const (
	StatusKeySaved      = "API key saved!"
	StatusKeyLoaded     = "API key loaded (hidden)"
	StatusKeyMissing    = "No API key set."
	StatusKeyCleared    = "API key cleared."
	StatusResumeSaved   = "Resume saved!"
	StatusNotSearchPage = "Please focus a Google search results tab."
	StatusNoLinks       = "No links found."
)

// PageFetcher downloads and parses a page.
type PageFetcher interface {
	GetHtml(ctx context.Context, url string) (*goquery.Document, error)
}

// HistoryReader lists recorded reviews. *db.DB satisfies it.
type HistoryReader interface {
	ListReviews(ctx context.Context, url string, limit int) ([]models.ReviewEntry, error)
}

// Deps are the collaborators a Controller drives. Out receives renders and
// Status receives one-line status messages; both default to io.Discard.
type Deps struct {
	Store     *store.Store
	Extractor *extractor.Extractor
	Fetcher   PageFetcher
	Reviewer  *review.Reviewer
	Batch     *review.Batch
	History   HistoryReader
	Logger    *slog.Logger
	Out       io.Writer
	Status    io.Writer
	Colorize  bool
}

type Controller struct {
	Deps
}

func New(d Deps) *Controller {
	if d.Extractor == nil {
		d.Extractor = extractor.New("")
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Out == nil {
		d.Out = io.Discard
	}
	if d.Status == nil {
		d.Status = io.Discard
	}
	return &Controller{Deps: d}
}

// indexError reports i the way users number links, starting at 1.
func indexError(i int) error {
	return fmt.Errorf("%w: no link #%d", store.ErrIndexOutOfRange, i+1)
}

func (c *Controller) status(format string, args ...any) {
	fmt.Fprintf(c.Status, format+"\n", args...)
}

// Links loads the store, rewriting any legacy entries.
func (c *Controller) Links(ctx context.Context) ([]models.LinkRecord, error) {
	links, err := c.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	return links, nil
}

// Render writes the current link list.
func (c *Controller) Render(ctx context.Context) error {
	links, err := c.Links(ctx)
	if err != nil {
		return err
	}
	c.renderLinks(links)
	return nil
}

func (c *Controller) renderLinks(links []models.LinkRecord) {
	fmt.Fprint(c.Out, render.Links(links, c.Colorize))
}

// SaveAPIKey stores a trimmed key. A blank key is ignored.
func (c *Controller) SaveAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if err := c.Store.SetAPIKey(ctx, key); err != nil {
		return fmt.Errorf("failed to save api key: %w", err)
	}
	c.status(StatusKeySaved)
	return nil
}

func (c *Controller) ClearAPIKey(ctx context.Context) error {
	if err := c.Store.ClearAPIKey(ctx); err != nil {
		return fmt.Errorf("failed to clear api key: %w", err)
	}
	c.status(StatusKeyCleared)
	return nil
}

// APIKeyStatus reports whether a key is stored without revealing it.
func (c *Controller) APIKeyStatus(ctx context.Context) (string, error) {
	key, err := c.Store.APIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read api key: %w", err)
	}
	if key == "" {
		return StatusKeyMissing, nil
	}
	return StatusKeyLoaded, nil
}

// SaveResume stores trimmed resume text; empty text clears it.
func (c *Controller) SaveResume(ctx context.Context, text string) error {
	if err := c.Store.SetResume(ctx, strings.TrimSpace(text)); err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}
	c.status(StatusResumeSaved)
	return nil
}

func (c *Controller) Resume(ctx context.Context) (string, error) {
	text, err := c.Store.Resume(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	return text, nil
}

// AddLink sanitizes and appends rawURL. It reports whether the store changed.
func (c *Controller) AddLink(ctx context.Context, rawURL string) (bool, error) {
	if strings.TrimSpace(rawURL) == "" {
		return false, nil
	}
	url, ok := common.ValidateURL(rawURL)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	links, added, err := c.Store.Add(ctx, url)
	if err != nil {
		return false, fmt.Errorf("failed to add link: %w", err)
	}
	if added {
		c.Logger.Info("Link added", "url", url)
	} else {
		c.status("Already saved: %s", url)
	}
	c.renderLinks(links)
	return added, nil
}

// AddLinks adds every valid entry of raws in order and returns the entries
// that were rejected. Blank entries are skipped.
func (c *Controller) AddLinks(ctx context.Context, raws []string) ([]string, error) {
	nonBlank := make([]string, 0, len(raws))
	for _, raw := range raws {
		if strings.TrimSpace(raw) != "" {
			nonBlank = append(nonBlank, raw)
		}
	}

	valid, invalid := common.SanitizeAndValidateURLs(nonBlank)
	for _, url := range valid {
		if _, err := c.AddLink(ctx, url); err != nil {
			return invalid, err
		}
	}
	if len(invalid) > 0 {
		c.Logger.Warn("Rejected invalid links", "count", len(invalid))
	}
	return invalid, nil
}

// RemoveLink deletes the link at the 0-based index i.
func (c *Controller) RemoveLink(ctx context.Context, i int) error {
	links, err := c.Store.Remove(ctx, i)
	if errors.Is(err, store.ErrIndexOutOfRange) {
		return indexError(i)
	}
	if err != nil {
		return fmt.Errorf("failed to remove link: %w", err)
	}
	c.renderLinks(links)
	return nil
}

// ToggleSaved flips the saved flag of the link at the 0-based index i.
func (c *Controller) ToggleSaved(ctx context.Context, i int) error {
	links, err := c.Store.ToggleSaved(ctx, i)
	if errors.Is(err, store.ErrIndexOutOfRange) {
		return indexError(i)
	}
	if err != nil {
		return fmt.Errorf("failed to toggle saved: %w", err)
	}
	c.renderLinks(links)
	return nil
}

// SearchURL builds the results page URL for a query.
func (c *Controller) SearchURL(query string) string {
	return c.Extractor.SearchURL(strings.TrimSpace(query))
}

// ImportFromURL fetches a search results page and imports its links.
func (c *Controller) ImportFromURL(ctx context.Context, pageURL string) (int, error) {
	if !c.Extractor.IsSearchResultsPage(pageURL) {
		c.status(StatusNotSearchPage)
		return 0, ErrNotSearchPage
	}
	if c.Fetcher == nil {
		return 0, errors.New("no page fetcher configured")
	}
	doc, err := c.Fetcher.GetHtml(ctx, pageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch search page: %w", err)
	}
	return c.HandleMessage(ctx, c.Extractor.Extract(doc, pageURL))
}

// ImportFromPage extracts result links from html, which was loaded from
// pageURL, and appends the ones not already stored.
func (c *Controller) ImportFromPage(ctx context.Context, pageURL string, html []byte) (int, error) {
	if !c.Extractor.IsSearchResultsPage(pageURL) {
		c.status(StatusNotSearchPage)
		return 0, ErrNotSearchPage
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("failed to parse search page: %w", err)
	}
	return c.HandleMessage(ctx, c.Extractor.Extract(doc, pageURL))
}

// HandleMessage applies an extracted-links message to the store and returns
// how many links were new. Messages of any other type are ignored.
func (c *Controller) HandleMessage(ctx context.Context, msg models.ExtractedLinks) (int, error) {
	if msg.Type != models.MessageTypeExtractedLinks {
		return 0, nil
	}
	found := c.Extractor.Filter(msg.Links)
	if len(found) == 0 {
		c.status(StatusNoLinks)
		return 0, nil
	}

	links, added, err := c.Store.Import(ctx, found)
	if err != nil {
		return 0, fmt.Errorf("failed to import links: %w", err)
	}
	c.Logger.Info("Links imported", "found", len(found), "new", len(added))
	c.renderLinks(links)
	c.status("Imported %d new links.", len(added))
	return len(added), nil
}

// ReviewOne classifies the link at the 0-based index i.
func (c *Controller) ReviewOne(ctx context.Context, i int) (review.Outcome, error) {
	links, err := c.Links(ctx)
	if err != nil {
		return review.Outcome{}, err
	}
	if i < 0 || i >= len(links) {
		return review.Outcome{}, indexError(i)
	}

	out, reviewErr := c.Reviewer.ReviewOne(ctx, i, links[i].URL, nil)
	if err := c.Render(context.WithoutCancel(ctx)); err != nil {
		return out, err
	}
	return out, reviewErr
}

// ReviewAll runs the batch reviewer over every link.
func (c *Controller) ReviewAll(ctx context.Context) (review.Summary, error) {
	summary, err := c.Batch.Run(ctx, nil)
	if summary.Links != nil {
		c.renderLinks(summary.Links)
	}
	return summary, err
}

// ShowHistory writes recorded reviews, newest first. An empty url lists all.
func (c *Controller) ShowHistory(ctx context.Context, url string, limit int) error {
	if c.History == nil {
		return errors.New("no review history configured")
	}
	entries, err := c.History.ListReviews(ctx, url, limit)
	if err != nil {
		return err
	}
	fmt.Fprint(c.Out, render.History(entries, c.Colorize))
	return nil
}
