// Package review classifies stored links: one at a time on demand, or all of
// them through a paced sequential batch.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dtnitsch/scholarship-tracker/models"
	"github.com/dtnitsch/scholarship-tracker/pkg/browser"
	"github.com/dtnitsch/scholarship-tracker/pkg/classifier"
	"github.com/dtnitsch/scholarship-tracker/pkg/store"
)

var ErrCredentialNotSet = errors.New("gemini api key not set")

// Status lines shown to the user.
const (
	StatusCredentialMissing = "Gemini API key not set."
	StatusAPIError          = "Gemini API error."
	StatusAllReviewed       = "All links reviewed."
)

// Classifier labels page text.
type Classifier interface {
	Classify(ctx context.Context, apiKey, pageText string) (classifier.Result, error)
}

// History records attempts. *db.DB satisfies it.
type History interface {
	InsertReview(ctx context.Context, entry models.ReviewEntry) (int64, error)
}

// LanguageDetector guesses the language of page text.
type LanguageDetector interface {
	Detect(text string) string
}

// Outcome describes one finished review.
type Outcome struct {
	Index  int
	URL    string
	Status models.Status
	// Updated is false when the link was removed while it was being reviewed.
	Updated bool
	Err     error
}

// Reviewer classifies a single link.
type Reviewer struct {
	store       *store.Store
	browser     browser.Browser
	classifier  Classifier
	history     History
	detector    LanguageDetector
	logger      *slog.Logger
	status      io.Writer
	loadTimeout time.Duration
	textLimit   int
	now         func() time.Time
}

// Option customizes a Reviewer.
type Option func(*Reviewer)

func WithHistory(h History) Option {
	return func(r *Reviewer) { r.history = h }
}

func WithLanguageDetector(d LanguageDetector) Option {
	return func(r *Reviewer) { r.detector = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reviewer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStatusWriter sets where user-facing status lines go.
func WithStatusWriter(w io.Writer) Option {
	return func(r *Reviewer) {
		if w != nil {
			r.status = w
		}
	}
}

func WithLoadTimeout(d time.Duration) Option {
	return func(r *Reviewer) {
		if d > 0 {
			r.loadTimeout = d
		}
	}
}

func WithTextLimit(n int) Option {
	return func(r *Reviewer) {
		if n > 0 {
			r.textLimit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Reviewer) {
		if now != nil {
			r.now = now
		}
	}
}

func NewReviewer(st *store.Store, b browser.Browser, c Classifier, opts ...Option) *Reviewer {
	r := &Reviewer{
		store:       st,
		browser:     b,
		classifier:  c,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		status:      io.Discard,
		loadTimeout: models.DefaultLoadTimeout,
		textLimit:   models.DefaultTextLimit,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReviewOne classifies the link at index of the caller's snapshot. onComplete,
// when set, fires exactly once whatever the result.
func (r *Reviewer) ReviewOne(ctx context.Context, index int, url string, onComplete func(Outcome)) (Outcome, error) {
	return r.review(ctx, "", index, url, onComplete)
}

func (r *Reviewer) review(ctx context.Context, runID string, index int, url string, onComplete func(Outcome)) (Outcome, error) {
	out := Outcome{Index: index, URL: url}
	entry := models.ReviewEntry{RunID: runID, URL: url, Index: index}
	fmt.Fprintf(r.status, "Reviewing: %s\n", url)

	apiKey, err := r.store.APIKey(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(r.status, "Could not read API key: %v\n", err)
		out.Err = fmt.Errorf("failed to read api key: %w", err)
	case apiKey == "":
		fmt.Fprintln(r.status, StatusCredentialMissing)
		out.Err = ErrCredentialNotSet
	default:
		var raw, lang string
		raw, lang, out.Status, out.Err = r.classify(ctx, apiKey, url)
		entry.RawText = raw
		entry.Language = lang
	}

	if out.Err == nil {
		_, found, err := r.store.SetStatus(ctx, index, url, out.Status)
		if err != nil {
			out.Err = fmt.Errorf("failed to save status: %w", err)
		}
		out.Updated = found
		if err == nil && !found {
			r.logger.Warn("link removed during review, status dropped", "url", url, "index", index)
		}
	}

	entry.Status = out.Status
	if out.Err != nil {
		entry.Status = models.StatusUnset
		entry.Error = out.Err.Error()
		r.logger.Error("review failed", "url", url, "index", index, "error", out.Err)
	} else {
		fmt.Fprintf(r.status, "Reviewed: %s (%s)\n", url, out.Status)
		r.logger.Info("review complete", "url", url, "index", index, "status", out.Status, "language", entry.Language)
	}
	r.record(ctx, entry)

	if onComplete != nil {
		onComplete(out)
	}
	return out, out.Err
}

// classify owns the tab for the duration of the call and closes it before
// returning.
func (r *Reviewer) classify(ctx context.Context, apiKey, url string) (string, string, models.Status, error) {
	tab, err := r.browser.Open(ctx, url)
	if err != nil {
		fmt.Fprintf(r.status, "Could not open %s: %v\n", url, err)
		return "", "", models.StatusUnset, fmt.Errorf("failed to open tab: %w", err)
	}
	defer func() {
		if err := tab.Close(); err != nil {
			r.logger.Warn("failed to close tab", "url", url, "error", err)
		}
	}()

	if err := browser.WaitLoaded(ctx, tab, r.loadTimeout); err != nil {
		fmt.Fprintf(r.status, "Could not load %s: %v\n", url, err)
		return "", "", models.StatusUnset, err
	}

	text, err := tab.VisibleText(r.textLimit)
	if err != nil {
		fmt.Fprintf(r.status, "Could not read %s: %v\n", url, err)
		return "", "", models.StatusUnset, fmt.Errorf("failed to read page text: %w", err)
	}

	var lang string
	if r.detector != nil {
		lang = r.detector.Detect(text)
	}

	result, err := r.classifier.Classify(ctx, apiKey, text)
	if err != nil {
		fmt.Fprintln(r.status, StatusAPIError)
		return "", lang, models.StatusUnset, fmt.Errorf("failed to classify %s: %w", url, err)
	}
	return result.Text, lang, result.Status, nil
}

func (r *Reviewer) record(ctx context.Context, entry models.ReviewEntry) {
	if r.history == nil {
		return
	}
	entry.ReviewedAt = r.now()
	if _, err := r.history.InsertReview(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Warn("failed to record review", "url", entry.URL, "error", err)
	}
}
