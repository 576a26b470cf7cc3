package browser

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/dtnitsch/scholarship-tracker/models"
	"github.com/dtnitsch/scholarship-tracker/pkg/caching"
	"github.com/dtnitsch/scholarship-tracker/pkg/fetcher"
	"github.com/dtnitsch/scholarship-tracker/pkg/parser"
)

// HTTPBrowser loads tabs with a plain HTTP GET and renders their text with the
// parser. It does not execute scripts.
type HTTPBrowser struct {
	fetcher *fetcher.Fetcher
	parser  *parser.Parser
	cache   *caching.Cache
	logger  *slog.Logger

	nextID atomic.Int64
	open   atomic.Int64
}

func NewHTTPBrowser(f *fetcher.Fetcher, p *parser.Parser, cache *caching.Cache, logger *slog.Logger) *HTTPBrowser {
	if f == nil {
		f = fetcher.NewFetcher()
	}
	if p == nil {
		p = &parser.Parser{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPBrowser{fetcher: f, parser: p, cache: cache, logger: logger}
}

// OpenTabs reports how many tabs have been opened and not yet closed.
func (b *HTTPBrowser) OpenTabs() int {
	return int(b.open.Load())
}

// Open starts loading url and returns immediately.
func (b *HTTPBrowser) Open(ctx context.Context, url string) (Tab, error) {
	loadCtx, cancel := context.WithCancel(ctx)
	t := &httpTab{
		id:      int(b.nextID.Add(1)),
		url:     url,
		done:    make(chan struct{}),
		cancel:  cancel,
		browser: b,
	}
	b.open.Add(1)
	b.logger.Debug("Tab opened", "tab_id", t.id, "url", url)

	go t.load(loadCtx)
	return t, nil
}

type httpTab struct {
	id      int
	url     string
	done    chan struct{}
	cancel  context.CancelFunc
	browser *HTTPBrowser

	page *models.Page
	err  error

	closeOnce sync.Once
	closed    atomic.Bool
}

func (t *httpTab) load(ctx context.Context) {
	defer close(t.done)

	b := t.browser
	html, hit := b.cache.Get(t.url)
	if !hit {
		var (
			status int
			err    error
		)
		html, status, err = b.fetcher.GetPage(ctx, t.url)
		if err != nil {
			t.err = err
			return
		}
		if status == http.StatusOK {
			if err := b.cache.Set(t.url, html); err != nil {
				b.logger.Warn("Failed to cache page", "url", t.url, "error", err)
			}
		} else {
			b.logger.Debug("Tab loaded error page", "tab_id", t.id, "url", t.url, "status", status)
		}
	}

	page, err := b.parser.Parse(t.url, html)
	if err != nil {
		t.err = err
		return
	}
	t.page = page
	b.logger.Debug("Tab loaded", "tab_id", t.id, "url", t.url, "cache_hit", hit)
}

func (t *httpTab) ID() int               { return t.id }
func (t *httpTab) URL() string           { return t.url }
func (t *httpTab) Done() <-chan struct{} { return t.done }

func (t *httpTab) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

func (t *httpTab) VisibleText(limit int) (string, error) {
	if t.closed.Load() {
		return "", ErrTabClosed
	}
	select {
	case <-t.done:
	default:
		return "", errNotLoaded
	}
	if t.err != nil {
		return "", t.err
	}
	return t.page.Truncate(limit), nil
}

// Close aborts any in-flight load. It is safe to call more than once.
func (t *httpTab) Close() error {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		t.cancel()
		t.browser.open.Add(-1)
		t.browser.logger.Debug("Tab closed", "tab_id", t.id, "url", t.url)
	})
	return nil
}
