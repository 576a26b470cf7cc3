// Package extractor pulls outbound result links from a search results page.
package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/scholarship-tracker/models"
)

const (
	DefaultExcludeDomain = "google.com"
	searchPathMarker     = "/search"
)

type Extractor struct {
	// ExcludeDomain is matched as a plain substring of each href.
	ExcludeDomain string
}

func New(excludeDomain string) *Extractor {
	if excludeDomain == "" {
		excludeDomain = DefaultExcludeDomain
	}
	return &Extractor{ExcludeDomain: excludeDomain}
}

// Extract scans every anchor in doc and returns the EXTRACTED_LINKS message.
// Relative hrefs are resolved against pageURL first, the way a browser
// reports a.href. Order is kept and duplicates are left for the store.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) models.ExtractedLinks {
	base, err := url.Parse(pageURL)
	if err != nil || pageURL == "" {
		base = nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if resolved, ok := e.accept(base, href); ok {
			links = append(links, resolved)
		}
	})
	return models.NewExtractedLinks(links)
}

// Filter applies the extractor's rules to hrefs that are already absolute.
func (e *Extractor) Filter(hrefs []string) []string {
	out := []string{}
	for _, href := range hrefs {
		if resolved, ok := e.accept(nil, href); ok {
			out = append(out, resolved)
		}
	}
	return out
}

func (e *Extractor) accept(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	if base != nil {
		ref, err := url.Parse(href)
		if err != nil {
			return "", false
		}
		href = base.ResolveReference(ref).String()
	}

	lower := strings.ToLower(href)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", false
	}
	if e.ExcludeDomain != "" && strings.Contains(href, e.ExcludeDomain) {
		return "", false
	}
	return href, true
}

// IsSearchResultsPage reports whether pageURL is a results page of the
// excluded search engine, e.g. https://www.google.com/search?q=...
func (e *Extractor) IsSearchResultsPage(pageURL string) bool {
	return strings.Contains(pageURL, e.ExcludeDomain+searchPathMarker)
}

// SearchURL builds the results page URL for query. Spaces are sent as %20.
func (e *Extractor) SearchURL(query string) string {
	// QueryEscape turns a literal '+' into %2B, so every '+' left is a space.
	q := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return "https://www." + e.ExcludeDomain + searchPathMarker + "?q=" + q
}
