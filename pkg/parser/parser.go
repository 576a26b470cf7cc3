package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/scholarship-tracker/models"
	"github.com/go-shiori/go-readability"
)

// Mode selects how much of the page counts as visible text.
type Mode int

const (
	// ModeBody takes all rendered text of <body>, like a browser's innerText.
	ModeBody Mode = iota
	// ModeMainContent keeps only the main article as found by go-readability,
	// falling back to ModeBody when nothing is found.
	ModeMainContent
)

type Parser struct {
	Mode Mode
}

var hiddenTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "template": {}, "head": {},
	"svg": {}, "iframe": {}, "object": {}, "canvas": {},
}

var blockTags = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "br": {}, "dd": {},
	"div": {}, "dl": {}, "dt": {}, "fieldset": {}, "figcaption": {}, "figure": {},
	"footer": {}, "form": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {},
	"h6": {}, "header": {}, "hr": {}, "li": {}, "main": {}, "nav": {}, "ol": {},
	"p": {}, "pre": {}, "section": {}, "table": {}, "tr": {}, "ul": {},
}

// Parse turns raw HTML into a Page holding its title and visible text.
func (p *Parser) Parse(rawURL string, html []byte) (*models.Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &models.Page{
		URL:   rawURL,
		Title: normalizeText(doc.Find("title").First().Text()),
	}

	if p.Mode == ModeMainContent {
		if title, text, ok := mainContent(rawURL, html); ok {
			if title != "" {
				page.Title = title
			}
			page.Text = text
			return page, nil
		}
	}

	page.Text = VisibleText(doc.Selection)
	return page, nil
}

// VisibleText returns the rendered text under sel, one line per block element.
func VisibleText(sel *goquery.Selection) string {
	body := sel.Find("body")
	if body.Length() == 0 {
		body = sel
	}

	var sb strings.Builder
	body.Each(func(_ int, s *goquery.Selection) {
		collectText(s, &sb)
	})
	return normalizeLines(sb.String())
}

func collectText(s *goquery.Selection, sb *strings.Builder) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch name {
		case "#text":
			sb.WriteString(child.Text())
			return
		case "#comment":
			return
		}
		if _, hidden := hiddenTags[name]; hidden {
			return
		}
		if _, ok := child.Attr("hidden"); ok {
			return
		}
		if style, ok := child.Attr("style"); ok && hidesElement(style) {
			return
		}

		_, block := blockTags[name]
		if block {
			sb.WriteString("\n")
		}
		collectText(child, sb)
		if block {
			sb.WriteString("\n")
		}
	})
}

func hidesElement(style string) bool {
	compact := strings.ReplaceAll(strings.ToLower(style), " ", "")
	return strings.Contains(compact, "display:none") || strings.Contains(compact, "visibility:hidden")
}

func mainContent(rawURL string, html []byte) (string, string, bool) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", "", false
	}

	rp := readability.NewParser()
	article, err := rp.Parse(bytes.NewReader(html), parsedURL)
	if err != nil {
		return "", "", false
	}

	text := normalizeLines(article.TextContent)
	if text == "" {
		return "", "", false
	}
	return normalizeText(article.Title), text, true
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// normalizeLines collapses whitespace inside each line and drops blank lines.
func normalizeLines(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), len(input)+1)
	for scanner.Scan() {
		line := normalizeText(scanner.Text())
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
	}
	return b.String()
}
