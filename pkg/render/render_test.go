package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dtnitsch/scholarship-tracker/models"
)

func TestShortenURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://a.edu/s1", "a"},
		{"https://www.fastweb.com/college-scholarships", "fastweb"},
		{"http://scholarships.example.org?x=1", "scholarships.example"},
		{"https://foo.bar.co.uk#frag", "foo.bar.co"},
		{"ftp://weird", "ftp://weird"},
		{
			"https://averyveryverylongsubdomainnameforscholarships.university.edu/path",
			"averyveryverylongsubdomainnameforscho...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ShortenURL(tt.in)
			if got != tt.want {
				t.Errorf("ShortenURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if n := len([]rune(got)); n > 40 {
				t.Errorf("length = %d, want <= 40", n)
			}
		})
	}
}

func TestShouldColorize_NonFile(t *testing.T) {
	if ShouldColorize(&bytes.Buffer{}) {
		t.Error("buffer should never be colorized")
	}
}

func TestLinks(t *testing.T) {
	out := Links([]models.LinkRecord{
		{URL: "https://a.edu/s1", Status: models.StatusOpen, Saved: true},
		{URL: "https://b.org/x"},
	}, false)

	for _, want := range []string{"https://a.edu/s1", "[open]", "★", "https://b.org/x"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("uncolored output contains ANSI escapes")
	}

	text.EnableColors()
	colored := Links([]models.LinkRecord{{URL: "https://a.edu", Status: models.StatusClosed}}, true)
	if !strings.Contains(colored, "\x1b[") {
		t.Error("colored output has no ANSI escapes")
	}
}

func TestLinks_Empty(t *testing.T) {
	if got := Links(nil, false); got != "No links stored.\n" {
		t.Errorf("Links(nil) = %q", got)
	}
}

func TestHistory(t *testing.T) {
	out := History([]models.ReviewEntry{
		{URL: "https://a.edu", Status: models.StatusAd, Language: "en", RunID: "0123456789abcdef", ReviewedAt: time.Now()},
		{URL: "https://b.edu", Error: "failed to classify: http 500"},
	}, false)

	for _, want := range []string{"ad", "en", "01234567", "http 500", "failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0123456789abcdef") {
		t.Error("run id not shortened")
	}
}

func TestLinksWhere_KeepsNumbers(t *testing.T) {
	links := []models.LinkRecord{
		{URL: "https://a.edu"},
		{URL: "https://b.edu", Saved: true},
	}
	out := LinksWhere(links, func(l models.LinkRecord) bool { return l.Saved }, false)
	if strings.Contains(out, "https://a.edu") || !strings.Contains(out, "https://b.edu") {
		t.Errorf("filter not applied:\n%s", out)
	}
	if !strings.Contains(out, "2") {
		t.Errorf("original number missing:\n%s", out)
	}
}
