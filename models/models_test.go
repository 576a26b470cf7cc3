package models

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLinkRecord_UnmarshalLegacyAndObject(t *testing.T) {
	raw := `["https://a.edu/s1", {"url":"https://b.org/x","status":"open","saved":true}]`

	var links []LinkRecord
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("len = %d, want 2", len(links))
	}
	if links[0] != (LinkRecord{URL: "https://a.edu/s1"}) {
		t.Errorf("legacy link = %+v", links[0])
	}
	want := LinkRecord{URL: "https://b.org/x", Status: StatusOpen, Saved: true}
	if links[1] != want {
		t.Errorf("object link = %+v, want %+v", links[1], want)
	}
}

func TestLinkRecord_MarshalOmitsUnset(t *testing.T) {
	data, err := json.Marshal(LinkRecord{URL: "https://a.edu/s1"})
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(data) != `{"url":"https://a.edu/s1"}` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestStatusValid(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusUnset, true},
		{StatusOpen, true},
		{StatusClosed, true},
		{StatusNotFound, true},
		{StatusAd, true},
		{Status("maybe"), false},
	}
	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("Status(%q).Valid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestIndexOfURL(t *testing.T) {
	links := []LinkRecord{{URL: "a"}, {URL: "b"}, {URL: "b"}}
	if got := IndexOfURL(links, "b"); got != 1 {
		t.Errorf("IndexOfURL(b) = %d, want 1", got)
	}
	if ContainsURL(links, "c") {
		t.Error("ContainsURL(c) = true")
	}
}

func TestNewExtractedLinks(t *testing.T) {
	msg := NewExtractedLinks(nil)
	if msg.Type != MessageTypeExtractedLinks {
		t.Errorf("Type = %q", msg.Type)
	}
	if msg.Links == nil {
		t.Error("Links should be empty, not nil")
	}
}

func TestPageTruncate(t *testing.T) {
	p := &Page{Text: "héllo world"}
	if got := p.Truncate(5); got != "héllo" {
		t.Errorf("Truncate(5) = %q", got)
	}
	if got := p.Truncate(0); got != p.Text {
		t.Errorf("Truncate(0) = %q", got)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("LoadConfig() failed: %v", err)
		}
		if cfg.Review.Delay != DefaultReviewDelay {
			t.Errorf("Delay = %v, want %v", cfg.Review.Delay, DefaultReviewDelay)
		}
	})

	t.Run("partial file keeps other defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		body := "gemini:\n  model: gemini-test\nreview:\n  delay: 5s\n"
		if err := os.WriteFile(path, []byte(body), 0600); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() failed: %v", err)
		}
		if cfg.Gemini.Model != "gemini-test" {
			t.Errorf("Model = %q", cfg.Gemini.Model)
		}
		if cfg.Gemini.BaseURL != DefaultGeminiBaseURL {
			t.Errorf("BaseURL = %q", cfg.Gemini.BaseURL)
		}
		if cfg.Review.Delay != 5*time.Second {
			t.Errorf("Delay = %v", cfg.Review.Delay)
		}
		if cfg.Review.TextLimit != DefaultTextLimit {
			t.Errorf("TextLimit = %d", cfg.Review.TextLimit)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("gemini: [oops"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig() expected error")
		}
	})
}
