package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dtnitsch/scholarship-tracker/models"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		text string
		want models.Status
	}{
		{"open", models.StatusOpen},
		{"This scholarship is OPEN for Fall.", models.StatusOpen},
		{"Closed", models.StatusClosed},
		{"closed (reopens next year)", models.StatusOpen}, // open wins by priority
		{"ad", models.StatusAd},
		{"This looks like an advertisement", models.StatusAd},
		{"not found", models.StatusNotFound},
		{"", models.StatusNotFound},
		{"unsure", models.StatusNotFound},
	}
	for _, tt := range tests {
		if got := ParseLabel(tt.text); got != tt.want {
			t.Errorf("ParseLabel(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFirstCandidateText(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"valid", `{"candidates":[{"content":{"parts":[{"text":"closed"},{"text":"open"}]}}]}`, "closed", true},
		{"no candidates", `{"candidates":[]}`, "", false},
		{"no parts", `{"candidates":[{"content":{"parts":[]}}]}`, "", false},
		{"missing text", `{"candidates":[{"content":{"parts":[{"inlineData":{}}]}}]}`, "", false},
		{"error payload", `{"error":{"code":400,"message":"bad"}}`, "", false},
		{"not json", `<html>oops</html>`, "", false},
		{"wrong types", `{"candidates":"nope"}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstCandidateText([]byte(tt.body))
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FirstCandidateText() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("page body")
	if !strings.HasPrefix(got, Prompt) || !strings.HasSuffix(got, "\n\npage body") {
		t.Errorf("BuildPrompt() = %q", got)
	}
	if !strings.Contains(Prompt, "specific college or university, classify it as an ad") {
		t.Error("Prompt lost the single-institution rule")
	}
}

func TestClassify_Request(t *testing.T) {
	var (
		gotPath, gotKey, gotContentType string
		gotBody                         generateRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotContentType = r.Header.Get("Content-Type")
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"This scholarship is OPEN for Fall."}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/v1beta/", Model: "gemini-test"})
	res, err := c.Classify(context.Background(), "secret key", "Deadline: June 1")
	if err != nil {
		t.Fatalf("Classify() failed: %v", err)
	}

	if res.Status != models.StatusOpen || res.Text != "This scholarship is OPEN for Fall." {
		t.Errorf("Classify() = %+v", res)
	}
	if gotPath != "/v1beta/models/gemini-test:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret key" {
		t.Errorf("key = %q", gotKey)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 ||
		gotBody.Contents[0].Parts[0].Text != BuildPrompt("Deadline: June 1") {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestClassify_Responses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		want       models.Status
		wantErr    bool
		wantStatus int
	}{
		{"closed", 200, `{"candidates":[{"content":{"parts":[{"text":"closed"}]}}]}`, models.StatusClosed, false, 0},
		{"malformed shape", 200, `{"candidates":[]}`, models.StatusNotFound, false, 0},
		{"not json", 200, `garbage`, models.StatusNotFound, false, 0},
		{"rate limited", 429, `{"error":{"message":"quota"}}`, "", true, 429},
		{"server error", 500, `boom`, "", true, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res, err := NewClient(Config{BaseURL: srv.URL}).Classify(context.Background(), "k", "text")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Classify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var statusErr *HTTPStatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != tt.wantStatus {
					t.Errorf("error = %v, want HTTPStatusError %d", err, tt.wantStatus)
				}
				return
			}
			if res.Status != tt.want {
				t.Errorf("Status = %q, want %q", res.Status, tt.want)
			}
		})
	}
}

func TestClassify_MissingKey(t *testing.T) {
	_, err := NewClient(Config{}).Classify(context.Background(), "  ", "text")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Classify() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestClassify_TransportErrorRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewClient(Config{BaseURL: base}).Classify(context.Background(), "super-secret", "text")
	if err == nil {
		t.Fatal("Classify() expected error for closed server")
	}
	if strings.Contains(err.Error(), "super-secret") {
		t.Errorf("error leaks api key: %v", err)
	}
}
