// Package classifier asks the Gemini generateContent endpoint to label a
// scholarship page.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dtnitsch/scholarship-tracker/models"
)

const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel       = "gemini-3-flash-preview"
	defaultHTTPTimeout = 60 * time.Second
	maxResponseBytes   = 1 << 20
)

var ErrMissingAPIKey = errors.New("classifier: api key required")

// Config captures the endpoint settings.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client wraps the generateContent API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of one classification.
type Result struct {
	Status models.Status
	// Text is the raw model answer; empty when the response had no candidate.
	Text string
}

// HTTPStatusError is returned for non-2xx responses.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("classifier request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Classify sends the fixed prompt plus pageText and returns the label.
// Transport failures and non-2xx statuses are errors. A 2xx body without a
// candidate text resolves to not found.
func (c *Client) Classify(ctx context.Context, apiKey, pageText string) (Result, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return Result{}, ErrMissingAPIKey
	}

	body, err := c.generate(ctx, apiKey, BuildPrompt(pageText))
	if err != nil {
		return Result{}, err
	}

	text, ok := FirstCandidateText(body)
	if !ok {
		return Result{Status: models.StatusNotFound}, nil
	}
	return Result{Status: ParseLabel(text), Text: text}, nil
}

func (c *Client) endpoint(apiKey string) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL + "/models/" + url.PathEscape(c.cfg.Model) + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("classifier request: build url: %w", err)
	}
	q := u.Query()
	q.Set("key", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) generate(ctx context.Context, apiKey, prompt string) ([]byte, error) {
	endpoint, err := c.endpoint(apiKey)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("classifier request: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("classifier request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", redactKey(err, apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("classifier request: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: summarize(string(body))}
	}
	return body, nil
}

// redactKey keeps the credential out of *url.Error messages, which quote the
// full request URL.
func redactKey(err error, apiKey string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{
			Op:  urlErr.Op,
			URL: strings.ReplaceAll(urlErr.URL, url.QueryEscape(apiKey), "REDACTED"),
			Err: urlErr.Err,
		}
	}
	return err
}

func summarize(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > 300 {
		return body[:300] + "..."
	}
	return body
}
