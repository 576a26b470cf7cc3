package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the application-status label assigned to a link after review.
type Status string

const (
	StatusUnset    Status = ""
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
	StatusNotFound Status = "not found"
	StatusAd       Status = "ad"
)

// Valid reports whether s is one of the known labels (unset included).
func (s Status) Valid() bool {
	switch s {
	case StatusUnset, StatusOpen, StatusClosed, StatusNotFound, StatusAd:
		return true
	}
	return false
}

// LinkRecord is one tracked scholarship link.
type LinkRecord struct {
	URL    string `json:"url" yaml:"url"`
	Status Status `json:"status,omitempty" yaml:"status,omitempty"`
	Saved  bool   `json:"saved,omitempty" yaml:"saved,omitempty"`
}

// UnmarshalJSON accepts both the object form and the legacy bare-string form
// ("https://...") that older stores contain.
func (r *LinkRecord) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return fmt.Errorf("failed to decode legacy link: %w", err)
		}
		*r = LinkRecord{URL: url}
		return nil
	}

	type plain LinkRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to decode link record: %w", err)
	}
	*r = LinkRecord(p)
	return nil
}

// ContainsURL reports whether links already holds url (exact string match).
func ContainsURL(links []LinkRecord, url string) bool {
	return IndexOfURL(links, url) >= 0
}

// IndexOfURL returns the index of the first record with url, or -1.
func IndexOfURL(links []LinkRecord, url string) int {
	for i, l := range links {
		if l.URL == url {
			return i
		}
	}
	return -1
}
