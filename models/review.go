package models

import "time"

// ReviewEntry records one classification attempt.
type ReviewEntry struct {
	ID         int64     `json:"id" yaml:"id"`
	RunID      string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	URL        string    `json:"url" yaml:"url"`
	Index      int       `json:"index" yaml:"index"`
	Status     Status    `json:"status,omitempty" yaml:"status,omitempty"`
	RawText    string    `json:"raw_text,omitempty" yaml:"raw_text,omitempty"`
	Language   string    `json:"language,omitempty" yaml:"language,omitempty"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at" yaml:"reviewed_at"`
}

// Succeeded reports whether the attempt produced a label.
func (e ReviewEntry) Succeeded() bool {
	return e.Error == "" && e.Status != StatusUnset
}
