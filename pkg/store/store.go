// Package store is the link store and settings service. Every mutation is a
// single read-modify-write against the underlying key/value backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/scholarship-tracker/models"
)

var (
	ErrIndexOutOfRange = errors.New("link index out of range")
	ErrEmptyURL        = errors.New("url is empty")
)

// KV is the persistence the store needs. *db.DB satisfies it.
type KV interface {
	GetValue(ctx context.Context, key string) ([]byte, bool, error)
	SetValue(ctx context.Context, key string, value []byte) error
	UpdateValue(ctx context.Context, key string, fn func(current []byte, ok bool) ([]byte, error)) error
	DeleteValue(ctx context.Context, key string) error
}

// Store exposes the link list and settings.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Links returns the current link list. A store that was never written is empty.
func (s *Store) Links(ctx context.Context) ([]models.LinkRecord, error) {
	raw, ok, err := s.kv.GetValue(ctx, models.KeyLinks)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.LinkRecord{}, nil
	}
	return decodeLinks(raw)
}

// Load returns the link list after rewriting it in object form, converting any
// legacy bare-string entries.
func (s *Store) Load(ctx context.Context) ([]models.LinkRecord, error) {
	return s.Update(ctx, func(links []models.LinkRecord) ([]models.LinkRecord, error) {
		return links, nil
	})
}

// Update applies fn to a freshly read copy of the link list and persists the
// result atomically. It returns the persisted list.
func (s *Store) Update(ctx context.Context, fn func(links []models.LinkRecord) ([]models.LinkRecord, error)) ([]models.LinkRecord, error) {
	var result []models.LinkRecord
	err := s.kv.UpdateValue(ctx, models.KeyLinks, func(current []byte, ok bool) ([]byte, error) {
		links := []models.LinkRecord{}
		if ok {
			decoded, err := decodeLinks(current)
			if err != nil {
				return nil, err
			}
			links = decoded
		}

		next, err := fn(links)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []models.LinkRecord{}
		}

		encoded, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("failed to encode links: %w", err)
		}
		result = next
		return encoded, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Add appends url unless an identical URL is already stored.
// The boolean reports whether the store changed.
func (s *Store) Add(ctx context.Context, url string) ([]models.LinkRecord, bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, false, ErrEmptyURL
	}

	added := false
	links, err := s.Update(ctx, func(links []models.LinkRecord) ([]models.LinkRecord, error) {
		if models.ContainsURL(links, url) {
			return links, nil
		}
		added = true
		return append(links, models.LinkRecord{URL: url}), nil
	})
	if err != nil {
		return nil, false, err
	}
	return links, added, nil
}

// Import appends every url not already stored, in order, and returns the
// URLs that were new. Repeats within urls are added once.
func (s *Store) Import(ctx context.Context, urls []string) ([]models.LinkRecord, []string, error) {
	var added []string
	links, err := s.Update(ctx, func(links []models.LinkRecord) ([]models.LinkRecord, error) {
		added = added[:0]
		for _, u := range urls {
			if u == "" || models.ContainsURL(links, u) {
				continue
			}
			links = append(links, models.LinkRecord{URL: u})
			added = append(added, u)
		}
		return links, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return links, added, nil
}

// Remove deletes the record at index i, keeping the order of the rest.
func (s *Store) Remove(ctx context.Context, i int) ([]models.LinkRecord, error) {
	return s.Update(ctx, func(links []models.LinkRecord) ([]models.LinkRecord, error) {
		if i < 0 || i >= len(links) {
			return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(links))
		}
		return append(links[:i:i], links[i+1:]...), nil
	})
}

// ToggleSaved flips the saved flag of the record at index i.
func (s *Store) ToggleSaved(ctx context.Context, i int) ([]models.LinkRecord, error) {
	return s.Update(ctx, func(links []models.LinkRecord) ([]models.LinkRecord, error) {
		if i < 0 || i >= len(links) {
			return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(links))
		}
		links[i].Saved = !links[i].Saved
		return links, nil
	})
}

// SetStatus writes status for url. The record at index i is used when it still
// holds url; otherwise the first record with url is. The boolean is false when
// url is no longer stored.
func (s *Store) SetStatus(ctx context.Context, i int, url string, status models.Status) ([]models.LinkRecord, bool, error) {
	if !status.Valid() {
		return nil, false, fmt.Errorf("invalid status %q", status)
	}

	found := false
	links, err := s.Update(ctx, func(links []models.LinkRecord) ([]models.LinkRecord, error) {
		target := i
		if target < 0 || target >= len(links) || links[target].URL != url {
			target = models.IndexOfURL(links, url)
		}
		if target < 0 {
			return links, nil
		}
		found = true
		links[target].Status = status
		return links, nil
	})
	if err != nil {
		return nil, false, err
	}
	return links, found, nil
}

// APIKey returns the stored credential, or "" when unset.
func (s *Store) APIKey(ctx context.Context) (string, error) {
	return s.getString(ctx, models.KeyAPIKey)
}

// SetAPIKey stores the credential.
func (s *Store) SetAPIKey(ctx context.Context, key string) error {
	return s.setString(ctx, models.KeyAPIKey, key)
}

// ClearAPIKey forgets the credential. Clearing an unset key is not an error.
func (s *Store) ClearAPIKey(ctx context.Context) error {
	return s.kv.DeleteValue(ctx, models.KeyAPIKey)
}

// Resume returns the stored resume text.
func (s *Store) Resume(ctx context.Context) (string, error) {
	return s.getString(ctx, models.KeyResume)
}

// SetResume stores the resume text.
func (s *Store) SetResume(ctx context.Context, text string) error {
	return s.setString(ctx, models.KeyResume, text)
}

func (s *Store) getString(ctx context.Context, key string) (string, error) {
	raw, ok, err := s.kv.GetValue(ctx, key)
	if err != nil || !ok {
		return "", err
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) setString(ctx context.Context, key, value string) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.kv.SetValue(ctx, key, encoded)
}

func decodeLinks(raw []byte) ([]models.LinkRecord, error) {
	var links []models.LinkRecord
	if err := json.Unmarshal(raw, &links); err != nil {
		return nil, fmt.Errorf("failed to decode links: %w", err)
	}
	if links == nil {
		links = []models.LinkRecord{}
	}
	return links, nil
}
