package caching

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Cache stores fetched page HTML on disk for ttl. A zero ttl disables it.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if ttl > 0 {
		if err := os.MkdirAll(path, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	return &Cache{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}, nil
}

// Enabled reports whether entries are kept at all.
func (c *Cache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// key hashes the URL without its fragment; fragments never change the page
// the server returns.
func (c *Cache) key(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		u.Fragment = ""
		rawURL = u.String()
	}
	hash := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("%x", hash)
}

// Get returns the cached body for url when present and younger than ttl.
func (c *Cache) Get(url string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	filePath := filepath.Join(c.path, c.key(url))

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}

	if c.now().Sub(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, false
	}

	return data, true
}

// Set stores data for url. It is a no-op when the cache is disabled.
func (c *Cache) Set(url string, data []byte) error {
	if !c.Enabled() {
		return nil
	}
	filePath := filepath.Join(c.path, c.key(url))
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
