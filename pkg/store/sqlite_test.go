package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/scholarship-tracker/models"
	"github.com/dtnitsch/scholarship-tracker/pkg/db"
)

var _ KV = (*db.DB)(nil)

func TestStore_SQLiteBackend(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "links.db"))
	if err != nil {
		t.Fatalf("db.Open() failed: %v", err)
	}
	defer database.Close()

	s := New(database)
	ctx := context.Background()

	if _, added, err := s.Add(ctx, "https://a.edu/s1"); err != nil || !added {
		t.Fatalf("Add() added=%v err=%v", added, err)
	}
	if _, _, err := s.SetStatus(ctx, 0, "https://a.edu/s1", models.StatusOpen); err != nil {
		t.Fatalf("SetStatus() failed: %v", err)
	}

	links, err := s.Links(ctx)
	if err != nil {
		t.Fatalf("Links() failed: %v", err)
	}
	want := models.LinkRecord{URL: "https://a.edu/s1", Status: models.StatusOpen}
	if len(links) != 1 || links[0] != want {
		t.Errorf("links = %+v, want [%+v]", links, want)
	}

	if err := s.SetAPIKey(ctx, "secret"); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearAPIKey(ctx); err != nil {
		t.Fatalf("ClearAPIKey() failed: %v", err)
	}
	if key, err := s.APIKey(ctx); err != nil || key != "" {
		t.Errorf("APIKey() after clear = %q, %v", key, err)
	}
}
