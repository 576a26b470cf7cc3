package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dtnitsch/scholarship-tracker/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestGetSetValue(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if _, ok, err := db.GetValue(ctx, "missing"); err != nil || ok {
		t.Fatalf("GetValue(missing) = ok %v, err %v", ok, err)
	}

	if err := db.SetValue(ctx, models.KeyAPIKey, []byte(`"k1"`)); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}
	if err := db.SetValue(ctx, models.KeyAPIKey, []byte(`"k2"`)); err != nil {
		t.Fatalf("SetValue() overwrite failed: %v", err)
	}

	got, ok, err := db.GetValue(ctx, models.KeyAPIKey)
	if err != nil || !ok {
		t.Fatalf("GetValue() = ok %v, err %v", ok, err)
	}
	if string(got) != `"k2"` {
		t.Errorf("GetValue() = %s, want \"k2\"", got)
	}

	if err := db.DeleteValue(ctx, models.KeyAPIKey); err != nil {
		t.Fatalf("DeleteValue() failed: %v", err)
	}
	if _, ok, _ := db.GetValue(ctx, models.KeyAPIKey); ok {
		t.Error("value still present after DeleteValue()")
	}
}

func TestUpdateValue(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	err := db.UpdateValue(ctx, "counter", func(current []byte, ok bool) ([]byte, error) {
		if ok {
			t.Errorf("first update saw existing value %s", current)
		}
		return []byte("1"), nil
	})
	if err != nil {
		t.Fatalf("UpdateValue() failed: %v", err)
	}

	err = db.UpdateValue(ctx, "counter", func(current []byte, ok bool) ([]byte, error) {
		if !ok || string(current) != "1" {
			t.Errorf("second update saw %q (ok=%v)", current, ok)
		}
		return []byte("2"), nil
	})
	if err != nil {
		t.Fatalf("UpdateValue() failed: %v", err)
	}

	got, _, _ := db.GetValue(ctx, "counter")
	if string(got) != "2" {
		t.Errorf("counter = %s, want 2", got)
	}
}

func TestUpdateValue_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if err := db.SetValue(ctx, "k", []byte("before")); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := db.UpdateValue(ctx, "k", func([]byte, bool) ([]byte, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("UpdateValue() error = %v, want %v", err, boom)
	}

	got, _, _ := db.GetValue(ctx, "k")
	if string(got) != "before" {
		t.Errorf("value = %s, want unchanged", got)
	}
}

func TestInsertAndListReviews(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []models.ReviewEntry{
		{RunID: "run-1", URL: "https://a.edu/s1", Index: 0, Status: models.StatusOpen, RawText: "open", Language: "en", ReviewedAt: base},
		{RunID: "run-1", URL: "https://b.org/s2", Index: 1, Error: "load timeout", ReviewedAt: base.Add(time.Minute)},
		{URL: "https://a.edu/s1", Index: 0, Status: models.StatusClosed, ReviewedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if _, err := db.InsertReview(ctx, e); err != nil {
			t.Fatalf("InsertReview() failed: %v", err)
		}
	}

	all, err := db.ListReviews(ctx, "", 10)
	if err != nil {
		t.Fatalf("ListReviews() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Status != models.StatusClosed {
		t.Errorf("newest status = %q, want closed", all[0].Status)
	}
	if all[1].Error != "load timeout" || all[1].Status != models.StatusUnset {
		t.Errorf("failed entry = %+v", all[1])
	}

	forA, err := db.ListReviews(ctx, "https://a.edu/s1", 10)
	if err != nil {
		t.Fatalf("ListReviews(url) failed: %v", err)
	}
	if len(forA) != 2 {
		t.Fatalf("len = %d, want 2", len(forA))
	}
	if forA[1].RunID != "run-1" || forA[1].Language != "en" {
		t.Errorf("oldest entry = %+v", forA[1])
	}

	limited, _ := db.ListReviews(ctx, "", 1)
	if len(limited) != 1 {
		t.Errorf("limit ignored: len = %d", len(limited))
	}
}

func TestNewNullString(t *testing.T) {
	if NewNullString("").Valid {
		t.Error("empty string should be NULL")
	}
	if ns := NewNullString("x"); !ns.Valid || ns.String != "x" {
		t.Errorf("NewNullString(x) = %+v", ns)
	}
}
