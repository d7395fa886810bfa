package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eallion/cloudnav/internal/domain"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "data.json"))

	order := 3
	snap := Snapshot{
		Links: []domain.Link{
			{ID: "a", Title: "A", URL: "https://a.test", CategoryID: "common", CreatedAt: 1, Order: &order},
		},
		Categories: []domain.Category{domain.CommonCategory()},
	}
	if err := c.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := c.Load()
	if !ok {
		t.Fatal("Load: ok = false")
	}
	if len(got.Links) != 1 || got.Links[0].Order == nil || *got.Links[0].Order != 3 {
		t.Errorf("loaded %+v, want order pointer to survive the round trip", got.Links)
	}
	if len(got.Categories) != 1 || got.Categories[0].ID != domain.CommonCategoryID {
		t.Errorf("categories = %+v", got.Categories)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "absent.json"))
	if _, ok := c.Load(); ok {
		t.Error("ok = true for a missing file")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := New(path).Load(); ok {
		t.Error("ok = true for a corrupt file")
	}
}

func TestSaveReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	c := New(path)
	if err := c.Save(Snapshot{Categories: []domain.Category{domain.CommonCategory()}}); err != nil {
		t.Fatal(err)
	}
	if err := c.Save(Snapshot{Categories: []domain.Category{domain.CommonCategory(), {ID: "x", Name: "X", Icon: "F"}}}); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Load()
	if !ok || len(got.Categories) != 2 {
		t.Errorf("second save not visible: %+v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}
}
