package domain

import (
	"reflect"
	"testing"
)

func link(id, categoryID string, createdAt int64) Link {
	return Link{ID: id, Title: id, URL: "https://" + id + ".test", CategoryID: categoryID, CreatedAt: createdAt}
}

func ordered(l Link, order int) Link {
	l.Order = intPtr(order)
	return l
}

func pinned(l Link, pinnedOrder int) Link {
	l.Pinned = true
	l.PinnedOrder = intPtr(pinnedOrder)
	return l
}

func pinnedNoOrder(l Link) Link {
	l.Pinned = true
	return l
}

func ids(links []Link) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.ID
	}
	return out
}

func TestCategoryOrdered(t *testing.T) {
	links := []Link{
		ordered(link("b", "x", 200), 1),
		ordered(link("a", "x", 100), 0),
		link("legacy", "x", 50), // no order, falls back to createdAt
		ordered(link("other", "y", 10), 0),
		pinned(ordered(link("pin", "x", 1), 0), 0),
	}

	tests := []struct {
		name       string
		categoryID string
		want       []string
	}{
		{"single category excludes pinned", "x", []string{"legacy", "a", "b"}},
		{"all pseudo-category spans categories", AllCategoryID, []string{"other", "legacy", "a", "b"}},
		{"empty category", "z", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(CategoryOrdered(links, tt.categoryID))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CategoryOrdered(%q) = %v, want %v", tt.categoryID, got, tt.want)
			}
		})
	}
}

func TestCategoryOrderedIsStableAndIdempotent(t *testing.T) {
	// Two links with the same effective key must keep input order,
	// and sorting a sorted list must not move anything.
	links := []Link{
		ordered(link("first", "x", 1), 5),
		ordered(link("second", "x", 2), 5),
		ordered(link("third", "x", 3), 2),
	}

	once := CategoryOrdered(links, "x")
	twice := CategoryOrdered(once, "x")

	want := []string{"third", "first", "second"}
	if got := ids(once); !reflect.DeepEqual(got, want) {
		t.Fatalf("sort = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("sort not idempotent: %v then %v", ids(once), ids(twice))
	}
}

func TestCategoryOrderedDoesNotMutateInput(t *testing.T) {
	links := []Link{
		ordered(link("b", "x", 2), 1),
		ordered(link("a", "x", 1), 0),
	}
	before := ids(links)
	_ = CategoryOrdered(links, "x")
	if got := ids(links); !reflect.DeepEqual(got, before) {
		t.Errorf("input reordered: %v, want %v", got, before)
	}
}

func TestPinnedOrdered(t *testing.T) {
	links := []Link{
		pinned(link("second", "x", 10), 1),
		pinned(link("first", "y", 20), 0),
		pinnedNoOrder(link("legacyNew", "x", 400)),
		pinnedNoOrder(link("legacyOld", "x", 300)),
		ordered(link("plain", "x", 1), 0),
	}

	// Links without pinnedOrder sort before links that have one,
	// earliest created first.
	want := []string{"legacyOld", "legacyNew", "first", "second"}
	if got := ids(PinnedOrdered(links)); !reflect.DeepEqual(got, want) {
		t.Errorf("PinnedOrdered = %v, want %v", got, want)
	}
}

func TestPartitionPinnedFirst(t *testing.T) {
	links := []Link{
		ordered(link("n1", "x", 1), 0),
		pinned(link("p1", "x", 2), 0),
		ordered(link("n2", "x", 3), 1),
		pinned(link("p2", "x", 4), 1),
	}
	want := []string{"p1", "p2", "n1", "n2"}
	if got := ids(PartitionPinnedFirst(links)); !reflect.DeepEqual(got, want) {
		t.Errorf("PartitionPinnedFirst = %v, want %v", got, want)
	}
}
