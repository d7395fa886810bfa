package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var testNow = time.UnixMilli(1700000000000)

func testCategories() []Category {
	return []Category{
		CommonCategory(),
		{ID: "x", Name: "Work", Icon: "Folder"},
		{ID: "y", Name: "Play", Icon: "Folder"},
	}
}

func TestAddLink(t *testing.T) {
	cats := testCategories()
	existing := []Link{
		ordered(link("a", "x", 1), 0),
		ordered(link("b", "x", 2), 4), // gap: highest order wins
		ordered(link("c", "y", 3), 0),
	}

	got, _, err := AddLink(existing, cats, NewLink{Title: "New", URL: "example.com", CategoryID: "x"}, testNow)
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}

	var added Link
	for _, l := range got {
		if l.Title == "New" {
			added = l
		}
	}
	if added.URL != "https://example.com" {
		t.Errorf("url = %q, want scheme prepended", added.URL)
	}
	if added.Order == nil || *added.Order != 5 {
		t.Errorf("order = %v, want 5 (appends after category max)", added.Order)
	}
	if added.CreatedAt != testNow.UnixMilli() {
		t.Errorf("createdAt = %d", added.CreatedAt)
	}
	if added.PinnedOrder != nil {
		t.Errorf("pinnedOrder = %v, want absent on a non-pinned link", added.PinnedOrder)
	}

	// New link lands at the end of its category's derived order.
	want := []string{"a", "b", "New"}
	gotIDs := []string{}
	for _, l := range CategoryOrdered(got, "x") {
		gotIDs = append(gotIDs, l.Title)
	}
	if !reflect.DeepEqual(gotIDs, want) {
		t.Errorf("category order = %v, want %v", gotIDs, want)
	}
}

func TestAddLinkPinned(t *testing.T) {
	cats := testCategories()
	existing := []Link{
		pinned(link("p", "x", 1), 0),
		ordered(link("n", "x", 2), 0),
	}

	got, _, err := AddLink(existing, cats, NewLink{Title: "P2", URL: "https://p2.test", CategoryID: "x", Pinned: true}, testNow)
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	var added Link
	for _, l := range got {
		if l.Title == "P2" {
			added = l
		}
	}
	if added.PinnedOrder == nil || *added.PinnedOrder != 1 {
		t.Errorf("pinnedOrder = %v, want 1 (appends to pinned view)", added.PinnedOrder)
	}
	// Pinned links stay a contiguous prefix of the stored array.
	if got[len(got)-1].Pinned {
		t.Errorf("pinned link stored after non-pinned tail: %v", ids(got))
	}
}

func TestAddLinkValidation(t *testing.T) {
	tests := []struct {
		name string
		data NewLink
	}{
		{"missing title", NewLink{URL: "https://x.test", CategoryID: "x"}},
		{"missing url", NewLink{Title: "X", CategoryID: "x"}},
		{"blank title", NewLink{Title: "   ", URL: "https://x.test", CategoryID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := AddLink(nil, testCategories(), tt.data, testNow); !errors.Is(err, ErrMissingField) {
				t.Errorf("err = %v, want ErrMissingField", err)
			}
		})
	}
}

func TestAddLinkUnknownCategoryFallsBackToCommon(t *testing.T) {
	got, _, err := AddLink(nil, testCategories(), NewLink{Title: "X", URL: "https://x.test", CategoryID: "ghost"}, testNow)
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if got[0].CategoryID != CommonCategoryID {
		t.Errorf("categoryId = %q, want common", got[0].CategoryID)
	}
}

func TestAddLinkIDUniqueAgainstExisting(t *testing.T) {
	existing := []Link{link("1700000000000", "x", 1)}
	got, _, err := AddLink(existing, testCategories(), NewLink{Title: "X", URL: "https://x.test", CategoryID: "x"}, testNow)
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	seen := map[string]bool{}
	for _, l := range got {
		if seen[l.ID] {
			t.Fatalf("duplicate id %q", l.ID)
		}
		seen[l.ID] = true
	}
}

func TestEditLink(t *testing.T) {
	links := []Link{ordered(link("a", "x", 1), 0)}
	got, _, err := EditLink(links, testCategories(), "a", NewLink{Title: "Renamed", URL: "renamed.test", CategoryID: "y"})
	if err != nil {
		t.Fatalf("EditLink: %v", err)
	}
	if got[0].Title != "Renamed" || got[0].URL != "https://renamed.test" || got[0].CategoryID != "y" {
		t.Errorf("edit result = %+v", got[0])
	}
	if links[0].Title != "a" {
		t.Errorf("input mutated: %+v", links[0])
	}
}

func TestEditLinkDeduplicatesByID(t *testing.T) {
	// A concurrent double-apply can leave two entries with the same id;
	// the edit keeps one, at the first position, with the last value.
	links := []Link{
		ordered(link("a", "x", 1), 0),
		ordered(link("b", "x", 2), 1),
		ordered(link("a", "x", 3), 2),
	}
	got, _, err := EditLink(links, testCategories(), "a", NewLink{Title: "Once", URL: "https://once.test", CategoryID: "x"})
	if err != nil {
		t.Fatalf("EditLink: %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
	if got[0].Title != "Once" || got[0].Order == nil || *got[0].Order != 2 {
		t.Errorf("kept entry = %+v, want last-applied version", got[0])
	}
}

func TestEditLinkUnpinClearsPinnedOrder(t *testing.T) {
	links := []Link{pinned(link("a", "x", 1), 0)}
	got, _, err := EditLink(links, testCategories(), "a", NewLink{Title: "a", URL: "https://a.test", CategoryID: "x", Pinned: false})
	if err != nil {
		t.Fatalf("EditLink: %v", err)
	}
	if got[0].Pinned || got[0].PinnedOrder != nil {
		t.Errorf("got %+v, want unpinned with pinnedOrder removed", got[0])
	}
}

func TestDeleteLinkKeepsOrderGaps(t *testing.T) {
	links := []Link{
		ordered(link("a", "x", 1), 0),
		ordered(link("b", "x", 2), 1),
		ordered(link("c", "x", 3), 2),
	}
	got, _, err := DeleteLink(links, testCategories(), "b")
	if err != nil {
		t.Fatalf("DeleteLink: %v", err)
	}
	if want := []string{"a", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
	if *got[1].Order != 2 {
		t.Errorf("order renumbered to %d, gaps must be kept", *got[1].Order)
	}
}

func TestBatchDeleteLinks(t *testing.T) {
	links := []Link{link("a", "x", 1), link("b", "x", 2), link("c", "y", 3)}
	got, _, err := BatchDeleteLinks(links, testCategories(), []string{"a", "c", "ghost"})
	if err != nil {
		t.Fatalf("BatchDeleteLinks: %v", err)
	}
	if want := []string{"b"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestTogglePinRoundTrip(t *testing.T) {
	// Pin then unpin: pinned returns to false and pinnedOrder ends up
	// absent, not restored. Deliberately not a full round-trip.
	links := []Link{ordered(link("a", "x", 1), 0)}
	cats := testCategories()

	oncePinned, _, err := TogglePin(links, cats, "a")
	if err != nil {
		t.Fatalf("TogglePin: %v", err)
	}
	if !oncePinned[0].Pinned || oncePinned[0].PinnedOrder == nil || *oncePinned[0].PinnedOrder != 0 {
		t.Fatalf("after pin: %+v", oncePinned[0])
	}

	unpinned, _, err := TogglePin(oncePinned, cats, "a")
	if err != nil {
		t.Fatalf("TogglePin: %v", err)
	}
	if unpinned[0].Pinned {
		t.Errorf("pinned = true after unpin")
	}
	if unpinned[0].PinnedOrder != nil {
		t.Errorf("pinnedOrder = %d after unpin, want removed", *unpinned[0].PinnedOrder)
	}
}

func TestRepinAppendsAtCurrentCount(t *testing.T) {
	// A pinned (order 0), B pinned (order 1); unpin A; re-pin A.
	// A's new pinnedOrder is 1 (just B is pinned at that moment), not
	// its old 0.
	links := []Link{
		pinned(link("A", "x", 1), 0),
		pinned(link("B", "x", 2), 1),
	}
	cats := testCategories()

	links, _, err := TogglePin(links, cats, "A")
	if err != nil {
		t.Fatalf("unpin: %v", err)
	}
	links, _, err = TogglePin(links, cats, "A")
	if err != nil {
		t.Fatalf("re-pin: %v", err)
	}

	var a Link
	for _, l := range links {
		if l.ID == "A" {
			a = l
		}
	}
	if a.PinnedOrder == nil || *a.PinnedOrder != 1 {
		t.Errorf("pinnedOrder = %v, want 1", a.PinnedOrder)
	}
}

func TestReorderWithinCategory(t *testing.T) {
	// Three links with orders [0,1,2]; move index 0 to index 2:
	// A was first, now last.
	links := []Link{
		ordered(link("A", "x", 1), 0),
		ordered(link("B", "x", 2), 1),
		ordered(link("C", "x", 3), 2),
		ordered(link("other", "y", 4), 7),
	}
	got, _, err := ReorderWithinCategory(links, testCategories(), "x", 0, 2)
	if err != nil {
		t.Fatalf("ReorderWithinCategory: %v", err)
	}

	byID := map[string]Link{}
	for _, l := range got {
		byID[l.ID] = l
	}
	for id, want := range map[string]int{"B": 0, "C": 1, "A": 2} {
		if o := byID[id].Order; o == nil || *o != want {
			t.Errorf("%s order = %v, want %d", id, o, want)
		}
	}
	if o := byID["other"].Order; o == nil || *o != 7 {
		t.Errorf("link outside the category touched: order = %v", o)
	}
}

func TestReorderWithinCategoryBounds(t *testing.T) {
	links := []Link{ordered(link("A", "x", 1), 0)}
	if _, _, err := ReorderWithinCategory(links, testCategories(), "x", 0, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestReorderPinned(t *testing.T) {
	links := []Link{
		pinned(link("p0", "x", 1), 0),
		pinned(link("p1", "x", 2), 1),
		pinned(link("p2", "y", 3), 2),
		ordered(link("n", "x", 4), 3),
	}
	got, _, err := ReorderPinned(links, testCategories(), 2, 0)
	if err != nil {
		t.Fatalf("ReorderPinned: %v", err)
	}

	// pinnedOrder values form exactly {0..n-1}, no duplicates or gaps.
	seen := map[int]string{}
	for _, l := range got {
		if !l.Pinned {
			continue
		}
		if l.PinnedOrder == nil {
			t.Fatalf("%s lost pinnedOrder", l.ID)
		}
		if prev, dup := seen[*l.PinnedOrder]; dup {
			t.Fatalf("pinnedOrder %d on both %s and %s", *l.PinnedOrder, prev, l.ID)
		}
		seen[*l.PinnedOrder] = l.ID
	}
	for i := 0; i < len(seen); i++ {
		if _, ok := seen[i]; !ok {
			t.Errorf("pinnedOrder gap at %d: %v", i, seen)
		}
	}
	if want := []string{"p2", "p0", "p1"}; !reflect.DeepEqual(ids(PinnedOrdered(got)), want) {
		t.Errorf("pinned view = %v, want %v", ids(PinnedOrdered(got)), want)
	}

	// Non-pinned links come through unchanged, and still sort by the
	// plain ascending category rule afterwards.
	for _, l := range got {
		if l.ID == "n" && (l.Order == nil || *l.Order != 3 || l.Pinned) {
			t.Errorf("non-pinned link modified: %+v", l)
		}
	}
	if want := []string{"n"}; !reflect.DeepEqual(ids(CategoryOrdered(got, AllCategoryID)), want) {
		t.Errorf("non-pinned partition = %v, want %v", ids(CategoryOrdered(got, AllCategoryID)), want)
	}
}

func TestBatchMoveKeepsOrderValues(t *testing.T) {
	links := []Link{
		ordered(link("a", "x", 1), 4),
		ordered(link("b", "x", 2), 5),
		ordered(link("c", "y", 3), 0),
	}
	got, _, err := BatchMove(links, testCategories(), []string{"a", "b"}, "y")
	if err != nil {
		t.Fatalf("BatchMove: %v", err)
	}
	for _, l := range got[:2] {
		if l.CategoryID != "y" {
			t.Errorf("%s categoryId = %q, want y", l.ID, l.CategoryID)
		}
	}
	// Stale order values are acceptable: order is re-derived per category.
	if *got[0].Order != 4 || *got[1].Order != 5 {
		t.Errorf("order values rewritten: %d, %d", *got[0].Order, *got[1].Order)
	}
}
