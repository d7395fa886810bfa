package search

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/eallion/cloudnav/internal/domain"
)

func intPtr(v int) *int { return &v }

func testLinks() []domain.Link {
	return []domain.Link{
		{ID: "blog", Title: "Blog", URL: "https://blog.test", Description: "personal writing", CategoryID: "common", CreatedAt: 3, Order: intPtr(0)},
		{ID: "mail", Title: "Gmail", URL: "https://mail.google.com", CategoryID: "common", CreatedAt: 1, Order: intPtr(1), Pinned: true, PinnedOrder: intPtr(0)},
		{ID: "maps", Title: "Maps", URL: "https://maps.google.com", CategoryID: "tools", CreatedAt: 2, Order: intPtr(0)},
		{ID: "ci", Title: "Build Server", URL: "https://ci.internal.test", Description: "google cloud build", CategoryID: "tools", CreatedAt: 4, Order: intPtr(1)},
	}
}

func ids(links []domain.Link) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.ID
	}
	return out
}

func TestFilterEmptyQueryReturnsNaturalOrder(t *testing.T) {
	got := Filter(testLinks(), "")
	assert.DeepEqual(t, ids(got), []string{"mail", "blog", "maps", "ci"})
}

func TestFilterPinnedPartitionFirst(t *testing.T) {
	// "google" matches the pinned mail link and two non-pinned links;
	// the pinned match surfaces first, the rest keep natural order.
	got := Filter(testLinks(), "google")
	assert.DeepEqual(t, ids(got), []string{"mail", "maps", "ci"})
}

func TestFilterMatchesTitleURLAndDescription(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title", "blog", []string{"blog"}},
		{"url", "ci.internal", []string{"ci"}},
		{"description", "writing", []string{"blog"}},
		{"case insensitive", "GMAIL", []string{"mail"}},
		{"no match", "zzz-none", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.DeepEqual(t, ids(Filter(testLinks(), tt.query)), tt.want)
		})
	}
}

func TestFilterFuzzyFallback(t *testing.T) {
	// No substring hit, but the abbreviation still finds the link.
	got := Filter(testLinks(), "bld srv")
	assert.Assert(t, len(got) >= 1)
	assert.Equal(t, got[0].ID, "ci")
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	links := testLinks()
	before := ids(links)
	_ = Filter(links, "google")
	assert.DeepEqual(t, ids(links), before)
}
