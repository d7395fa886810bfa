// Package search implements the internal free-text filter over links.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/eallion/cloudnav/internal/domain"
)

// haystack adapts a link slice to fuzzy.Source; each link is matched on
// its title, URL and description joined together.
type haystack []domain.Link

func (h haystack) String(i int) string {
	l := h[i]
	return strings.ToLower(l.Title + " " + l.URL + " " + l.Description)
}

func (h haystack) Len() int { return len(h) }

// Filter returns the links matching the query, pinned matches stably
// first, each partition keeping its natural category order. An empty
// query returns everything in natural order.
//
// Matching is substring on title/URL/description first (what users type
// most of the time), widened by fuzzy matching for abbreviated queries.
func Filter(links []domain.Link, query string) []domain.Link {
	query = strings.TrimSpace(strings.ToLower(query))
	natural := append(domain.PinnedOrdered(links), domain.CategoryOrdered(links, domain.AllCategoryID)...)
	if query == "" {
		return natural
	}

	matched := make(map[string]bool, len(natural))
	for _, l := range natural {
		if substringMatch(l, query) {
			matched[l.ID] = true
		}
	}
	if len(matched) == 0 {
		for _, m := range fuzzy.FindFrom(query, haystack(natural)) {
			matched[natural[m.Index].ID] = true
		}
	}

	out := make([]domain.Link, 0, len(matched))
	for _, l := range natural {
		if matched[l.ID] {
			out = append(out, l)
		}
	}
	return out
}

func substringMatch(l domain.Link, query string) bool {
	return strings.Contains(strings.ToLower(l.Title), query) ||
		strings.Contains(strings.ToLower(l.URL), query) ||
		strings.Contains(strings.ToLower(l.Description), query)
}
