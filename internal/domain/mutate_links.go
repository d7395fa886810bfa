package domain

import (
	"fmt"
	"strings"
	"time"
)

// Every mutator is a pure function over the full (links, categories) pair:
// it returns new slices and never modifies its inputs. The reconciler owns
// persisting whatever comes back.

// AddLink appends a new link at the end of its category's order. A pinned
// link additionally gets pinnedOrder = current pinned count and is spliced
// in front of the first non-pinned entry so pinned links stay a contiguous
// prefix of the stored array.
func AddLink(links []Link, categories []Category, data NewLink, now time.Time) ([]Link, []Category, error) {
	if strings.TrimSpace(data.Title) == "" || strings.TrimSpace(data.URL) == "" {
		return nil, nil, ErrMissingField
	}

	link := Link{
		ID:          newLinkID(links, now),
		Title:       data.Title,
		URL:         NormalizeURL(data.URL),
		Icon:        data.Icon,
		Description: data.Description,
		CategoryID:  resolveCategoryID(categories, data.CategoryID),
		CreatedAt:   now.UnixMilli(),
		Pinned:      data.Pinned,
	}

	// Append to the end of the category: one past the highest explicit
	// order among the category's non-pinned links.
	maxOrder := -1
	for _, l := range links {
		if l.Pinned {
			continue
		}
		if data.CategoryID != AllCategoryID && l.CategoryID != link.CategoryID {
			continue
		}
		o := 0
		if l.Order != nil {
			o = *l.Order
		}
		if o > maxOrder {
			maxOrder = o
		}
	}
	link.Order = intPtr(maxOrder + 1)

	if !link.Pinned {
		out := append(copyLinks(links), link)
		return DisplaySorted(out), copyCategories(categories), nil
	}

	link.PinnedOrder = intPtr(countPinned(links))
	out := copyLinks(links)
	at := len(out)
	for i, l := range out {
		if !l.Pinned {
			at = i
			break
		}
	}
	out = append(out[:at:at], append([]Link{link}, out[at:]...)...)
	return out, copyCategories(categories), nil
}

// EditLink replaces the editable fields of the link with the given ID,
// re-normalizing the URL. The result is de-duplicated by ID keeping the
// last-applied version, guarding against a double-apply having produced
// two entries with the same ID.
func EditLink(links []Link, categories []Category, id string, data NewLink) ([]Link, []Category, error) {
	if strings.TrimSpace(data.Title) == "" || strings.TrimSpace(data.URL) == "" {
		return nil, nil, ErrMissingField
	}

	found := false
	out := copyLinks(links)
	for i, l := range out {
		if l.ID != id {
			continue
		}
		found = true
		l.Title = data.Title
		l.URL = NormalizeURL(data.URL)
		l.Icon = data.Icon
		l.Description = data.Description
		l.CategoryID = resolveCategoryID(categories, data.CategoryID)
		if l.Pinned != data.Pinned {
			if data.Pinned {
				l.PinnedOrder = intPtr(countPinned(links))
			} else {
				l.PinnedOrder = nil
			}
		}
		l.Pinned = data.Pinned
		out[i] = l
	}
	if !found {
		return nil, nil, fmt.Errorf("edit %q: %w", id, ErrLinkNotFound)
	}
	return dedupeByID(out), copyCategories(categories), nil
}

// dedupeByID keeps one entry per ID: the position of the first occurrence,
// the value of the last.
func dedupeByID(links []Link) []Link {
	pos := make(map[string]int, len(links))
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if i, ok := pos[l.ID]; ok {
			out[i] = l
			continue
		}
		pos[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}

// DeleteLink removes a link by ID. Remaining order values keep their gaps;
// order is re-derived per category at render time.
func DeleteLink(links []Link, categories []Category, id string) ([]Link, []Category, error) {
	return BatchDeleteLinks(links, categories, []string{id})
}

// BatchDeleteLinks removes every link whose ID is in ids.
func BatchDeleteLinks(links []Link, categories []Category, ids []string) ([]Link, []Category, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if !drop[l.ID] {
			out = append(out, l)
		}
	}
	return out, copyCategories(categories), nil
}

// TogglePin flips the pinned flag. Pinning appends to the end of the
// pinned order; unpinning deletes pinnedOrder entirely so a later re-pin
// starts fresh instead of resurrecting a stale position.
func TogglePin(links []Link, categories []Category, id string) ([]Link, []Category, error) {
	found := false
	out := copyLinks(links)
	for i, l := range out {
		if l.ID != id {
			continue
		}
		found = true
		l.Pinned = !l.Pinned
		if l.Pinned {
			l.PinnedOrder = intPtr(countPinned(links))
		} else {
			l.PinnedOrder = nil
		}
		out[i] = l
	}
	if !found {
		return nil, nil, fmt.Errorf("toggle pin %q: %w", id, ErrLinkNotFound)
	}
	return out, copyCategories(categories), nil
}

// ReorderWithinCategory moves one entry of the category-scoped ordered
// sub-list from fromIndex to toIndex (remove-and-reinsert) and rewrites
// order = index for everything in the sub-list. Links outside the
// sub-list are untouched.
func ReorderWithinCategory(links []Link, categories []Category, categoryID string, fromIndex, toIndex int) ([]Link, []Category, error) {
	sub := CategoryOrdered(links, categoryID)
	sub, err := move(sub, fromIndex, toIndex)
	if err != nil {
		return nil, nil, err
	}
	newOrder := make(map[string]int, len(sub))
	for i, l := range sub {
		newOrder[l.ID] = i
	}

	out := copyLinks(links)
	for i, l := range out {
		if idx, ok := newOrder[l.ID]; ok {
			l.Order = intPtr(idx)
			out[i] = l
		}
	}
	return out, copyCategories(categories), nil
}

// ReorderPinned moves one entry of the pinned sub-list and rewrites
// pinnedOrder = index for every pinned link, yielding the dense range
// 0..n-1. Non-pinned links come through byte-for-byte unchanged.
func ReorderPinned(links []Link, categories []Category, fromIndex, toIndex int) ([]Link, []Category, error) {
	sub := PinnedOrdered(links)
	sub, err := move(sub, fromIndex, toIndex)
	if err != nil {
		return nil, nil, err
	}
	newOrder := make(map[string]int, len(sub))
	for i, l := range sub {
		newOrder[l.ID] = i
	}

	out := copyLinks(links)
	for i, l := range out {
		if idx, ok := newOrder[l.ID]; ok {
			l.PinnedOrder = intPtr(idx)
			out[i] = l
		}
	}
	return out, copyCategories(categories), nil
}

// BatchMove reassigns the category of every link in ids. Order values are
// left alone: they may only be meaningful in the old category, which is
// fine because order is always re-derived per category.
func BatchMove(links []Link, categories []Category, ids []string, targetCategoryID string) ([]Link, []Category, error) {
	target := resolveCategoryID(categories, targetCategoryID)
	sel := make(map[string]bool, len(ids))
	for _, id := range ids {
		sel[id] = true
	}
	out := copyLinks(links)
	for i, l := range out {
		if sel[l.ID] {
			l.CategoryID = target
			out[i] = l
		}
	}
	return out, copyCategories(categories), nil
}

// move performs remove-and-reinsert on a copy of s.
func move(s []Link, from, to int) ([]Link, error) {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) {
		return nil, fmt.Errorf("move %d -> %d in %d entries: %w", from, to, len(s), ErrIndexOutOfRange)
	}
	out := make([]Link, 0, len(s))
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)
	out = append(out[:to:to], append([]Link{s[from]}, out[to:]...)...)
	return out, nil
}
