package domain

import "sort"

// EffectiveOrder is the sort key inside a category: the explicit order
// when present, otherwise the creation timestamp (back-compat for links
// created before order existed).
func EffectiveOrder(l Link) int64 {
	if l.Order != nil {
		return int64(*l.Order)
	}
	return l.CreatedAt
}

// CategoryOrdered returns the non-pinned links of a category (or of every
// category for AllCategoryID), stably sorted ascending by EffectiveOrder.
// The input slice is never reordered.
func CategoryOrdered(links []Link, categoryID string) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if l.Pinned {
			continue
		}
		if categoryID == AllCategoryID || l.CategoryID == categoryID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return EffectiveOrder(out[i]) < EffectiveOrder(out[j])
	})
	return out
}

// PinnedOrdered returns the pinned links stably sorted for the pinned view:
// ascending by pinnedOrder; links without a pinnedOrder sort before links
// that have one; among them, earliest created wins.
func PinnedOrdered(links []Link) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if l.Pinned {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.PinnedOrder != nil && b.PinnedOrder != nil:
			return *a.PinnedOrder < *b.PinnedOrder
		case a.PinnedOrder == nil && b.PinnedOrder != nil:
			return true
		case a.PinnedOrder != nil && b.PinnedOrder == nil:
			return false
		default:
			return a.CreatedAt < b.CreatedAt
		}
	})
	return out
}

// PartitionPinnedFirst stably moves pinned links in front of non-pinned
// ones, keeping the relative order inside each partition. Used by search
// results, where pinned matches surface first.
func PartitionPinnedFirst(links []Link) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if l.Pinned {
			out = append(out, l)
		}
	}
	for _, l := range links {
		if !l.Pinned {
			out = append(out, l)
		}
	}
	return out
}

// DisplaySorted orders a full link slice the way the stored array is kept:
// pinned links first by the pinned-view rule, then the rest ascending by
// EffectiveOrder.
func DisplaySorted(links []Link) []Link {
	pinned := PinnedOrdered(links)
	rest := CategoryOrdered(links, AllCategoryID)
	return append(pinned, rest...)
}
