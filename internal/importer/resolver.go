package importer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eallion/cloudnav/internal/domain"
)

// DuplicateMode decides what happens to an imported link whose URL
// already exists in the collection. URLs are compared after trimming
// and stripping a trailing slash.
type DuplicateMode string

const (
	// DuplicateSkip drops the incoming link.
	DuplicateSkip DuplicateMode = "skip"
	// DuplicateOverwrite replaces the existing link's fields with the
	// incoming ones, keeping its identity, URL and pinned position.
	DuplicateOverwrite DuplicateMode = "overwrite"
	// DuplicateAdd keeps both, marking the incoming title as a copy.
	DuplicateAdd DuplicateMode = "add"
	// DuplicateMerge prefers the incoming field values, falling back to
	// the existing ones where the incoming field is empty, keeping
	// identity, URL and pinned position.
	DuplicateMerge DuplicateMode = "merge"
)

// Placement decides where imported links land.
type Placement string

const (
	// PlacementOriginal recreates the file's folder structure, reusing
	// existing categories with the same name.
	PlacementOriginal Placement = "original"
	// PlacementFlatten puts every imported link into one target
	// category and ignores the file's folders.
	PlacementFlatten Placement = "flatten"
)

const copySuffix = " (副本)"

type Options struct {
	Duplicates DuplicateMode
	Placement  Placement

	// TargetCategoryID receives all links under PlacementFlatten.
	// Empty or unknown falls back to the common category.
	TargetCategoryID string
}

// Summary reports what Resolve did.
type Summary struct {
	Added         int
	Duplicates    int
	NewCategories int
}

// Resolve merges a parsed import into the existing collection and
// returns the complete new collection. Inputs are not modified.
// Running the same import twice with DuplicateSkip is a no-op the
// second time.
func Resolve(links []domain.Link, categories []domain.Category, parsed ParseResult, opts Options) ([]domain.Link, []domain.Category, Summary, error) {
	out := make([]domain.Link, len(links))
	copy(out, links)
	outCats := make([]domain.Category, len(categories))
	copy(outCats, categories)

	byURL := make(map[string]int, len(out))
	for i, l := range out {
		byURL[domain.NormalizeURLKey(l.URL)] = i
	}

	var summary Summary
	var additions []domain.Link

	for _, nl := range parsed.Links {
		idx, dup := byURL[domain.NormalizeURLKey(nl.URL)]
		if !dup {
			additions = append(additions, nl)
			continue
		}
		summary.Duplicates++
		existing := out[idx]
		switch opts.Duplicates {
		case DuplicateOverwrite:
			out[idx] = overwriteLink(existing, nl)
		case DuplicateMerge:
			out[idx] = mergeLink(existing, nl)
		case DuplicateAdd:
			cp := nl
			cp.ID = uuid.NewString()
			if !strings.Contains(cp.Title, copySuffix) {
				cp.Title += copySuffix
			}
			cp.CreatedAt = time.Now().UnixMilli()
			additions = append(additions, cp)
		default: // DuplicateSkip
		}
	}

	switch opts.Placement {
	case PlacementFlatten:
		target := opts.TargetCategoryID
		if _, ok := domain.CategoryByID(outCats, target); !ok {
			target = domain.CommonCategoryID
		}
		for i := range additions {
			additions[i].CategoryID = target
		}
	default: // PlacementOriginal
		var added int
		additions, outCats, added = placeOriginal(additions, outCats, parsed.Categories)
		summary.NewCategories = added
	}

	out = append(out, additions...)
	summary.Added = len(additions)

	if err := domain.ValidateCategoryTree(outCats); err != nil {
		return nil, nil, Summary{}, err
	}
	return out, outCats, summary, nil
}

// placeOriginal adds the file's categories to the collection, reusing
// existing ones by name, and rewrites the added links to the final
// category IDs.
func placeOriginal(additions []domain.Link, existing, parsed []domain.Category) ([]domain.Link, []domain.Category, int) {
	nameToID := make(map[string]string, len(existing))
	for _, c := range existing {
		nameToID[c.Name] = c.ID
	}
	knownID := make(map[string]bool, len(existing))
	for _, c := range existing {
		knownID[c.ID] = true
	}

	// Imported category ID -> final ID in the merged collection.
	idMap := make(map[string]string, len(parsed))
	var added int
	for _, pc := range parsed {
		if id, ok := nameToID[pc.Name]; ok {
			idMap[pc.ID] = id
			continue
		}
		idMap[pc.ID] = pc.ID
		nameToID[pc.Name] = pc.ID
		if pc.ParentID != "" {
			if mapped, ok := idMap[pc.ParentID]; ok {
				pc.ParentID = mapped
			}
		}
		existing = append(existing, pc)
		knownID[pc.ID] = true
		added++
	}

	for i := range additions {
		if mapped, ok := idMap[additions[i].CategoryID]; ok {
			additions[i].CategoryID = mapped
		} else if !knownID[additions[i].CategoryID] {
			additions[i].CategoryID = domain.CommonCategoryID
		}
	}
	return additions, existing, added
}

// overwriteLink replaces the stored fields with the incoming ones. The
// existing identity, URL and pinned position survive so ordering stays
// intact. The pinned flag comes from the incoming link, so overwriting
// with an unpinned import can leave an unpinned link still carrying its
// old pinnedOrder slot; the slot is renumbered on the next pin change.
func overwriteLink(existing, incoming domain.Link) domain.Link {
	next := incoming
	next.ID = existing.ID
	next.URL = existing.URL
	next.PinnedOrder = existing.PinnedOrder
	next.Order = existing.Order
	if next.Title == "" {
		next.Title = existing.Title
	}
	if next.CreatedAt == 0 {
		next.CreatedAt = existing.CreatedAt
	}
	if next.CategoryID == "" {
		next.CategoryID = existing.CategoryID
	}
	return next
}

// mergeLink takes each incoming field when it carries a value and falls
// back to the stored one when it is empty. Identity, URL, placement and
// pinned position always come from the existing link.
func mergeLink(existing, incoming domain.Link) domain.Link {
	next := existing
	if incoming.Title != "" {
		next.Title = incoming.Title
	}
	if incoming.Icon != "" {
		next.Icon = incoming.Icon
	}
	if incoming.Description != "" {
		next.Description = incoming.Description
	}
	return next
}
