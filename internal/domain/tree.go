package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCategoryID = errors.New("duplicate category id")
	ErrMissingCommon       = errors.New("common category is missing")
	ErrTreeTooDeep         = errors.New("category tree deeper than two levels")
	ErrDanglingParent      = errors.New("parent category does not exist")
	ErrSelfParent          = errors.New("category cannot be its own parent")
)

// ValidateCategoryTree checks the structural invariants of the category
// set after every category mutation, instead of trusting callers to never
// build a bad tree:
//
//   - IDs are unique and exactly one category is "common"
//   - every ParentID references an existing top-level category, which
//     bounds the tree at two levels and rules out cycles
//   - IsSubcategory agrees with ParentID
func ValidateCategoryTree(categories []Category) error {
	byID := make(map[string]Category, len(categories))
	for _, c := range categories {
		if _, dup := byID[c.ID]; dup {
			return fmt.Errorf("category %q: %w", c.ID, ErrDuplicateCategoryID)
		}
		byID[c.ID] = c
	}
	if _, ok := byID[CommonCategoryID]; !ok {
		return ErrMissingCommon
	}

	for _, c := range categories {
		if c.ParentID == "" {
			if c.IsSubcategory {
				return fmt.Errorf("category %q marked subcategory without parent", c.ID)
			}
			continue
		}
		if c.ParentID == c.ID {
			return fmt.Errorf("category %q: %w", c.ID, ErrSelfParent)
		}
		parent, ok := byID[c.ParentID]
		if !ok {
			return fmt.Errorf("category %q parent %q: %w", c.ID, c.ParentID, ErrDanglingParent)
		}
		if parent.ParentID != "" {
			return fmt.Errorf("category %q under %q: %w", c.ID, c.ParentID, ErrTreeTooDeep)
		}
		if !c.IsSubcategory {
			return fmt.Errorf("category %q has parent but is not marked subcategory", c.ID)
		}
	}
	return nil
}

// Children returns the direct children of a category in array order.
func Children(categories []Category, parentID string) []Category {
	var out []Category
	for _, c := range categories {
		if c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out
}
