package domain

import (
	"fmt"
	"strings"
)

// CommonCategory is the protected fallback category, recreated whenever it
// goes missing.
func CommonCategory() Category {
	return Category{ID: CommonCategoryID, Name: "常用推荐", Icon: "Star"}
}

// CategoryData carries the user-editable fields of a category.
type CategoryData struct {
	Name          string
	Icon          string
	Password      string
	ParentID      string
	IsSubcategory bool
}

// AddCategory appends a category. The caller may supply an ID (import
// path); an empty ID is rejected here because ID generation is the
// caller's concern.
func AddCategory(links []Link, categories []Category, c Category) ([]Link, []Category, error) {
	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
		return nil, nil, ErrMissingField
	}
	c.IsSubcategory = c.ParentID != ""
	out := append(copyCategories(categories), c)
	if err := ValidateCategoryTree(out); err != nil {
		return nil, nil, err
	}
	return copyLinks(links), out, nil
}

// EditCategory replaces the editable fields of the category with the
// given ID.
func EditCategory(links []Link, categories []Category, id string, data CategoryData) ([]Link, []Category, error) {
	if strings.TrimSpace(data.Name) == "" {
		return nil, nil, ErrMissingField
	}
	found := false
	out := copyCategories(categories)
	for i, c := range out {
		if c.ID != id {
			continue
		}
		found = true
		c.Name = data.Name
		c.Icon = data.Icon
		c.Password = data.Password
		c.ParentID = data.ParentID
		c.IsSubcategory = data.ParentID != ""
		out[i] = c
	}
	if !found {
		return nil, nil, fmt.Errorf("edit category %q: %w", id, ErrCategoryNotFound)
	}
	if err := ValidateCategoryTree(out); err != nil {
		return nil, nil, err
	}
	return copyLinks(links), out, nil
}

// ReplaceCategories swaps in a caller-built category array (the category
// manager edits the whole set at once), validating the tree before
// accepting it.
func ReplaceCategories(links []Link, categories []Category, next []Category) ([]Link, []Category, error) {
	out := copyCategories(next)
	if _, ok := CategoryByID(out, CommonCategoryID); !ok {
		out = append([]Category{CommonCategory()}, out...)
	}
	if err := ValidateCategoryTree(out); err != nil {
		return nil, nil, err
	}
	// Orphaned links migrate to common.
	outLinks := copyLinks(links)
	for i, l := range outLinks {
		if _, ok := CategoryByID(out, l.CategoryID); !ok {
			l.CategoryID = CommonCategoryID
			outLinks[i] = l
		}
	}
	return outLinks, out, nil
}

// DeleteCategory removes a category and migrates its links to common.
// Deleting common itself is rejected. If common has somehow gone missing
// it is recreated as the first element before the migration.
func DeleteCategory(links []Link, categories []Category, id string) ([]Link, []Category, error) {
	if id == CommonCategoryID {
		return nil, nil, ErrProtectedCategory
	}

	out := make([]Category, 0, len(categories))
	found := false
	for _, c := range categories {
		if c.ID == id {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		return nil, nil, fmt.Errorf("delete category %q: %w", id, ErrCategoryNotFound)
	}
	if _, ok := CategoryByID(out, CommonCategoryID); !ok {
		out = append([]Category{CommonCategory()}, out...)
	}

	// Children of the deleted category become top-level, keeping the tree
	// two levels deep without inventing a new parent.
	for i, c := range out {
		if c.ParentID == id {
			c.ParentID = ""
			c.IsSubcategory = false
			out[i] = c
		}
	}

	outLinks := copyLinks(links)
	for i, l := range outLinks {
		if l.CategoryID == id {
			l.CategoryID = CommonCategoryID
			outLinks[i] = l
		}
	}

	if err := ValidateCategoryTree(out); err != nil {
		return nil, nil, err
	}
	return outLinks, out, nil
}
