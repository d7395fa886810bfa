package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	// CommonCategoryID is the protected fallback category. Exactly one
	// category with this ID exists at all times; links pointing at a
	// deleted category are migrated here.
	CommonCategoryID = "common"

	// AllCategoryID is the pseudo-category that selects every link.
	// It never appears in the stored category set.
	AllCategoryID = "all"
)

var (
	ErrMissingField      = errors.New("title and url are required")
	ErrLinkNotFound      = errors.New("link not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrProtectedCategory = errors.New("the common category cannot be deleted")
	ErrIndexOutOfRange   = errors.New("reorder index out of range")
)

// Link is one bookmark entry. The JSON shape is the wire format shared
// with the remote store and the local cache, so field names stay camelCase.
// Order and PinnedOrder are pointers: absence is meaningful (sparse order
// falls back to CreatedAt, and unpinning removes pinnedOrder entirely).
type Link struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"categoryId"`
	CreatedAt   int64  `json:"createdAt"` // unix milliseconds
	Order       *int   `json:"order,omitempty"`
	Pinned      bool   `json:"pinned,omitempty"`
	PinnedOrder *int   `json:"pinnedOrder,omitempty"`
}

// Category is a named, optionally password-protected grouping.
// The tree is two levels deep at most: a category with a ParentID must
// point at a top-level category.
type Category struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Password      string `json:"password,omitempty"`
	ParentID      string `json:"parentId,omitempty"`
	IsSubcategory bool   `json:"isSubcategory,omitempty"`
}

// NewLink carries the user-editable fields of a link. ID, CreatedAt and
// the order fields are assigned by the mutators.
type NewLink struct {
	Title       string
	URL         string
	Icon        string
	Description string
	CategoryID  string
	Pinned      bool
}

// NormalizeURL ensures a URL carries a scheme, defaulting to https.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// NormalizeURLKey produces the key used for duplicate detection on import:
// trimmed, trailing slash stripped.
func NormalizeURLKey(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

// CategoryByID returns the category with the given ID.
func CategoryByID(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// resolveCategoryID maps an unknown category reference to the common
// fallback so no link ever points at a category that does not exist.
func resolveCategoryID(categories []Category, id string) string {
	if id == AllCategoryID {
		return CommonCategoryID
	}
	if _, ok := CategoryByID(categories, id); ok {
		return id
	}
	return CommonCategoryID
}

// newLinkID derives a time-based ID, bumping it until it is unique among
// the existing links.
func newLinkID(links []Link, now time.Time) string {
	taken := make(map[string]bool, len(links))
	for _, l := range links {
		taken[l.ID] = true
	}
	id := strconv.FormatInt(now.UnixMilli(), 10)
	for n := 0; taken[id]; n++ {
		id = strconv.FormatInt(now.UnixMilli(), 10) + strconv.Itoa(n)
	}
	return id
}

func intPtr(v int) *int { return &v }

// copyLinks shallow-copies the slice so callers can append or reassign
// elements without touching the input. Elements that get mutated must be
// replaced wholesale (with fresh pointer fields), never written through.
func copyLinks(links []Link) []Link {
	out := make([]Link, len(links))
	copy(out, links)
	return out
}

func copyCategories(categories []Category) []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func countPinned(links []Link) int {
	n := 0
	for _, l := range links {
		if l.Pinned {
			n++
		}
	}
	return n
}
