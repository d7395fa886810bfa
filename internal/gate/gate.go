// Package gate decides which categories and links are visible in the
// current session. A category with a password is locked until unlocked;
// the unlocked set lives in memory only and dies with the session.
package gate

import (
	"errors"
	"sync"

	"github.com/eallion/cloudnav/internal/domain"
)

var (
	ErrLocked        = errors.New("category is locked")
	ErrWrongPassword = errors.New("wrong category password")
)

// Gate tracks which protected categories have been unlocked this session.
type Gate struct {
	mu       sync.RWMutex
	unlocked map[string]struct{}
}

func New() *Gate {
	return &Gate{unlocked: make(map[string]struct{})}
}

// IsLocked reports whether the category with the given ID is currently
// locked. Unknown categories and categories without a password are never
// locked. A child's lock is independent of its parent's.
func (g *Gate) IsLocked(categories []domain.Category, id string) bool {
	c, ok := domain.CategoryByID(categories, id)
	if !ok || c.Password == "" {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, open := g.unlocked[id]
	return !open
}

// Unlock verifies the password and adds the category to the session's
// unlocked set.
func (g *Gate) Unlock(categories []domain.Category, id, password string) error {
	c, ok := domain.CategoryByID(categories, id)
	if !ok {
		return domain.ErrCategoryNotFound
	}
	if c.Password == "" {
		return nil
	}
	if password != c.Password {
		return ErrWrongPassword
	}
	g.mu.Lock()
	g.unlocked[id] = struct{}{}
	g.mu.Unlock()
	return nil
}

// Reset forgets every unlock, as a reload of the session would.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.unlocked = make(map[string]struct{})
	g.mu.Unlock()
}

// VisibleLinks filters out every link that belongs to a locked category.
// This runs before any ordering or search sees the data, so locked
// content never leaks into the pinned view, category views or search
// results.
func (g *Gate) VisibleLinks(links []domain.Link, categories []domain.Category) []domain.Link {
	out := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if !g.IsLocked(categories, l.CategoryID) {
			out = append(out, l)
		}
	}
	return out
}

// VisibleCategories keeps every category in the sidebar, locked ones
// included, so they can be picked and unlocked. Only the children of a
// locked parent are hidden until the parent is unlocked.
func (g *Gate) VisibleCategories(categories []domain.Category) []domain.Category {
	out := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		if c.ParentID != "" && g.IsLocked(categories, c.ParentID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Selection is the outcome of picking a category in the sidebar.
type Selection struct {
	CategoryID string
	// Expanded is set when a parent was picked: the parent auto-expands
	// and its first child becomes the active view, since parents stop
	// carrying links of their own once they have children.
	Expanded bool
}

// ResolveSelection decides what selecting a category does: a locked
// category returns ErrLocked so the caller can prompt for the password,
// a parent with children selects its first child, anything else selects
// itself.
func (g *Gate) ResolveSelection(categories []domain.Category, id string) (Selection, error) {
	if g.IsLocked(categories, id) {
		return Selection{}, ErrLocked
	}
	children := domain.Children(categories, id)
	if len(children) > 0 {
		return Selection{CategoryID: children[0].ID, Expanded: true}, nil
	}
	return Selection{CategoryID: id}, nil
}
