// Package importer parses external bookmark files and merges their
// contents into an existing collection.
package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/eallion/cloudnav/internal/domain"
)

// ParseResult is the raw outcome of parsing an import file, before any
// duplicate resolution or category placement.
type ParseResult struct {
	Links        []domain.Link
	Categories   []domain.Category
	SearchConfig *domain.SearchConfig
}

// Browser-managed root folders that carry no meaning of their own.
// Links under them belong to the common category.
var genericFolders = map[string]bool{
	"Bookmarks Bar":   true,
	"Other Bookmarks": true,
	"书签栏":             true,
	"其他书签":            true,
}

type folderFrame struct {
	name string
	id   string
}

// ParseNetscape parses a Netscape bookmark HTML export (Chrome, Edge,
// Firefox). Folder nesting deeper than the two-level category tree is
// flattened onto the nearest second-level folder. chrome:// and about:
// entries are dropped.
func ParseNetscape(r io.Reader) (ParseResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return ParseResult{}, err
	}

	var result ParseResult
	var path []folderFrame
	var pending *folderFrame // folder seen in H3, pushed on its DL

	currentCategoryID := func() string {
		if len(path) == 0 {
			return domain.CommonCategoryID
		}
		return path[len(path)-1].id
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := textContent(n)
				switch {
				case name == "" || genericFolders[name]:
					// Pass through: children land wherever we are now.
					pending = nil
				case len(path) >= 2:
					// Tree caps at two levels. Deeper folders collapse
					// onto their second-level ancestor.
					pending = nil
				default:
					frame := folderFrame{name: name, id: uuid.NewString()}
					cat := domain.Category{
						ID:   frame.id,
						Name: name,
						Icon: "Folder",
					}
					if len(path) > 0 {
						cat.ParentID = path[len(path)-1].id
						cat.IsSubcategory = true
					}
					result.Categories = append(result.Categories, cat)
					pending = &frame
				}
				return

			case "a":
				href := attr(n, "href")
				if href == "" || strings.HasPrefix(href, "chrome://") || strings.HasPrefix(href, "about:") {
					return
				}
				title := textContent(n)
				if title == "" {
					title = href
				}
				createdAt := time.Now().UnixMilli()
				if raw := attr(n, "add_date"); raw != "" {
					if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
						createdAt = time.Unix(ts, 0).UnixMilli()
					}
				}
				result.Links = append(result.Links, domain.Link{
					ID:         uuid.NewString(),
					Title:      title,
					URL:        href,
					Icon:       attr(n, "icon"),
					CategoryID: currentCategoryID(),
					CreatedAt:  createdAt,
				})
				return

			case "dl":
				pushed := false
				if pending != nil {
					path = append(path, *pending)
					pending = nil
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				if pushed {
					path = path[:len(path)-1]
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return result, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
