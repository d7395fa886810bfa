package importer

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/eallion/cloudnav/internal/domain"
)

var ErrEmptyBackup = errors.New("backup contains no links or categories")

type backupFile struct {
	Links        []domain.Link        `json:"links"`
	Categories   []domain.Category    `json:"categories"`
	SearchConfig *domain.SearchConfig `json:"searchConfig,omitempty"`
}

// ParseBackup parses a full JSON backup: links, categories and any
// saved sub-configs.
func ParseBackup(r io.Reader) (ParseResult, error) {
	var f backupFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return ParseResult{}, err
	}
	if len(f.Links) == 0 && len(f.Categories) == 0 {
		return ParseResult{}, ErrEmptyBackup
	}
	fillLinkIDs(f.Links)
	return ParseResult{
		Links:        f.Links,
		Categories:   f.Categories,
		SearchConfig: f.SearchConfig,
	}, nil
}

// ParseLinks parses a links-only JSON file: either a bare array of
// links or an object with a links field. Categories never come from
// this format.
func ParseLinks(r io.Reader) (ParseResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{}, err
	}

	var links []domain.Link
	if err := json.Unmarshal(raw, &links); err != nil {
		var f backupFile
		if err := json.Unmarshal(raw, &f); err != nil {
			return ParseResult{}, err
		}
		links = f.Links
	}
	if len(links) == 0 {
		return ParseResult{}, ErrEmptyBackup
	}
	fillLinkIDs(links)
	return ParseResult{Links: links}, nil
}

// fillLinkIDs assigns IDs to entries that arrive without one, so the
// resolver can treat every parsed link uniformly.
func fillLinkIDs(links []domain.Link) {
	for i := range links {
		if links[i].ID == "" {
			links[i].ID = uuid.NewString()
		}
	}
}
