// Package seed initializes an empty storage backend with a starter
// collection, either built-in defaults or an operator-provided YAML
// file.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eallion/cloudnav/internal/domain"
	"github.com/eallion/cloudnav/internal/logger"
	"github.com/eallion/cloudnav/internal/store"
)

type seedLink struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Pinned      bool   `yaml:"pinned"`
}

type seedCategory struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Icon     string `yaml:"icon"`
	Password string `yaml:"password"`
	Parent   string `yaml:"parent"`
}

type seedFile struct {
	Links      []seedLink     `yaml:"links"`
	Categories []seedCategory `yaml:"categories"`
}

// Load reads and parses a seed YAML file into domain values.
func Load(path string) ([]domain.Link, []domain.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	categories := []domain.Category{domain.CommonCategory()}
	for _, c := range f.Categories {
		if c.ID == domain.CommonCategoryID {
			continue
		}
		categories = append(categories, domain.Category{
			ID:            c.ID,
			Name:          c.Name,
			Icon:          c.Icon,
			Password:      c.Password,
			ParentID:      c.Parent,
			IsSubcategory: c.Parent != "",
		})
	}
	if err := domain.ValidateCategoryTree(categories); err != nil {
		return nil, nil, fmt.Errorf("invalid seed categories: %w", err)
	}

	now := time.Now().UnixMilli()
	links := make([]domain.Link, 0, len(f.Links))
	for i, l := range f.Links {
		id := l.ID
		if id == "" {
			id = fmt.Sprintf("seed-%d", i+1)
		}
		category := l.Category
		if _, ok := domain.CategoryByID(categories, category); !ok {
			category = domain.CommonCategoryID
		}
		links = append(links, domain.Link{
			ID:          id,
			Title:       l.Title,
			URL:         domain.NormalizeURL(l.URL),
			Icon:        l.Icon,
			Description: l.Description,
			CategoryID:  category,
			CreatedAt:   now + int64(i),
			Pinned:      l.Pinned,
		})
	}
	return links, categories, nil
}

// Defaults returns the built-in starter collection.
func Defaults() ([]domain.Link, []domain.Category) {
	now := time.Now().UnixMilli()
	categories := []domain.Category{domain.CommonCategory()}
	links := []domain.Link{
		{ID: "seed-1", Title: "Go", URL: "https://go.dev", Icon: "Code", CategoryID: domain.CommonCategoryID, CreatedAt: now},
		{ID: "seed-2", Title: "GitHub", URL: "https://github.com", Icon: "Github", CategoryID: domain.CommonCategoryID, CreatedAt: now + 1},
	}
	return links, categories
}

// Ensure writes a starter collection when the backend has no links yet.
// A configured seed file wins over the built-in defaults.
func Ensure(ctx context.Context, kv store.KV, seedPath string, log logger.Logger) error {
	_, err := kv.Get(ctx, store.KeyLinks)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("seed probe failed: %w", err)
	}

	var links []domain.Link
	var categories []domain.Category
	if seedPath != "" {
		links, categories, err = Load(seedPath)
		if err != nil {
			return err
		}
		log.Info("seeding storage from file",
			logger.String("file", seedPath),
			logger.Int("links", len(links)),
			logger.Int("categories", len(categories)))
	} else {
		links, categories = Defaults()
		log.Info("seeding storage with defaults", logger.Int("links", len(links)))
	}

	rawLinks, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("failed to encode seed links: %w", err)
	}
	rawCats, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode seed categories: %w", err)
	}
	if err := kv.Put(ctx, store.KeyLinks, rawLinks); err != nil {
		return fmt.Errorf("failed to write seed links: %w", err)
	}
	if err := kv.Put(ctx, store.KeyCategories, rawCats); err != nil {
		return fmt.Errorf("failed to write seed categories: %w", err)
	}
	return nil
}
