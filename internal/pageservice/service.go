// Package pageservice coordinates the state index, storage, and synchronizer
// for read and trigger operations exposed over HTTP and MCP.
package pageservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/page"
	"github.com/starford/jera/internal/site"
	"github.com/starford/jera/internal/state"
	"github.com/starford/jera/internal/storage"
)

// PageDetail is the full representation of a generated page.
type PageDetail struct {
	OutputPath  string    `json:"output_path"`
	Category    string    `json:"category"`
	SourcePath  string    `json:"source_path"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Checksum    string    `json:"checksum"`
	Tags        []string  `json:"tags"`
	Difficulty  string    `json:"difficulty"`
	SyncedAt    time.Time `json:"synced_at"`
}

// PageListItem is a lightweight item in a list response.
type PageListItem struct {
	OutputPath string    `json:"output_path"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	Difficulty string    `json:"difficulty"`
	SyncedAt   time.Time `json:"synced_at"`
}

// Service exposes page read operations and sync triggering.
type Service struct {
	store  storage.Provider
	db     state.PageIndex
	syncer *site.Syncer
	onPage site.EventCallback
}

// NewService creates a page service. onPage (may be nil) is invoked for each
// page mutation produced by triggered syncs.
func NewService(store storage.Provider, db state.PageIndex, syncer *site.Syncer, onPage site.EventCallback) *Service {
	return &Service{store: store, db: db, syncer: syncer, onPage: onPage}
}

// GetPage returns a single generated page including its rendered content.
func (s *Service) GetPage(_ context.Context, outputPath string) (*PageDetail, error) {
	row, err := s.db.GetPage(outputPath)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperr.ErrNotFound
	}
	content, err := s.store.Read(outputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return &PageDetail{
		OutputPath:  row.OutputPath,
		Category:    row.Category,
		SourcePath:  row.SourcePath,
		Title:       row.Title,
		Description: row.Description,
		Content:     string(content),
		Checksum:    row.Checksum,
		Tags:        tags,
		Difficulty:  row.Difficulty,
		SyncedAt:    row.SyncedAt,
	}, nil
}

// ListPages returns paginated pages with optional category and tag filters.
func (s *Service) ListPages(_ context.Context, limit, offset int, category, tag, sort string) ([]PageListItem, int, error) {
	if category != "" && !page.Category(category).Valid() {
		return nil, 0, apperr.ErrInvalidCategory
	}
	rows, total, err := s.db.ListPages(limit, offset, category, tag, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]PageListItem, len(rows))
	for i, r := range rows {
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		items[i] = PageListItem{
			OutputPath: r.OutputPath,
			Category:   r.Category,
			Title:      r.Title,
			Tags:       tags,
			Difficulty: r.Difficulty,
			SyncedAt:   r.SyncedAt,
		}
	}
	return items, total, nil
}

// Search delegates to the state index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]state.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Sync runs a full synchronization pass and returns its report.
func (s *Service) Sync(ctx context.Context) (site.Report, error) {
	return s.syncer.SyncAll(ctx, s.onPage)
}
