package api

import (
	"github.com/starford/jera/internal/pageservice"
	"github.com/starford/jera/internal/site"
)

// PageDetail is the full page response type (aliased from the domain layer).
type PageDetail = pageservice.PageDetail

// PageListItem is a lightweight item in a list response (aliased from the domain layer).
type PageListItem = pageservice.PageListItem

// PageListResponse wraps paginated page listings.
type PageListResponse struct {
	Pages []PageListItem `json:"pages" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	OutputPath string `json:"output_path" example:"_demos/virtual-wardrobe.md" validate:"required"`
	Title      string `json:"title" example:"Virtual Wardrobe" validate:"required"`
	Snippet    string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// SyncResponse wraps a triggered synchronization report.
type SyncResponse struct {
	Report site.Report `json:"report" validate:"required"`
}
