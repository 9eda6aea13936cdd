package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/pageservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *pageservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *pageservice.Service) *Handler {
	return &Handler{svc: svc}
}

// pagePath extracts the page path from the URL (everything after /api/pages/).
// Supports encoded slashes from OpenAPI clients (e.g. _demos%2Ffoo.md).
func pagePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListPages handles GET /api/pages.
//
//	@Summary		List generated pages with optional pagination and filtering
//	@Tags			pages
//	@Produce		json
//	@Param			limit		query		int		false	"Page size"
//	@Param			offset		query		int		false	"Page offset"
//	@Param			category	query		string	false	"Filter by category"	Enums(demos, experiments, snippets)
//	@Param			tag			query		string	false	"Filter by tag"
//	@Param			sort		query		string	false	"Sort field"	Enums(synced_at, title, output_path)
//	@Success		200			{object}	PageListResponse
//	@Security		BearerAuth
//	@Router			/pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	category := q.Get("category")
	tag := q.Get("tag")
	sort := q.Get("sort")

	items, total, err := h.svc.ListPages(r.Context(), limit, offset, category, tag, sort)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCategory) {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid category"))
			return
		}
		slog.Error("list pages failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []PageListItem{}
	}
	writeJSON(w, http.StatusOK, PageListResponse{Pages: items, Total: total})
}

// GetPage handles GET /api/pages/*.
//
//	@Summary		Get a single generated page by output path
//	@Tags			pages
//	@Produce		json
//	@Param			path	path		string	true	"Page output path"
//	@Success		200		{object}	PageDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pages/{path} [get]
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	path := pagePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	detail, err := h.svc.GetPage(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get page failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search over generated pages
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Maximum results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	hits, err := h.svc.Search(r.Context(), query, limit)
	if err != nil {
		slog.Error("search failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	results := make([]SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = SearchResult{
			OutputPath: hit.OutputPath,
			Title:      hit.Title,
			Snippet:    hit.Snippet,
		}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// TriggerSync handles POST /api/sync.
//
//	@Summary		Run a full synchronization pass
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	SyncResponse
//	@Security		BearerAuth
//	@Router			/sync [post]
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Sync(r.Context())
	if err != nil {
		slog.Error("triggered sync failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("sync failed"))
		return
	}
	writeJSON(w, http.StatusOK, SyncResponse{Report: report})
}
