package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/jera/internal/pageservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *pageservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Pages (read-only: content is generated, never edited through the API).
	r.Get("/pages", h.ListPages)
	r.Get("/pages/*", h.GetPage)

	// Search.
	r.Get("/search", h.Search)

	// Sync trigger.
	r.Post("/sync", h.TriggerSync)

	// SSE events.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
