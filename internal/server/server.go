// Package server implements the preview server: the built site served as
// static files, the JSON API, and the live-reload event stream.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/perthro/internal/pageservice"
)

// New creates a chi router serving the built site from outDir with the API
// mounted under /api. events, if non-nil, is mounted at GET /api/events.
func New(svc *pageservice.Service, events http.Handler, outDir string) http.Handler {
	h := newHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.search)
		r.Post("/query", h.runQuery)
		r.Get("/backlinks", h.backlinks)
		r.Get("/doc", h.readDoc)
		if events != nil {
			r.Get("/events", events.ServeHTTP)
		}
	})

	// Everything else is the built site.
	r.Handle("/*", http.FileServer(http.Dir(outDir)))

	return r
}
