package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/perthro/internal/apperr"
	"github.com/starford/perthro/internal/pageservice"
)

type handler struct {
	svc *pageservice.Service
}

func newHandler(svc *pageservice.Service) *handler {
	return &handler{svc: svc}
}

// search handles GET /api/search.
func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		badRequest(w, "query parameter 'q' is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrSearchDisabled) {
			searchDisabled(w)
			return
		}
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

// runQuery handles POST /api/query.
func (h *handler) runQuery(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Query == "" {
		badRequest(w, "query is required")
		return
	}

	res, err := h.svc.RunQuery(r.Context(), req.Query)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toQueryResponse(res))
}

// backlinks handles GET /api/backlinks.
func (h *handler) backlinks(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		badRequest(w, "query parameter 'target' is required")
		return
	}

	bl, err := h.svc.Backlinks(r.Context(), target)
	if err != nil {
		if errors.Is(err, apperr.ErrSearchDisabled) {
			searchDisabled(w)
			return
		}
		slog.Error("backlinks failed", slog.String("target", target), slog.String("error", err.Error()))
		internalError(w)
		return
	}
	if bl == nil {
		bl = []string{}
	}
	writeJSON(w, http.StatusOK, backlinksResponse{Backlinks: bl})
}

// readDoc handles GET /api/doc.
func (h *handler) readDoc(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		badRequest(w, "query parameter 'ref' is required")
		return
	}

	doc, err := h.svc.ReadDoc(r.Context(), ref)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("read doc failed", slog.String("ref", ref), slog.String("error", err.Error()))
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
