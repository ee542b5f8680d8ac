package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// wsHandler is the push channel endpoint.
type wsHandler interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// fetchHandler is the one-shot fallback endpoint.
type fetchHandler interface {
	Fetch(w http.ResponseWriter, r *http.Request)
}

func newRouter(basePath string, ws wsHandler, fetch fetchHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Health probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"ok": true}) //nolint:errcheck
	})

	r.Route(basePath, func(r chi.Router) {
		r.Get("/ws", ws.ServeWS)
		r.Post("/fetch", fetch.Fetch)
	})

	return r
}
