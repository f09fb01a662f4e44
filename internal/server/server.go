// Package server exposes the transaction CRUD surface over HTTP for the
// client/local-server mode. Clients re-fetch the full row set after each
// mutation; there is no incremental sync.
package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/store"
)

// Server routes transaction CRUD requests to a store.
type Server struct {
	store store.Store
	norm  dates.Normalizer
	log   zerolog.Logger
}

// New creates a Server over st.
func New(st store.Store, norm dates.Normalizer, log zerolog.Logger) *Server {
	return &Server{store: st, norm: norm, log: log}
}

// Router builds the chi router with logging and recovery middleware.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestLogger(s.log))
	r.Use(Recovery(s.log))
	r.Use(CORS)

	r.Get("/health", s.handleHealth)

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})

	return r
}
