// Package api serves aggregated rooms and zones over a read-only JSON HTTP API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huegroups/internal/groups"
	"github.com/dokzlo13/huegroups/internal/ledger"
)

// GroupReader is the aggregation surface the API serves.
type GroupReader interface {
	ListGroups(ctx context.Context, groupType groups.GroupType) ([]groups.CombinedGroup, error)
	GetGroup(ctx context.Context, id string, groupType groups.GroupType) (*groups.CombinedGroup, error)
}

// FailureLedger records aggregation failures. A nil ledger disables recording.
type FailureLedger interface {
	Append(eventType ledger.EventType, requestID, source string, payload map[string]any) error
}

// Server is the HTTP API server.
type Server struct {
	addr       string
	reader     GroupReader
	ledger     FailureLedger
	httpServer *http.Server
}

// NewServer creates a new API server. failures may be nil.
func NewServer(addr string, reader GroupReader, failures FailureLedger) *Server {
	return &Server{
		addr:   addr,
		reader: reader,
		ledger: failures,
	}
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.handleListGroups(groups.Room))
			r.Get("/{id}", s.handleGetGroup(groups.Room))
		})

		r.Route("/zones", func(r chi.Router) {
			r.Get("/", s.handleListGroups(groups.Zone))
			r.Get("/{id}", s.handleGetGroup(groups.Zone))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	return r
}

// Run starts the API server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", s.addr).Msg("Starting API server")

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("API server shutdown error")
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
