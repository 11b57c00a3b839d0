package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huegroups/internal/api"
	"github.com/dokzlo13/huegroups/internal/config"
	"github.com/dokzlo13/huegroups/internal/ledger"
)

// APIService runs the HTTP API server when enabled.
type APIService struct {
	cfg    *config.Config
	server *api.Server
}

// NewAPIService creates a new APIService. failures may be nil.
func NewAPIService(cfg *config.Config, reader api.GroupReader, failures *ledger.Ledger) *APIService {
	var recorder api.FailureLedger
	if failures != nil {
		recorder = failures
	}

	return &APIService{
		cfg:    cfg,
		server: api.NewServer(cfg.API.Addr(), reader, recorder),
	}
}

// Start begins the API server if enabled. A listen failure is fatal.
func (s *APIService) Start(ctx context.Context, onFatalError func(error)) {
	if !s.cfg.API.IsEnabled() {
		log.Info().Msg("API server disabled")
		return
	}

	go func() {
		if err := s.server.Run(ctx, s.cfg.ShutdownTimeout.Duration()); err != nil {
			log.Error().Err(err).Msg("API server error")
			if onFatalError != nil {
				onFatalError(fmt.Errorf("api server: %w", err))
			}
		}
	}()
}
