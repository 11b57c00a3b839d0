package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huegroups/internal/config"
	"github.com/dokzlo13/huegroups/internal/db"
	"github.com/dokzlo13/huegroups/internal/groups"
	v2 "github.com/dokzlo13/huegroups/internal/hue/v2"
	"github.com/dokzlo13/huegroups/internal/ledger"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure (DB and Ledger are nil when database.path is empty)
	DB     *db.DB
	Ledger *ledger.Ledger

	// Hue access
	Client     *v2.Client
	Aggregator *groups.Aggregator

	// High-level services
	API *APIService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	if cfg.Database.Path != "" {
		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		s.DB = database
		s.Ledger = ledger.New(database.DB)
	} else {
		log.Info().Msg("No database path configured, failure ledger disabled")
	}

	httpClient := v2.NewHTTPClient(cfg.Hue.Timeout.Duration())
	s.Client = v2.NewClient(cfg.Hue.Bridge, cfg.Hue.Token, httpClient, cfg.Hue.RateLimitRPS)
	s.Aggregator = groups.NewAggregator(s.Client)

	s.API = NewAPIService(cfg, s.Aggregator, s.Ledger)

	return s, nil
}

// Start verifies bridge connectivity and starts background services.
func (s *Services) Start(ctx context.Context, onFatalError func(error)) error {
	if err := s.Client.Connect(ctx); err != nil {
		return err
	}
	log.Info().Str("bridge", s.cfg.Hue.Bridge).Msg("Connected to Hue bridge")

	if s.Ledger != nil {
		go s.Ledger.RunCleanup(ctx, s.cfg.Ledger.CleanupInterval.Duration(), s.cfg.Ledger.Retention())
	}

	s.API.Start(ctx, onFatalError)

	return nil
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Client != nil {
		s.Client.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
