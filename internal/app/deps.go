package app

import (
	"context"
	"fmt"

	"github.com/usergraph/backend/internal/config"
	"github.com/usergraph/backend/internal/db"
	"github.com/usergraph/backend/internal/graph"
	"github.com/usergraph/backend/internal/handlers"
	"github.com/usergraph/backend/internal/middleware"
	"github.com/usergraph/backend/internal/repositories"
)

// userStore is a record store that can also report its own health.
type userStore interface {
	repositories.UserRepository
	handlers.Pinger
}

// openStore returns the configured record store and a function releasing its resources.
func openStore(ctx context.Context, cfg config.Config) (userStore, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		return repositories.NewInMemoryUserRepository(), func() {}, nil
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresUserRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store %q", cfg.Store)
	}
}

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(store userStore, cfg config.Config) (handlers.Dependencies, error) {
	schema, err := graph.NewSchema(store, cfg.MaxQueryDepth)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	return handlers.Dependencies{
		Schema: schema,
		Health: store,
		Limiter: middleware.NewClientLimiter(middleware.LimiterOptions{
			Requests: cfg.RateLimitRequests,
			Window:   cfg.RateLimitWindow,
			Burst:    cfg.RateLimitBurst,
			IdleTTL:  cfg.RateLimitTTL,
		}),
	}, nil
}
