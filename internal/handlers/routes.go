package handlers

import (
	"net/http"

	"github.com/graph-gophers/graphql-go"

	"github.com/usergraph/backend/internal/metrics"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Store: deps.Health}
	gql := GraphQLHandler{Schema: deps.Schema, Limiter: deps.Limiter}

	mux.HandleFunc("/healthz", health.Handle)
	mux.Handle("/graphql", gql)
	mux.Handle("/metrics", metrics.Handler())
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Schema  *graphql.Schema
	Health  Pinger
	Limiter RateLimiter
}
