// Package graph binds the GraphQL schema for users to the record store.
package graph

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/graph-gophers/graphql-go"

	"github.com/usergraph/backend/internal/logging"
	"github.com/usergraph/backend/internal/repositories"
)

//go:embed schema.graphql
var schemaSDL string

// NewSchema parses the embedded schema and binds it to a resolver backed by users.
// A maxDepth of zero disables the query depth limit.
func NewSchema(users repositories.UserRepository, maxDepth int) (*graphql.Schema, error) {
	if users == nil {
		return nil, fmt.Errorf("graph: user repository must not be nil")
	}

	opts := []graphql.SchemaOpt{
		graphql.Logger(panicLogger{}),
	}
	if maxDepth > 0 {
		opts = append(opts, graphql.MaxDepth(maxDepth))
	}

	schema, err := graphql.ParseSchema(schemaSDL, &Resolver{users: users}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}

// panicLogger reports resolver panics through the request logger.
type panicLogger struct{}

func (panicLogger) LogPanic(ctx context.Context, value interface{}) {
	logging.FromContext(ctx).Error("graphql resolver panic", "panic", value)
}
