package graph

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"github.com/usergraph/backend/internal/logging"
)

// Users resolves the users query with every persisted user.
func (r *Resolver) Users(ctx context.Context) ([]*UserResolver, error) {
	ctx, span := logging.StartSpan(ctx, "users")
	defer span.End()

	users, err := r.users.List(ctx)
	if err != nil {
		span.SetOutcome(logging.OutcomeError)
		logging.FromContext(ctx).Error("list users failed", "error", err)
		return nil, errInternal
	}

	out := make([]*UserResolver, 0, len(users))
	for _, user := range users {
		out = append(out, &UserResolver{user: user})
	}
	return out, nil
}

// User resolves a single user by id. Unknown ids fail the request.
func (r *Resolver) User(ctx context.Context, args struct{ ID graphql.ID }) (*UserResolver, error) {
	ctx, span := logging.StartSpan(ctx, "user")
	defer span.End()

	user, err := r.findUser(ctx, args.ID)
	if err != nil {
		span.SetOutcome(outcomeFor(err))
		return nil, err
	}
	return &UserResolver{user: user}, nil
}
