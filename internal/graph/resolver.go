package graph

import (
	"context"
	"errors"

	"github.com/graph-gophers/graphql-go"

	"github.com/usergraph/backend/internal/logging"
	"github.com/usergraph/backend/internal/models"
	"github.com/usergraph/backend/internal/repositories"
)

// Resolver is the root resolver for both queries and mutations.
type Resolver struct {
	users repositories.UserRepository
}

// findUser loads the record for id, translating a miss into a notFoundError.
func (r *Resolver) findUser(ctx context.Context, id graphql.ID) (models.User, error) {
	userID, ok := models.ParseUserID(string(id))
	if !ok {
		return models.User{}, notFoundError{id: string(id)}
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, r.storeError(ctx, "find user", string(id), err)
	}
	return user, nil
}

// storeError converts a record store failure into the error returned to the client.
func (r *Resolver) storeError(ctx context.Context, op, id string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundError{id: id}
	}
	logging.FromContext(ctx).Error(op+" failed", "userId", id, "error", err)
	return errInternal
}

// outcomeFor classifies a resolver error for span reporting.
func outcomeFor(err error) string {
	var nf notFoundError
	if errors.As(err, &nf) {
		return logging.OutcomeRejected
	}
	return logging.OutcomeError
}
