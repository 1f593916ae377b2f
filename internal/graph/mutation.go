package graph

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"github.com/usergraph/backend/internal/logging"
	"github.com/usergraph/backend/internal/models"
	"github.com/usergraph/backend/internal/repositories"
)

type createUserArgs struct {
	Name  string
	Email string
}

type updateUserArgs struct {
	ID    graphql.ID
	Name  *string
	Email *string
}

type deleteUserArgs struct {
	ID graphql.ID
}

// CreateUser stores a new user. Validation refusals are reported in the payload.
func (r *Resolver) CreateUser(ctx context.Context, args createUserArgs) (*UserPayloadResolver, error) {
	ctx, span := logging.StartSpan(ctx, "createUser")
	defer span.End()
	logger := logging.FromContext(ctx)

	created, err := r.users.Create(ctx, models.User{Name: args.Name, Email: args.Email})
	if err != nil {
		if verr, ok := repositories.AsValidationError(err); ok {
			span.SetOutcome(logging.OutcomeRejected)
			logger.Warn("create user rejected", "errors", verr.Messages)
			return &UserPayloadResolver{errors: verr.Messages}, nil
		}
		span.SetOutcome(logging.OutcomeError)
		logger.Error("create user failed", "error", err)
		return nil, errInternal
	}

	logger.Info("user created", "userId", created.ID)
	return succeeded(created), nil
}

// UpdateUser applies a partial update: omitted fields keep their stored values.
// A refused update returns the record with the attempted changes.
func (r *Resolver) UpdateUser(ctx context.Context, args updateUserArgs) (*UserPayloadResolver, error) {
	ctx, span := logging.StartSpan(ctx, "updateUser")
	defer span.End()
	logger := logging.FromContext(ctx)

	user, err := r.findUser(ctx, args.ID)
	if err != nil {
		span.SetOutcome(outcomeFor(err))
		return nil, err
	}

	if args.Name != nil {
		user.Name = *args.Name
	}
	if args.Email != nil {
		user.Email = *args.Email
	}

	updated, err := r.users.Update(ctx, user)
	if err != nil {
		if verr, ok := repositories.AsValidationError(err); ok {
			span.SetOutcome(logging.OutcomeRejected)
			logger.Warn("update user rejected", "userId", user.ID, "errors", verr.Messages)
			return &UserPayloadResolver{user: &UserResolver{user: verr.Record}, errors: verr.Messages}, nil
		}
		err = r.storeError(ctx, "update user", string(args.ID), err)
		span.SetOutcome(outcomeFor(err))
		return nil, err
	}

	logger.Info("user updated", "userId", updated.ID)
	return succeeded(updated), nil
}

// DeleteUser destroys a user and returns its last known values.
func (r *Resolver) DeleteUser(ctx context.Context, args deleteUserArgs) (*UserPayloadResolver, error) {
	ctx, span := logging.StartSpan(ctx, "deleteUser")
	defer span.End()
	logger := logging.FromContext(ctx)

	user, err := r.findUser(ctx, args.ID)
	if err != nil {
		span.SetOutcome(outcomeFor(err))
		return nil, err
	}

	if err := r.users.Delete(ctx, user); err != nil {
		if verr, ok := repositories.AsValidationError(err); ok {
			span.SetOutcome(logging.OutcomeRejected)
			logger.Warn("delete user rejected", "userId", user.ID, "errors", verr.Messages)
			return &UserPayloadResolver{errors: verr.Messages}, nil
		}
		err = r.storeError(ctx, "delete user", string(args.ID), err)
		span.SetOutcome(outcomeFor(err))
		return nil, err
	}

	logger.Info("user deleted", "userId", user.ID)
	return succeeded(user), nil
}
