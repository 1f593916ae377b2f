package graph

import (
	"github.com/graph-gophers/graphql-go"

	"github.com/usergraph/backend/internal/models"
)

// UserResolver exposes a user record as the GraphQL User type.
type UserResolver struct {
	user models.User
}

func (r *UserResolver) ID() graphql.ID {
	return graphql.ID(models.FormatUserID(r.user.ID))
}

func (r *UserResolver) Name() string {
	return r.user.Name
}

func (r *UserResolver) Email() string {
	return r.user.Email
}

func (r *UserResolver) CreatedAt() graphql.Time {
	return graphql.Time{Time: r.user.CreatedAt}
}

func (r *UserResolver) UpdatedAt() graphql.Time {
	return graphql.Time{Time: r.user.UpdatedAt}
}

// UserPayloadResolver is the {user, errors} result shared by every mutation.
type UserPayloadResolver struct {
	user   *UserResolver
	errors []string
}

func succeeded(user models.User) *UserPayloadResolver {
	return &UserPayloadResolver{user: &UserResolver{user: user}, errors: []string{}}
}

func (r *UserPayloadResolver) User() *UserResolver {
	return r.user
}

func (r *UserPayloadResolver) Errors() []string {
	if r.errors == nil {
		return []string{}
	}
	return r.errors
}
