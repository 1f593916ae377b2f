package repositories

import (
	"context"

	"github.com/usergraph/backend/internal/models"
)

// UserRepository defines the data access contract for users.
//
// Writes validate the record first; a refused write returns a *ValidationError
// and leaves the store untouched.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Delete(ctx context.Context, user models.User) error
}
