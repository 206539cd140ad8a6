package ports

import (
	"context"

	"github.com/nimbusworks/userbase/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Email uniqueness is enforced by the store itself (unique index): Create
// must translate a duplicate-key rejection into domain.ErrUserExists so that
// a race between two concurrent registrations resolves identically to the
// pre-check path.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	// Update persists the mutable fields of user and returns the stored record.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
