package ports

import (
	"context"

	"github.com/nimbusworks/userbase/internal/core/domain"
)

// Caller identifies the authenticated account performing an operation.
type Caller struct {
	ID      string
	IsAdmin bool
}

// CreateUserInput is the DTO for admin-initiated account creation.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput carries a partial profile update. Empty fields keep the
// previously stored value.
type UpdateUserInput struct {
	Name         string
	Email        string
	ProfileImage string
}

// UserService implements the user-management operations layered on the
// credential store. Ownership rules: Get and Update accept the target's own
// caller or an admin; List, Create and Delete are admin-only and gated at the
// route level.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, caller Caller, id string) (*domain.User, error)
	Update(ctx context.Context, caller Caller, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// SetProfileImage overwrites the image reference only, bypassing profile
	// field validation.
	SetProfileImage(ctx context.Context, id, ref string) (*domain.User, error)
}
