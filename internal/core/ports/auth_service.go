package ports

import (
	"context"

	"github.com/nimbusworks/userbase/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService implements registration and the two login flows.
type AuthService interface {
	// Register creates an account with the admin flag forced off and returns
	// a fresh login token alongside the stored user.
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	// Login authenticates by email and password. Unknown email and wrong
	// password collapse into the same domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// AdminLogin additionally requires the admin flag and issues a token that
	// asserts it in the claims.
	AdminLogin(ctx context.Context, email, password string) (string, *domain.User, error)
	// TokenForUser issues a short-lived token bound to an existing account.
	TokenForUser(user *domain.User) (string, error)
}
