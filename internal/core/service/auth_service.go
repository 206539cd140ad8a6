package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nimbusworks/userbase/internal/core/domain"
	"github.com/nimbusworks/userbase/internal/core/ports"
)

// bcryptCost matches the fixed cost factor used for every stored hash.
const bcryptCost = 10

// AuthService implements registration and the two login flows.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return "", nil, domain.NewValidationError("Please provide all required fields.")
	}

	email := domain.NormalizeEmail(in.Email)
	if !domain.ValidEmail(email) {
		return "", nil, domain.NewValidationError("Invalid email format.")
	}
	if len(in.Password) < domain.MinPasswordLen {
		return "", nil, domain.NewValidationError("Password must be at least 6 characters long.")
	}

	// Pre-check for a friendlier conflict path; the unique index on email is
	// the actual guarantee and Create maps its rejection to the same error.
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("register: hash password: %w", err)
	}

	// Admin flag is forced off on self-registration regardless of the payload.
	user := &domain.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      false,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created.ID, false, domain.LoginTokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("register: issue token: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")

	return token, created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Unknown email and wrong password are indistinguishable to the
			// caller (enumeration resistance).
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: lookup email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, false, domain.LoginTokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	return token, user, nil
}

func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("admin login: lookup email: %w", err)
	}

	// The admin flag is checked before the password, so a non-admin account
	// receives a 403 without its password being verified.
	if !user.IsAdmin {
		s.log.Warn().Str("user_id", user.ID).Msg("admin login rejected for non-admin account")
		return "", nil, domain.ErrNotAdmin
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, true, domain.LoginTokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("admin login: issue token: %w", err)
	}

	return token, user, nil
}

// TokenForUser issues a short-lived token bound to an existing account.
func (s *AuthService) TokenForUser(user *domain.User) (string, error) {
	return s.tokens.Issue(user.ID, false, domain.UserTokenTTL)
}
