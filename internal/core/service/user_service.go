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

// UserService implements the user-management operations layered on the
// credential store. Every mutation invalidates the identity cache so the
// authentication gate never resolves stale or deleted accounts.
type UserService struct {
	repo  ports.UserRepository
	cache ports.IdentityCache
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, cache ports.IdentityCache, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, log: log}
}

// Create is the admin-initiated creation path. Unlike self-registration it
// accepts the input as-is apart from email normalization.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.NewValidationError("Please provide all required fields.")
	}

	email := domain.NormalizeEmail(in.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("create user: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user created by admin")
	return created, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, caller ports.Caller, id string) (*domain.User, error) {
	if caller.ID != id && !caller.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, caller ports.Caller, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if caller.ID != id && !caller.IsAdmin {
		return nil, domain.ErrForbidden
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Partial update: empty fields keep the stored value.
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		email := domain.NormalizeEmail(in.Email)
		if !domain.ValidEmail(email) {
			return nil, domain.NewValidationError("Invalid email format.")
		}
		user.Email = email
	}
	if in.ProfileImage != "" {
		user.ProfileImage = in.ProfileImage
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("identity cache invalidation failed")
	}

	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("identity cache invalidation failed")
	}

	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// SetProfileImage overwrites the image reference only. Profile field
// validation is deliberately skipped on this write path.
func (s *UserService) SetProfileImage(ctx context.Context, id, ref string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.ProfileImage = ref

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("identity cache invalidation failed")
	}

	return updated, nil
}
