package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nimbusworks/userbase/internal/core/domain"
	"github.com/nimbusworks/userbase/internal/core/ports"
)

type stubIdentityCache struct {
	invalidated []string
}

func (c *stubIdentityCache) Get(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (c *stubIdentityCache) Set(_ context.Context, _ *domain.User, _ time.Duration) error {
	return nil
}

func (c *stubIdentityCache) Invalidate(_ context.Context, id string) error {
	c.invalidated = append(c.invalidated, id)
	return nil
}

func newTestUserService(repo ports.UserRepository, cache ports.IdentityCache) *UserService {
	return NewUserService(repo, cache, zerolog.Nop())
}

func seedUser(t *testing.T, repo *stubUserRepo, name, email, password string, admin bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := repo.Create(context.Background(), &domain.User{
		Name: name, Email: email, PasswordHash: string(hash), IsAdmin: admin,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUserService_Create(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, &stubIdentityCache{})

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Frank", Email: "Frank@Example.com", Password: "pass123",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Email != "frank@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.IsAdmin {
		t.Fatalf("created user must not be admin")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Create_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, &stubIdentityCache{})
	seedUser(t, repo, "Frank", "frank@example.com", "pass123", false)

	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Other", Email: "frank@example.com", Password: "pass456",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Get_Ownership(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, &stubIdentityCache{})
	alice := seedUser(t, repo, "Alice", "alice@example.com", "pass123", false)
	bob := seedUser(t, repo, "Bob", "bob@example.com", "pass123", false)
	admin := seedUser(t, repo, "Root", "root@example.com", "pass123", true)

	if _, err := svc.Get(context.Background(), ports.Caller{ID: alice.ID}, alice.ID); err != nil {
		t.Fatalf("self read should succeed: %v", err)
	}
	if _, err := svc.Get(context.Background(), ports.Caller{ID: admin.ID, IsAdmin: true}, alice.ID); err != nil {
		t.Fatalf("admin read should succeed: %v", err)
	}
	if _, err := svc.Get(context.Background(), ports.Caller{ID: bob.ID}, alice.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Update_Partial(t *testing.T) {
	repo := newStubUserRepo()
	cache := &stubIdentityCache{}
	svc := newTestUserService(repo, cache)
	alice := seedUser(t, repo, "Alice", "alice@example.com", "pass123", false)

	updated, err := svc.Update(context.Background(), ports.Caller{ID: alice.ID}, alice.ID, ports.UpdateUserInput{Name: "Alicia"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Alicia" {
		t.Fatalf("name not updated: %s", updated.Name)
	}
	if updated.Email != "alice@example.com" {
		t.Fatalf("omitted email must keep its stored value, got %s", updated.Email)
	}

	stored, err := repo.FindByID(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Email != "alice@example.com" || stored.Name != "Alicia" {
		t.Fatalf("stored record wrong: %+v", stored)
	}

	if len(cache.invalidated) != 1 || cache.invalidated[0] != alice.ID {
		t.Fatalf("update must invalidate the identity cache: %v", cache.invalidated)
	}
}

func TestUserService_Update_InvalidEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, &stubIdentityCache{})
	alice := seedUser(t, repo, "Alice", "alice@example.com", "pass123", false)

	_, err := svc.Update(context.Background(), ports.Caller{ID: alice.ID}, alice.ID, ports.UpdateUserInput{Email: "nope"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserService_Update_Forbidden(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, &stubIdentityCache{})
	alice := seedUser(t, repo, "Alice", "alice@example.com", "pass123", false)
	bob := seedUser(t, repo, "Bob", "bob@example.com", "pass123", false)

	_, err := svc.Update(context.Background(), ports.Caller{ID: bob.ID}, alice.ID, ports.UpdateUserInput{Name: "Mallory"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	cache := &stubIdentityCache{}
	svc := newTestUserService(repo, cache)
	alice := seedUser(t, repo, "Alice", "alice@example.com", "pass123", false)

	if err := svc.Delete(context.Background(), alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("record should be gone, got %v", err)
	}
	if len(cache.invalidated) != 1 {
		t.Fatalf("delete must invalidate the identity cache")
	}

	if err := svc.Delete(context.Background(), alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestUserService_SetProfileImage(t *testing.T) {
	repo := newStubUserRepo()
	cache := &stubIdentityCache{}
	svc := newTestUserService(repo, cache)
	alice := seedUser(t, repo, "Alice", "alice@example.com", "pass123", false)

	updated, err := svc.SetProfileImage(context.Background(), alice.ID, "/uploads/alice.png")
	if err != nil {
		t.Fatalf("set profile image: %v", err)
	}
	if updated.ProfileImage != "/uploads/alice.png" {
		t.Fatalf("image reference not stored: %s", updated.ProfileImage)
	}
	if updated.Name != "Alice" || updated.Email != "alice@example.com" {
		t.Fatalf("other fields must be untouched: %+v", updated)
	}
	if len(cache.invalidated) != 1 {
		t.Fatalf("upload must invalidate the identity cache")
	}
}
