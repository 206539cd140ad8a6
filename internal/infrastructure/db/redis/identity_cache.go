package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimbusworks/userbase/internal/core/domain"
)

// IdentityCache caches resolved identities for the authentication gate.
// Key format: identity:<user_id>
type IdentityCache struct {
	client *redis.Client
}

// NewIdentityCache creates an IdentityCache wrapping the given Redis client.
func NewIdentityCache(client *redis.Client) *IdentityCache {
	return &IdentityCache{client: client}
}

type cachedIdentity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_admin"`
	ProfileImage string `json:"profile_image,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Get returns the cached identity or domain.ErrUserNotFound on a miss. The
// password hash is never cached, so a user resolved from cache carries an
// empty hash.
func (c *IdentityCache) Get(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("identity cache get: %w", err)
	}

	var ci cachedIdentity
	if err := json.Unmarshal(raw, &ci); err != nil {
		return nil, fmt.Errorf("identity cache decode: %w", err)
	}

	return &domain.User{
		ID:           ci.ID,
		Name:         ci.Name,
		Email:        ci.Email,
		IsAdmin:      ci.IsAdmin,
		ProfileImage: ci.ProfileImage,
		CreatedAt:    time.Unix(ci.CreatedAt, 0).UTC(),
		UpdatedAt:    time.Unix(ci.UpdatedAt, 0).UTC(),
	}, nil
}

// Set stores the identity projection for ttl.
func (c *IdentityCache) Set(ctx context.Context, user *domain.User, ttl time.Duration) error {
	raw, err := json.Marshal(cachedIdentity{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("identity cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, ttl).Err()
}

// Invalidate drops the cached identity. Called on every update, upload and
// delete so a removed account cannot authenticate from cache.
func (c *IdentityCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *IdentityCache) key(id string) string {
	return "identity:" + id
}
