package ports

import (
	"context"
	"time"

	"github.com/nimbusworks/userbase/internal/core/domain"
)

// IdentityCache is a best-effort, TTL-bounded cache of resolved identities
// consulted by the authentication gate. Writers must invalidate on every
// mutation or deletion so a removed account is never resolved from cache.
type IdentityCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User, ttl time.Duration) error
	Invalidate(ctx context.Context, id string) error
}
