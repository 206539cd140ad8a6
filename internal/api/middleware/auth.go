package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nimbusworks/userbase/internal/api/metrics"
	"github.com/nimbusworks/userbase/internal/core/domain"
	"github.com/nimbusworks/userbase/internal/core/ports"
)

// UserContextKey is where Authenticate stores the resolved identity on the
// echo context. The stored value is a *domain.User with an empty password
// hash.
const UserContextKey = "user"

// identityCacheTTL bounds staleness of cached identities between explicit
// invalidations.
const identityCacheTTL = 5 * time.Minute

// Authenticate validates the bearer token, resolves the subject against the
// credential store and injects the identity into the request context.
// A missing token is rejected before any verification is attempted; a token
// whose subject no longer exists is rejected even when the signature and
// expiry are valid.
func Authenticate(tokens ports.TokenIssuer, repo ports.UserRepository, cache ports.IdentityCache, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if authHeader == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "Access denied, token missing")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
				log.Debug().Str("reason", reason).Str("path", c.Path()).Msg("bearer token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			user, err := resolveIdentity(c, claims.UserID, repo, cache, log)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.TokenRejectionsTotal.WithLabelValues("unknown_user").Inc()
					return echo.NewHTTPError(http.StatusNotFound, "User not found")
				}
				return err
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// resolveIdentity looks the subject up in the cache first and falls back to
// the store. Cache failures degrade to a store lookup, never to a rejection.
func resolveIdentity(c echo.Context, id string, repo ports.UserRepository, cache ports.IdentityCache, log zerolog.Logger) (*domain.User, error) {
	ctx := c.Request().Context()

	if cached, err := cache.Get(ctx, id); err == nil {
		metrics.IdentityCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		log.Warn().Err(err).Msg("identity cache lookup failed, falling back to store")
	}

	metrics.IdentityCacheTotal.WithLabelValues("miss").Inc()

	user, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The context copy never carries the hash.
	user.PasswordHash = ""

	if err := cache.Set(ctx, user, identityCacheTTL); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("identity cache store failed")
	}

	return user, nil
}
