package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nimbusworks/userbase/internal/core/domain"
	"github.com/nimbusworks/userbase/internal/core/ports"
)

// JWTIssuer signs and verifies HS256 tokens with a process-wide key loaded
// once at startup.
type JWTIssuer struct {
	secret []byte
}

// NewJWTIssuer fails when the signing key is absent so the process never
// silently issues unsigned tokens.
func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("token issuer: signing key is empty")
	}
	return &JWTIssuer{secret: []byte(secret)}, nil
}

func (i *JWTIssuer) Issue(userID string, admin bool, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = domain.LoginTokenTTL
	}

	claims := jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(ttl).Unix(),
	}
	if admin {
		claims["isAdmin"] = true
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

func (i *JWTIssuer) Verify(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return nil, domain.ErrTokenInvalid
	}
	admin, _ := claims["isAdmin"].(bool)

	return &ports.TokenClaims{UserID: id, IsAdmin: admin}, nil
}
