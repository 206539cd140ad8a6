package ports

import "time"

// TokenClaims is the decoded payload of a verified bearer token.
type TokenClaims struct {
	UserID  string
	IsAdmin bool
}

// TokenIssuer signs and verifies expiring bearer tokens. Verify distinguishes
// an expired token (domain.ErrTokenExpired) from a malformed or tampered one
// (domain.ErrTokenInvalid); callers map both to the same unauthorized outcome
// but log them separately.
type TokenIssuer interface {
	Issue(userID string, admin bool, ttl time.Duration) (string, error)
	Verify(token string) (*TokenClaims, error)
}
