package gourdianauth

import (
	"context"
	"time"
)

// RefreshTokenRepository is the server-side lookup store that gives opaque
// refresh tokens their validity. Implementations persist only the sha256 hash
// of the token value alongside the subject it was issued to, bounded by a
// TTL.
//
// Four implementations are provided: in-memory (development and tests),
// Redis, GORM-backed SQL, and MongoDB.
type RefreshTokenRepository interface {
	// SaveRefreshToken records a refresh token for the given subject with the
	// given time to live.
	SaveRefreshToken(ctx context.Context, subjectID, token string, ttl time.Duration) error

	// LookupRefreshToken returns the subject a live refresh token was issued
	// to, or ErrRefreshTokenNotFound when the token is unknown, revoked, or
	// past its TTL.
	LookupRefreshToken(ctx context.Context, token string) (string, error)

	// RevokeRefreshToken removes a refresh token. Revoking an unknown token is
	// not an error.
	RevokeRefreshToken(ctx context.Context, token string) error

	// Close releases resources held by the repository.
	Close() error
}
