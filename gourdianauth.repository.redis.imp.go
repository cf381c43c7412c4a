// File: gourdianauth.repository.redis.imp.go

package gourdianauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshTokenPrefix = "refresh:"

// RedisRefreshTokenRepository is a Redis-backed implementation of
// RefreshTokenRepository. Expiry is delegated to Redis key TTLs.
type RedisRefreshTokenRepository struct {
	client *redis.Client
}

// NewRedisRefreshTokenRepository creates a new Redis-based refresh token repository
func NewRedisRefreshTokenRepository(client *redis.Client) (*RedisRefreshTokenRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisRefreshTokenRepository{
		client: client,
	}, nil
}

// SaveRefreshToken records a refresh token for the given subject by storing its hash
func (r *RedisRefreshTokenRepository) SaveRefreshToken(ctx context.Context, subjectID, token string, ttl time.Duration) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if subjectID == "" {
		return fmt.Errorf("subject ID cannot be empty")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	// Hash the token for secure storage
	key := refreshTokenPrefix + hashToken(token)

	return r.client.Set(ctx, key, subjectID, ttl).Err()
}

// LookupRefreshToken returns the subject a live refresh token belongs to
func (r *RedisRefreshTokenRepository) LookupRefreshToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token cannot be empty")
	}

	key := refreshTokenPrefix + hashToken(token)

	subjectID, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrRefreshTokenNotFound
		}
		return "", fmt.Errorf("redis error: %w", err)
	}

	return subjectID, nil
}

// RevokeRefreshToken removes a refresh token by its hash
func (r *RedisRefreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	key := refreshTokenPrefix + hashToken(token)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

// Close closes the underlying Redis client
func (r *RedisRefreshTokenRepository) Close() error {
	return r.client.Close()
}
