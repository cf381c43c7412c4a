// tests_helpers.go

package gourdianauth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Test Helper Functions

const testSigningSecret = "test-signing-secret-32-bytes-min!!"

func testRedisOptions() *redis.Options {
	return &redis.Options{
		Addr:     "127.0.0.1:6379",
		Password: "",
		DB:       0,
	}
}

func redisTestClient(t *testing.T) *redis.Client {
	client := redis.NewClient(testRedisOptions())
	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Skip("Redis not available, skipping test")
	}
	return client
}

func testIdentityClaims() []Claim {
	return []Claim{
		{Type: ClaimTypeNameIdentifier, Value: "user123"},
		{Type: ClaimTypeEmail, Value: "user@example.com"},
		{Type: ClaimTypeRole, Value: "Admin"},
	}
}

func encodeTestToken(t *testing.T, claims []Claim, expiresAt *time.Time) string {
	t.Helper()

	token, err := EncodeToken([]byte(testSigningSecret), "test-issuer", "test-audience", claims, expiresAt)
	require.NoError(t, err)
	return token
}
