package gourdianauth

import (
	"fmt"
	"time"
)

// GourdianAuthConfig holds the configuration for token issuance.
//
// Fields:
//   - Issuer: Value of the iss claim on issued tokens
//   - Audience: Value of the aud claim on issued tokens
//   - SigningSecret: HMAC-SHA256 key material (minimum 32 bytes)
//   - AccessTokenTTL: Access token validity duration
//   - RefreshTokenTTL: Opaque refresh token validity duration
type GourdianAuthConfig struct {
	Issuer          string
	Audience        string
	SigningSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// DefaultGourdianAuthConfig returns a configuration with conventional
// lifetimes: 30 minute access tokens and 7 day refresh tokens.
func DefaultGourdianAuthConfig(signingSecret string) GourdianAuthConfig {
	return GourdianAuthConfig{
		SigningSecret:   signingSecret,
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

// validateConfig validates the configuration. Key strength is enforced here
// rather than in the codec, which deliberately signs with whatever secret it
// is handed.
func validateConfig(config *GourdianAuthConfig) error {
	if config.SigningSecret == "" {
		return fmt.Errorf("signing secret is required")
	}
	if len(config.SigningSecret) < 32 {
		return fmt.Errorf("signing secret must be at least 32 bytes")
	}
	if config.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token TTL must be positive")
	}
	if config.RefreshTokenTTL <= 0 {
		return fmt.Errorf("refresh token TTL must be positive")
	}
	return nil
}
