// codec_test.go

package gourdianauth

import (
	"encoding/base64"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeDecodeRoundTrip verifies that every encoded claim survives a
// structural decode, including the roles flattening.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Run("Identity Claims", func(t *testing.T) {
		expiresAt := time.Now().Add(10 * time.Minute)
		token := encodeTestToken(t, testIdentityClaims(), &expiresAt)

		claims, err := DecodeToken(token)
		require.NoError(t, err)

		for _, expected := range testIdentityClaims() {
			assert.True(t, claims.Has(expected.Type, expected.Value), "missing claim %s=%s", expected.Type, expected.Value)
		}
		assert.True(t, claims.Has("iss", "test-issuer"))
		assert.True(t, claims.Has("aud", "test-audience"))
	})

	t.Run("Multiple Roles Flatten One Claim Per Entry", func(t *testing.T) {
		token := encodeTestToken(t, []Claim{
			{Type: ClaimTypeNameIdentifier, Value: "user123"},
			{Type: ClaimTypeRole, Value: "Admin"},
			{Type: ClaimTypeRole, Value: "Auditor"},
		}, nil)

		claims, err := DecodeToken(token)
		require.NoError(t, err)

		assert.Equal(t, []string{"Admin", "Auditor"}, claims.Roles())
		// The shared payload key must not also surface as a literal claim
		_, ok := claims.First("roles")
		assert.False(t, ok)
	})

	t.Run("Explicit Exp Claim Replaces Codec-Written Exp", func(t *testing.T) {
		expiresAt := time.Now().Add(10 * time.Minute)
		override := time.Now().Add(time.Hour).Unix()
		token := encodeTestToken(t, []Claim{
			{Type: ClaimTypeNameIdentifier, Value: "user123"},
			{Type: ClaimTypeExpires, Value: strconv.FormatInt(override, 10)},
		}, &expiresAt)

		claims, err := DecodeToken(token)
		require.NoError(t, err)
		assert.Equal(t, []string{strconv.FormatInt(override, 10)}, claims.All(ClaimTypeExpires))
	})

	t.Run("No Expiration Claim When ExpiresAt Nil", func(t *testing.T) {
		token := encodeTestToken(t, testIdentityClaims(), nil)

		claims, err := DecodeToken(token)
		require.NoError(t, err)

		_, ok := claims.First(ClaimTypeExpires)
		assert.False(t, ok)
	})
}

func TestDecodeMalformedTokens(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"Empty String", ""},
		{"Single Segment", "justonesegment"},
		{"Payload Not Base64", "header.!!!not-base64!!!.sig"},
		{"Payload Not JSON", "header." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig"},
		{"Payload JSON Array", "header." + base64.RawURLEncoding.EncodeToString([]byte(`["a","b"]`)) + ".sig"},
		{"Payload JSON Null", "header." + base64.RawURLEncoding.EncodeToString([]byte(`null`)) + ".sig"},
		{"Payload Trailing Garbage", "header." + base64.RawURLEncoding.EncodeToString([]byte(`{"a":1}garbage`)) + ".sig"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeToken(tc.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestDecodeIgnoresSignatureAndExpiry(t *testing.T) {
	t.Run("Tampered Signature Still Decodes", func(t *testing.T) {
		token := encodeTestToken(t, testIdentityClaims(), nil)
		tampered := tamperSignature(t, token)

		claims, err := DecodeToken(tampered)
		require.NoError(t, err)
		assert.True(t, claims.Has(ClaimTypeNameIdentifier, "user123"))
	})

	t.Run("Expired Token Still Decodes", func(t *testing.T) {
		expiresAt := time.Now().Add(-5 * time.Minute)
		token := encodeTestToken(t, testIdentityClaims(), &expiresAt)

		claims, err := DecodeToken(token)
		require.NoError(t, err)
		assert.True(t, claims.Has(ClaimTypeEmail, "user@example.com"))
	})

	t.Run("Unpadded And Padded Payload Segments", func(t *testing.T) {
		payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"abc"}`))
		for _, padded := range []string{payload, payload + "=="} {
			claims, err := DecodeToken("h." + padded + ".s")
			require.NoError(t, err)
			assert.True(t, claims.Has("sub", "abc"))
		}
	})
}

// TestDecodeCanonicalValues verifies that non-string payload values surface
// as claims in their canonical string form.
func TestDecodeCanonicalValues(t *testing.T) {
	payload := `{"count":42,"ratio":1.5,"active":true,"missing":null,"nested":{"a":1},"roles":"Admin"}`
	token := "h." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".s"

	claims, err := DecodeToken(token)
	require.NoError(t, err)

	assert.True(t, claims.Has("count", "42"))
	assert.True(t, claims.Has("ratio", "1.5"))
	assert.True(t, claims.Has("active", "true"))
	assert.True(t, claims.Has("missing", ""))
	assert.True(t, claims.Has("nested", `{"a":1}`))
	assert.Equal(t, []string{"Admin"}, claims.Roles())
}

func TestIsTokenExpired(t *testing.T) {
	t.Run("Expired Token", func(t *testing.T) {
		expiresAt := time.Now().Add(-5 * time.Minute)
		token := encodeTestToken(t, testIdentityClaims(), &expiresAt)

		expired, err := IsTokenExpired(token)
		require.NoError(t, err)
		assert.True(t, expired)
	})

	t.Run("Boundary Is Inclusive", func(t *testing.T) {
		// exp equal to now (to the second) counts as expired
		expiresAt := time.Now()
		token := encodeTestToken(t, testIdentityClaims(), &expiresAt)

		expired, err := IsTokenExpired(token)
		require.NoError(t, err)
		assert.True(t, expired)
	})

	t.Run("Future Token", func(t *testing.T) {
		expiresAt := time.Now().Add(10 * time.Minute)
		token := encodeTestToken(t, testIdentityClaims(), &expiresAt)

		expired, err := IsTokenExpired(token)
		require.NoError(t, err)
		assert.False(t, expired)
	})

	t.Run("Missing Expiration Claim", func(t *testing.T) {
		token := encodeTestToken(t, testIdentityClaims(), nil)

		_, err := IsTokenExpired(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingExpirationClaim)
	})

	t.Run("Non Numeric Expiration Claim", func(t *testing.T) {
		payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp":"tomorrow"}`))
		_, err := IsTokenExpired("h." + payload + ".s")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})
}

func TestValidateToken(t *testing.T) {
	t.Run("Valid Token", func(t *testing.T) {
		expiresAt := time.Now().Add(time.Hour)
		token := encodeTestToken(t, testIdentityClaims(), &expiresAt)

		claims, err := ValidateToken(token, []byte(testSigningSecret))
		require.NoError(t, err)
		assert.True(t, claims.Has(ClaimTypeNameIdentifier, "user123"))
	})

	t.Run("Expired Token Still Validates", func(t *testing.T) {
		// Refresh flows recover identity from expired tokens
		expiresAt := time.Now().Add(-5 * time.Minute)
		token := encodeTestToken(t, testIdentityClaims(), &expiresAt)

		claims, err := ValidateToken(token, []byte(testSigningSecret))
		require.NoError(t, err)
		assert.True(t, claims.Has(ClaimTypeEmail, "user@example.com"))
		assert.Equal(t, []string{"Admin"}, claims.Roles())
	})

	t.Run("Tampered Signature", func(t *testing.T) {
		token := encodeTestToken(t, testIdentityClaims(), nil)
		tampered := tamperSignature(t, token)

		_, err := ValidateToken(tampered, []byte(testSigningSecret))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		token := encodeTestToken(t, testIdentityClaims(), nil)

		_, err := ValidateToken(token, []byte("a-completely-different-secret-key!!"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("None Algorithm Rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user123"})
		tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ValidateToken(tokenString, []byte(testSigningSecret))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("HS512 Algorithm Rejected", func(t *testing.T) {
		other := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "user123"})
		tokenString, err := other.SignedString([]byte(testSigningSecret))
		require.NoError(t, err)

		_, err = ValidateToken(tokenString, []byte(testSigningSecret))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Structurally Broken Token", func(t *testing.T) {
		_, err := ValidateToken("not-a-token", []byte(testSigningSecret))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})
}

func TestGenerateOpaqueSecret(t *testing.T) {
	t.Run("Decodes To 32 Bytes", func(t *testing.T) {
		secret, err := GenerateOpaqueSecret()
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(secret)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	})

	t.Run("Unique Across Calls", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			secret, err := GenerateOpaqueSecret()
			require.NoError(t, err)
			_, dup := seen[secret]
			require.False(t, dup)
			seen[secret] = struct{}{}
		}
	})
}

// TestEmptySecretSigning documents that the codec does not guard against
// empty key material; strength enforcement belongs to config validation.
func TestEmptySecretSigning(t *testing.T) {
	token, err := EncodeToken(nil, "iss", "aud", testIdentityClaims(), nil)
	require.NoError(t, err)

	claims, err := ValidateToken(token, nil)
	require.NoError(t, err)
	assert.True(t, claims.Has(ClaimTypeNameIdentifier, "user123"))
}

// tamperSignature corrupts the signature segment while keeping it valid
// base64url. The first character is replaced so the change lands in real
// signature bits rather than discarded trailing bits.
func tamperSignature(t *testing.T, token string) string {
	t.Helper()

	segments := strings.Split(token, ".")
	require.Len(t, segments, 3)

	signature := segments[2]
	replacement := byte('A')
	if signature[0] == replacement {
		replacement = 'B'
	}
	segments[2] = string(replacement) + signature[1:]
	return strings.Join(segments, ".")
}
