package gourdianauth

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EncodeToken builds a compact HMAC-SHA256 signed token carrying the issuer,
// audience and the supplied claims. When expiresAt is non-nil an exp claim is
// included; a token without exp trips ErrMissingExpirationClaim in
// IsTokenExpired, so omit it only for tokens that are never expiry-checked.
//
// Role claims are serialized under the shared "roles" payload key so that
// DecodeToken recovers them one claim per entry. Claims that repeat any other
// type are aggregated into a JSON array under that type.
//
// An empty secret is not rejected: the token is signed with whatever key
// material is supplied. Enforcing key strength is the job of
// GourdianAuthConfig validation, not of the codec.
func EncodeToken(secret []byte, issuer, audience string, claims []Claim, expiresAt *time.Time) (string, error) {
	payload := jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
	}
	if expiresAt != nil {
		payload["exp"] = expiresAt.Unix()
	}

	var roles []string
	for _, claim := range claims {
		if claim.Type == ClaimTypeRole {
			roles = append(roles, claim.Value)
			continue
		}
		switch existing := payload[claim.Type].(type) {
		case nil:
			payload[claim.Type] = claim.Value
		case string:
			payload[claim.Type] = []string{existing, claim.Value}
		case []string:
			payload[claim.Type] = append(existing, claim.Value)
		default:
			// A codec-written non-string slot (the numeric exp); the caller's
			// claim replaces it rather than being dropped
			payload[claim.Type] = claim.Value
		}
	}
	if len(roles) > 0 {
		payload["roles"] = roles
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// DecodeToken recovers the claim set from a compact token without checking
// the signature or expiration. It is a pure structural parse, usable for
// client-side inspection and for refresh flows where the token is known to be
// expired.
//
// The "roles" payload key is flattened into one role claim per entry (the
// value may be a single string or an array) and does not also surface as a
// literal "roles" claim. Every other payload key becomes a claim verbatim;
// non-string JSON values are rendered in their canonical string form.
func DecodeToken(tokenString string) (Claims, error) {
	payload, err := decodePayload(tokenString)
	if err != nil {
		return nil, err
	}

	claims := make(Claims, 0, len(payload))
	if rawRoles, ok := payload["roles"]; ok {
		delete(payload, "roles")
		switch v := rawRoles.(type) {
		case []interface{}:
			for _, entry := range v {
				claims = append(claims, Claim{Type: ClaimTypeRole, Value: canonicalValue(entry)})
			}
		default:
			claims = append(claims, Claim{Type: ClaimTypeRole, Value: canonicalValue(v)})
		}
	}

	// JSON objects are unordered; sort the remaining keys so repeated decodes
	// of the same token yield the same claim order.
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		switch v := payload[key].(type) {
		case []interface{}:
			for _, entry := range v {
				claims = append(claims, Claim{Type: key, Value: canonicalValue(entry)})
			}
		default:
			claims = append(claims, Claim{Type: key, Value: canonicalValue(v)})
		}
	}

	return claims, nil
}

// IsTokenExpired reports whether the token's exp claim is at or before the
// current UTC time. The boundary is inclusive: a token expiring exactly now is
// expired. A payload without exp fails with ErrMissingExpirationClaim rather
// than being treated as never-expiring, so issuance bugs surface instead of
// silently disabling expiry.
func IsTokenExpired(tokenString string) (bool, error) {
	payload, err := decodePayload(tokenString)
	if err != nil {
		return false, err
	}

	rawExp, ok := payload["exp"]
	if !ok {
		return false, ErrMissingExpirationClaim
	}
	num, ok := rawExp.(json.Number)
	if !ok {
		return false, fmt.Errorf("%w: exp claim is not numeric", ErrMalformedToken)
	}
	expUnix, err := num.Int64()
	if err != nil {
		return false, fmt.Errorf("%w: exp claim is not an integer: %v", ErrMalformedToken, err)
	}

	return expUnix <= time.Now().UTC().Unix(), nil
}

// ValidateToken verifies the token's HMAC-SHA256 signature under the supplied
// secret and returns the recovered claim set. Expiration is deliberately not
// checked: this path exists to recover identity from an expired access token
// during a refresh exchange. Issuer and audience checks are likewise disabled;
// the caller is trusted to have matched them out of band.
//
// A token signed with a different secret, or declaring any algorithm other
// than HS256, fails with ErrInvalidSignature.
func ValidateToken(tokenString string, secret []byte) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return DecodeToken(tokenString)
}

// GenerateOpaqueSecret produces 32 cryptographically-random bytes rendered as
// standard base64. The result carries no structure; it is a capability token
// whose validity is established purely by server-side lookup.
func GenerateOpaqueSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// decodePayload extracts the payload segment of a compact token as a JSON
// object. Numbers are kept as json.Number so integer timestamps survive
// without float rounding.
func decodePayload(tokenString string) (map[string]interface{}, error) {
	segments := strings.Split(tokenString, ".")
	if len(segments) < 2 {
		return nil, fmt.Errorf("%w: expected at least two dot-separated segments", ErrMalformedToken)
	}

	// Tolerate both padded and unpadded base64url payloads.
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(segments[1], "="))
	if err != nil {
		return nil, fmt.Errorf("%w: payload segment is not valid base64url: %v", ErrMalformedToken, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object: %v", ErrMalformedToken, err)
	}
	// Decode accepts the JSON literal null into a nil map
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedToken)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: payload has trailing data after the JSON object", ErrMalformedToken)
	}
	return payload, nil
}

// canonicalValue renders a decoded JSON value as its canonical string form:
// strings verbatim, numbers as written, booleans as true/false, null as the
// empty string, and composite values as compact JSON.
func canonicalValue(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		if value {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(encoded)
	}
}
