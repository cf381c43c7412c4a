package gourdianauth

import "errors"

var (
	// ErrMalformedToken indicates a token that is structurally invalid: fewer
	// than two dot-separated segments, a payload segment that is not valid
	// base64url, or payload bytes that are not a JSON object.
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidSignature indicates a signature that does not verify under the
	// supplied secret, or a token whose declared algorithm is not HMAC-SHA256.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrMissingExpirationClaim indicates a payload without an exp claim.
	ErrMissingExpirationClaim = errors.New("missing expiration claim")

	// ErrIdentityNotResolvable indicates a claim set with no usable subject
	// identifier under any of the candidate claim types.
	ErrIdentityNotResolvable = errors.New("identity not resolvable")

	// ErrUnsupportedAttributeType indicates an attribute element type outside
	// the supported set (text, integer, float, boolean, enumeration).
	ErrUnsupportedAttributeType = errors.New("unsupported attribute type")

	// ErrAttributeParseFailure indicates an attribute segment that could not be
	// parsed into the requested element type.
	ErrAttributeParseFailure = errors.New("attribute parse failure")

	// ErrUnsupportedHashAlgorithm indicates a hash algorithm outside the
	// supported set (SHA256, SHA512).
	ErrUnsupportedHashAlgorithm = errors.New("unsupported hash algorithm")

	// ErrRefreshTokenNotFound indicates an opaque refresh token with no live
	// entry in the repository.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	// ErrSessionNotFound indicates that no token is stored for the current
	// session.
	ErrSessionNotFound = errors.New("session not found")
)
