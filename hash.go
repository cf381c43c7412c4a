package gourdianauth

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
)

// HashAlgorithm identifies a supported digest algorithm.
type HashAlgorithm string

const (
	SHA256 HashAlgorithm = "SHA256"
	SHA512 HashAlgorithm = "SHA512"
)

// ComputeHash digests data with the given algorithm and returns the result as
// lowercase hex: 64 characters for SHA256, 128 for SHA512. Any other
// algorithm fails with ErrUnsupportedHashAlgorithm.
func ComputeHash(data []byte, algorithm HashAlgorithm) (string, error) {
	switch algorithm {
	case SHA256:
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	case SHA512:
		sum := sha512.Sum512(data)
		return hex.EncodeToString(sum[:]), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedHashAlgorithm, algorithm)
	}
}

// hashToken derives the sha256 hex digest under which a token is stored. Raw
// token values never reach a repository.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
