// hash_test.go

package gourdianauth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lowercaseHex = regexp.MustCompile(`^[0-9a-f]+$`)

func TestComputeHash(t *testing.T) {
	t.Run("SHA256 Known Vector", func(t *testing.T) {
		digest, err := ComputeHash([]byte(""), SHA256)
		require.NoError(t, err)
		assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", digest)
	})

	t.Run("SHA256 Output Shape", func(t *testing.T) {
		digest, err := ComputeHash([]byte("gourdianauth"), SHA256)
		require.NoError(t, err)
		assert.Len(t, digest, 64)
		assert.Regexp(t, lowercaseHex, digest)
	})

	t.Run("SHA512 Output Shape", func(t *testing.T) {
		digest, err := ComputeHash([]byte("gourdianauth"), SHA512)
		require.NoError(t, err)
		assert.Len(t, digest, 128)
		assert.Regexp(t, lowercaseHex, digest)
	})

	t.Run("Deterministic", func(t *testing.T) {
		first, err := ComputeHash([]byte("same input"), SHA512)
		require.NoError(t, err)
		second, err := ComputeHash([]byte("same input"), SHA512)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Unsupported Algorithm", func(t *testing.T) {
		_, err := ComputeHash([]byte("data"), HashAlgorithm("MD5"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedHashAlgorithm)
	})
}

func TestHashToken(t *testing.T) {
	first := hashToken("some-token")
	second := hashToken("some-token")
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, hashToken("another-token"))
}
