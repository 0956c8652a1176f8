package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, secret, SecretEncodedLen)
	assert.Regexp(t, urlSafe, secret)
}

func TestHashSecret(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	hash := HashSecret(secret)
	assert.Len(t, hash, 64)
	assert.NotEqual(t, secret, hash)
	assert.Equal(t, hash, HashSecret(secret))

	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashSecret("abc"))
}

func TestSecretMatches(t *testing.T) {
	hash := HashSecret("s3cret")

	assert.True(t, SecretMatches("s3cret", hash))
	assert.False(t, SecretMatches("s3cret!", hash))
	assert.False(t, SecretMatches("", hash))
	assert.False(t, SecretMatches("s3cret", ""))
}

func TestSecretUniqueness(t *testing.T) {
	const trials = 10000

	secrets := make(map[string]struct{}, trials)
	hashes := make(map[string]struct{}, trials)

	for i := 0; i < trials; i++ {
		secret, err := GenerateSecret()
		require.NoError(t, err)

		hash := HashSecret(secret)
		require.NotEqual(t, secret, hash)

		secrets[secret] = struct{}{}
		hashes[hash] = struct{}{}
	}

	assert.Len(t, secrets, trials)
	assert.Len(t, hashes, trials)
}

func TestKeyPreview(t *testing.T) {
	assert.Equal(t, "abcdefgh...wxyz", KeyPreview("abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "...", KeyPreview("short"))

	secret, err := GenerateSecret()
	require.NoError(t, err)
	preview := KeyPreview(secret)
	assert.Len(t, preview, 15)
	assert.NotContains(t, preview, secret[8:len(secret)-4])
}
