package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hash of "secret" produced by werkzeug's generate_password_hash
const werkzeugHash = "pbkdf2:sha256:1000$NaCl1234$c63d55068de333b03174c8f309b826b67b39da28b35d02973de339c53ac7f5ed"

func TestPBKDF2Encoder_ReadsExistingHashes(t *testing.T) {
	encoder := NewPBKDF2Encoder()

	assert.True(t, encoder.IsMatching(werkzeugHash, "secret"))
	assert.False(t, encoder.IsMatching(werkzeugHash, "Secret"))
}

func TestPBKDF2Encoder_RoundTrip(t *testing.T) {
	encoder := &PBKDF2Encoder{Digest: "sha512", Iteration: 1000, SaltLength: 8}

	hash, err := encoder.GetPasswordHash("hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "pbkdf2:sha512:1000$"))
	assert.Len(t, strings.Split(hash, "$")[1], 8)

	assert.True(t, encoder.IsMatching(hash, "hunter2"))
	assert.False(t, encoder.IsMatching(hash, "hunter3"))

	other, err := encoder.GetPasswordHash("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salts should differ")
}

func TestPBKDF2Encoder_RejectsMalformedHashes(t *testing.T) {
	encoder := NewPBKDF2Encoder()

	for _, hash := range []string{
		"",
		"plain",
		"pbkdf2:sha256$salt$abcd",
		"pbkdf2:md5:1000$salt$abcd",
		"pbkdf2:sha256:zero$salt$abcd",
		"pbkdf2:sha256:1000$salt$not-hex",
		"$2a$10$abcdefghijklmnopqrstuv",
	} {
		assert.False(t, encoder.IsMatching(hash, "secret"), hash)
	}
}

func TestPBKDF2Encoder_UnsupportedDigest(t *testing.T) {
	_, err := PBKDF2Encoder{Digest: "md5", Iteration: 1, SaltLength: 4}.GetPasswordHash("x")
	assert.Error(t, err)
}
