package ginblog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCrypt(t *testing.T) {
	crypt := NewCryptWithCost(bcrypt.MinCost)

	hash, err := crypt.GetPasswordHash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, crypt.IsMatching(hash, "secret"))
	assert.False(t, crypt.IsMatching(hash, "wrong"))
	assert.False(t, crypt.IsMatching("not-a-hash", "secret"))
}
