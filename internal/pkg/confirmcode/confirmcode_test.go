package confirmcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateDistinctDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, Length)

		seen := map[rune]bool{}
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "non-digit in %q", code)
			assert.False(t, seen[r], "repeated digit in %q", code)
			seen[r] = true
		}
	}
}

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("482913", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "482913", hash)

	assert.True(t, Verify(hash, "482913"))
	assert.False(t, Verify(hash, "482914"))
	assert.False(t, Verify("", "482913"))
	assert.False(t, Verify("not-a-hash", "482913"))
}

func TestHashFallsBackOnBadCost(t *testing.T) {
	hash, err := Hash("123456", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
