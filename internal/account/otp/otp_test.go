package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	for range 20 {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestHashAndVerify(t *testing.T) {
	code, err := Generate()
	require.NoError(t, err)

	hash, err := Hash(code)
	require.NoError(t, err)

	// The persisted digest must never equal the plaintext code.
	assert.NotEqual(t, code, hash)

	assert.True(t, Verify(hash, code))
	assert.False(t, Verify(hash, "000000"))
	assert.False(t, Verify("", code))
}
