package hash

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", digest)

	assert.True(t, Verify("s3cret", digest))
	assert.False(t, Verify("wrong", digest))
	assert.False(t, Verify("s3cret", "not-a-bcrypt-digest"))
}

func TestHashProducesUniqueDigests(t *testing.T) {
	a, err := Hash("same")
	require.NoError(t, err)
	b, err := Hash("same")
	require.NoError(t, err)

	// bcrypt salts every digest.
	assert.NotEqual(t, a, b)
	assert.True(t, Verify("same", a))
	assert.True(t, Verify("same", b))
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestOTPRoundTrip(t *testing.T) {
	code, err := GenerateOTP()
	require.NoError(t, err)

	digest, err := Hash(code)
	require.NoError(t, err)

	assert.True(t, Verify(code, digest))
	assert.False(t, Verify("000000", digest))
}
