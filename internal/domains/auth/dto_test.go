package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/pkg/hash"
)

// The password cap must agree with bcrypt's 72-byte input limit: anything
// validation lets through has to be hashable.
func TestPasswordLengthMatchesBcryptLimit(t *testing.T) {
	base := RegisterRequest{FirstName: "Ann", LastName: "Lee"}

	t.Run("72 bytes passes validation and hashes", func(t *testing.T) {
		req := base
		req.Password = strings.Repeat("a", 72)
		require.NoError(t, req.Validate())

		_, err := hash.Hash(req.Password)
		assert.NoError(t, err)
	})

	t.Run("73 bytes fails validation before hashing", func(t *testing.T) {
		req := base
		req.Password = strings.Repeat("a", 73)
		assert.Error(t, req.Validate())
	})

	t.Run("reset password follows the same bound", func(t *testing.T) {
		ok := ResetPasswordRequest{OTP: "123456", NewPassword: strings.Repeat("b", 72)}
		assert.NoError(t, ok.Validate())

		long := ResetPasswordRequest{OTP: "123456", NewPassword: strings.Repeat("b", 73)}
		assert.Error(t, long.Validate())
	})
}
