package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the data-access contract for users. Implementations map
// store-level uniqueness violations to ErrUserAlreadyExists so the service
// layer can treat the database constraint as the final arbiter under
// concurrent registration.
type Repository interface {
	// Create inserts a new user.
	// Returns ErrUserAlreadyExists on an email or username collision.
	Create(ctx context.Context, u *User) error

	// FindByID returns ErrUserNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail returns ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail is used by the OTP flow to reject already-registered emails.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Update persists profile fields.
	Update(ctx context.Context, u *User) error

	// SetResetCode stores the hashed reset code and its expiry.
	SetResetCode(ctx context.Context, id uuid.UUID, codeHash string, expiresAt time.Time) error

	// UpdatePassword sets a new password hash and clears the reset code,
	// making the code single-use.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// Delete removes the user row.
	Delete(ctx context.Context, id uuid.UUID) error
}
