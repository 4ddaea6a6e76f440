package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record, mapped 1:1 to the users table.
type User struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Email    string    `db:"email" json:"email"`
	Username string    `db:"username" json:"username"`

	PasswordHash string `db:"password_hash" json:"-"` // never expose in JSON

	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Bio       *string `db:"bio" json:"bio,omitempty"`
	Address   *string `db:"address" json:"address,omitempty"`
	Phone     *string `db:"phone" json:"phone,omitempty"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url,omitempty"`

	IsSeller bool `db:"is_seller" json:"is_seller"`
	IsAdmin  bool `db:"is_admin" json:"is_admin"`

	// Password reset. The code is stored bcrypt-hashed, same policy as the
	// registration OTP. Cleared on successful reset.
	ResetCodeHash      *string    `db:"reset_code_hash" json:"-"`
	ResetCodeExpiresAt *time.Time `db:"reset_code_expires_at" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsResetCodeValid reports whether a reset code is set and unexpired.
func (u *User) IsResetCodeValid() bool {
	if u.ResetCodeHash == nil || u.ResetCodeExpiresAt == nil {
		return false
	}
	return time.Now().Before(*u.ResetCodeExpiresAt)
}

// DTO is the client-facing shape of a User. No credential material.
type DTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       *string   `json:"bio,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	IsSeller  bool      `json:"is_seller"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) ToDTO() DTO {
	return DTO{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Address:   u.Address,
		Phone:     u.Phone,
		AvatarURL: u.AvatarURL,
		IsSeller:  u.IsSeller,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
