package model

import "time"

// User represents a member of a grove
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	DiscordName string    `json:"discord_name"`
	IsMod       bool      `json:"is_mod"`
	GroveID     string    `json:"grove_id"`
	Hash        string    `json:"-"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`

	// Pending login code, stored as a bcrypt hash
	TwoFactorHash    *string    `json:"-"`
	TwoFactorExpires *time.Time `json:"-"`
}

// Token is an opaque login token. Only the SHA-256 of the raw value is stored.
type Token struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresOn time.Time `json:"expires_on"`
	CreatedOn time.Time `json:"created_on"`
}

// IsExpired reports whether the token is past its expiry
func (t *Token) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresOn)
}

const (
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
	MaxDisplayNameLength = 255
	TwoFactorCodeLength  = 6
)

// TwoFactorRequest asks for a login code to be mailed
type TwoFactorRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest completes a login with the mailed code
type LoginRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	TwoFactorCode string `json:"two_factor_code" validate:"required,len=6,numeric"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// ForgotPasswordRequest notifies the mods of the user's grove
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest changes the logged in user's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// UpdateProfileRequest is used by users on themselves and by mods on others
type UpdateProfileRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,max=255"`
	DiscordName string `json:"discord_name" validate:"max=255"`
}

// CreateUserRequest adds a user to the mod's grove
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,max=255"`
	DiscordName string `json:"discord_name" validate:"max=255"`
	IsMod       bool   `json:"is_mod"`
}
