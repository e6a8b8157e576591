package auth

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the stored principal. It is the only place the password hash
// lives; hand callers the Public projection instead.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username"`
	FullName       string     `bun:"full_name" json:"full_name,omitempty"`
	ProfilePicture string     `bun:"profile_picture" json:"profile_picture,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email"`
	Disabled       bool       `bun:"disabled" json:"disabled"`
	EmailVerified  bool       `bun:"is_email_verified" json:"is_email_verified"`
	IsAdmin        bool       `bun:"is_admin" json:"is_admin"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasPassword reports whether password login is possible for this
// principal. Federation-only accounts carry no hash.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != ""
}

// Public derives the client-safe projection. The hash never crosses
// this boundary.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}

	return &PublicUser{
		Username:       u.Username,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
		Email:          u.Email,
		Disabled:       u.Disabled,
		EmailVerified:  u.EmailVerified,
		IsAdmin:        u.IsAdmin,
	}
}

// Clone returns a copy so stores can hand out records without sharing
// mutable state with callers.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// PublicUser is the principal without credentials.
type PublicUser struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Email          string `json:"email"`
	Disabled       bool   `json:"disabled"`
	EmailVerified  bool   `json:"is_email_verified"`
	IsAdmin        bool   `json:"is_admin"`
}

// NewUser is the registration payload.
type NewUser struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

func (r NewUser) Validate() error {
	return validation.ValidateStruct(&r,
		// Username falls back to the email local part when omitted.
		validation.Field(&r.Username, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.ProfilePicture, is.URL),
	)
}

// Token is the issued credential wrapper handed back to callers.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenTypeBearer is the only token type this package issues.
const TokenTypeBearer = "bearer"
