package auth

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeInvalidToken       = "auth_invalid_token"
	TextCodeInactiveAccount    = "auth_inactive_account"
	TextCodeAdminRequired      = "auth_admin_required"
	TextCodeAlreadyExists      = "auth_principal_exists"
	TextCodeUpstreamFailed     = "auth_upstream_failed"
)

// ErrInvalidCredentials covers bad username/password pairs. An unknown
// user and a wrong password produce the same error so the API cannot be
// used to enumerate accounts.
var ErrInvalidCredentials = errors.New("incorrect username or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidToken is returned when a token fails signature verification,
// is malformed, carries no subject, or has expired. The causes are
// deliberately collapsed into one error.
var ErrInvalidToken = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrInactiveAccount is returned when a valid token resolves to a
// disabled principal.
var ErrInactiveAccount = errors.New("inactive user", errors.CategoryAuthz).
	WithTextCode(TextCodeInactiveAccount).
	WithCode(errors.CodeForbidden)

// ErrAdminRequired is returned when an operation needs admin privileges
// the resolved principal does not have.
var ErrAdminRequired = errors.New("admin privileges required", errors.CategoryAuthz).
	WithTextCode(TextCodeAdminRequired).
	WithCode(errors.CodeForbidden)

// ErrAlreadyExists is returned when creating a principal whose username
// or email is taken.
var ErrAlreadyExists = errors.New("principal already exists", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyExists).
	WithCode(errors.CodeConflict)

// ErrUpstream is returned when the external identity provider or the
// backing store is unreachable or responds with a failure. It still maps
// to an unauthorized code so provider error bodies never leak to callers.
var ErrUpstream = errors.New("identity provider request failed", errors.CategoryOperation).
	WithTextCode(TextCodeUpstreamFailed).
	WithCode(errors.CodeUnauthorized)

// IsInvalidCredentials reports whether err is the collapsed
// bad-credentials error, including invalid tokens.
func IsInvalidCredentials(err error) bool {
	return hasTextCode(err, TextCodeInvalidCredentials) || hasTextCode(err, TextCodeInvalidToken)
}

// IsInactiveAccount reports whether err denies access due to a disabled
// principal.
func IsInactiveAccount(err error) bool {
	return hasTextCode(err, TextCodeInactiveAccount)
}

// IsAdminRequired reports whether err denies access due to a missing
// admin role.
func IsAdminRequired(err error) bool {
	return hasTextCode(err, TextCodeAdminRequired)
}

// IsAlreadyExists reports whether err is a duplicate-principal conflict.
func IsAlreadyExists(err error) bool {
	return hasTextCode(err, TextCodeAlreadyExists)
}

// IsUpstreamError reports whether err originates from provider or store
// connectivity rather than the caller's credentials.
func IsUpstreamError(err error) bool {
	return hasTextCode(err, TextCodeUpstreamFailed)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == code
	}

	return false
}
