package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Store is the contract the core needs from a credential store. A
// not-found lookup is reported with a go-errors NotFound category error,
// never by a nil record with a nil error.
type Store interface {
	// GetByIdentifier resolves a stored principal by username or email.
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)

	// Create persists a new principal. It fails with ErrAlreadyExists
	// when the username or email is taken.
	Create(ctx context.Context, user *User) (*User, error)

	// List returns stored principals using zero-indexed offset/limit
	// pagination.
	List(ctx context.Context, page, limit int) ([]*User, error)
}

// TokenService issues and verifies compact bearer tokens
type TokenService interface {
	// Issue signs a token for the subject. A non-positive ttl uses the
	// configured default.
	Issue(subject string, ttl time.Duration) (string, error)

	// Validate verifies signature and expiry and returns the subject
	// claim. Every failure mode collapses into ErrInvalidToken.
	Validate(raw string) (string, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetAudience() []string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// DefaultTokenTTL is used when a caller does not provide an expiration.
const DefaultTokenTTL = 15 * time.Minute

// SimpleConfig is a plain Config implementation. Construct it once at
// startup and treat it as immutable.
type SimpleConfig struct {
	SigningKey string
	TokenTTL   time.Duration
	Issuer     string
	Audience   []string
}

func (c SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c SimpleConfig) GetTokenTTL() time.Duration {
	if c.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return c.TokenTTL
}

func (c SimpleConfig) GetIssuer() string { return c.Issuer }

func (c SimpleConfig) GetAudience() []string { return c.Audience }

// DefaultLogger returns the fallback logger used when none is injected.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
