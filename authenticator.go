package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// Authenticator verifies username/password pairs against a Store and
// issues bearer tokens for the principals it accepts.
type Authenticator struct {
	store  Store
	tokens TokenService
	logger Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store Store, cfg Config) *Authenticator {
	return &Authenticator{
		store:  store,
		tokens: NewTokenService(cfg, defLogger{}),
		logger: defLogger{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	a.logger = logger
	return a
}

// WithTokenService overrides the token service used for Login.
func (a *Authenticator) WithTokenService(ts TokenService) *Authenticator {
	a.tokens = ts
	return a
}

// TokenService returns the TokenService instance used by this Authenticator
func (a *Authenticator) TokenService() TokenService {
	return a.tokens
}

// ResolveIdentity loads a stored principal by username or email. An
// unknown identifier propagates the store's not-found error; callers
// that must not reveal existence collapse it themselves.
func (a *Authenticator) ResolveIdentity(ctx context.Context, identifier string) (*User, error) {
	user, err := a.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, ErrUpstream.Category, ErrUpstream.Message).
			WithTextCode(ErrUpstream.TextCode)
	}

	return user, nil
}

// Authenticate verifies a username/password pair. An unknown user, a
// wrong password, and a federation-only account with no stored hash all
// return ErrInvalidCredentials: same error, and the same bcrypt cost, so
// response latency does not reveal which case occurred.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := a.ResolveIdentity(ctx, username)
	if err != nil {
		if !errors.IsNotFound(err) {
			return nil, err
		}

		// Burn a compare against the process dummy hash before denying.
		_ = ComparePasswordAndHash(password, dummyPasswordHash())
		return nil, ErrInvalidCredentials
	}

	hash := user.PasswordHash
	if hash == "" {
		// Federation-only account: password login fails closed.
		hash = dummyPasswordHash()
		_ = ComparePasswordAndHash(password, hash)
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, hash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and wraps a freshly issued token.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*Token, error) {
	user, err := a.Authenticate(ctx, username, password)
	if err != nil {
		a.logger.Info("Login denied for %s", username)
		return nil, err
	}

	return a.issueFor(user.Username)
}

func (a *Authenticator) issueFor(subject string) (*Token, error) {
	raw, err := a.tokens.Issue(subject, 0)
	if err != nil {
		a.logger.Error("Login token issuance failed: %v", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue token")
	}

	return &Token{AccessToken: raw, TokenType: TokenTypeBearer}, nil
}

// LoginWithTTL is Login with an explicit token lifetime.
func (a *Authenticator) LoginWithTTL(ctx context.Context, username, password string, ttl time.Duration) (*Token, error) {
	user, err := a.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	raw, err := a.tokens.Issue(user.Username, ttl)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue token")
	}

	return &Token{AccessToken: raw, TokenType: TokenTypeBearer}, nil
}
