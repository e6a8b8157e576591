package federation

import (
	"context"

	auth "github.com/brewkit/go-auth"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// Exchanger swaps a provider access token for a locally issued bearer
// token. First sight of a primary-verified email provisions a
// federation-only principal; later exchanges resolve the existing one.
type Exchanger struct {
	provider Provider
	store    auth.Store
	tokens   auth.TokenService
	logger   auth.Logger
}

func NewExchanger(provider Provider, store auth.Store, tokens auth.TokenService) *Exchanger {
	return &Exchanger{
		provider: provider,
		store:    store,
		tokens:   tokens,
		logger:   auth.DefaultLogger(),
	}
}

func (e *Exchanger) WithLogger(logger auth.Logger) *Exchanger {
	e.logger = logger
	return e
}

// Exchange validates the provider token against the provider itself,
// provisions the principal if needed, and issues a local token. Both
// provider calls happen before any local write; provider failures and
// missing emails surface with an unauthorized code and no provider
// response details.
func (e *Exchanger) Exchange(ctx context.Context, providerToken string) (*auth.Token, error) {
	if providerToken == "" {
		return nil, auth.ErrInvalidCredentials
	}

	profile, err := e.provider.FetchProfile(ctx, providerToken)
	if err != nil {
		e.logger.Warn("Exchange via %s failed: %v", e.provider.Name(), err)
		return nil, errors.Wrap(err, auth.ErrUpstream.Category, auth.ErrUpstream.Message).
			WithTextCode(auth.ErrUpstream.TextCode)
	}

	email, ok := profile.PrimaryVerifiedEmail()
	if !ok {
		e.logger.Warn("Exchange via %s found no primary verified email for %s", e.provider.Name(), profile.Login)
		return nil, ErrNoVerifiedEmail
	}

	user, err := e.resolveOrProvision(ctx, profile, email)
	if err != nil {
		return nil, err
	}

	raw, err := e.tokens.Issue(user.Username, 0)
	if err != nil {
		e.logger.Error("Exchange token issuance failed: %v", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue token")
	}

	return &auth.Token{AccessToken: raw, TokenType: auth.TokenTypeBearer}, nil
}

// resolveOrProvision is create-or-fetch: a lost creation race degrades
// into a lookup of the winner's record.
func (e *Exchanger) resolveOrProvision(ctx context.Context, profile *Profile, email Email) (*auth.User, error) {
	user, err := e.store.GetByIdentifier(ctx, email.Email)
	if err == nil {
		return user, nil
	}

	if !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, auth.ErrUpstream.Category, auth.ErrUpstream.Message).
			WithTextCode(auth.ErrUpstream.TextCode)
	}

	record := &auth.User{
		Username:       email.Email,
		FullName:       profile.Name,
		ProfilePicture: profile.AvatarURL,
		Email:          email.Email,
		Disabled:       false,
		EmailVerified:  email.Verified,
		// No password hash: password login stays impossible for
		// federation-only accounts.
	}

	if id, err := hashid.NewUUID(email.Email); err == nil {
		record.ID = id
	}

	created, err := e.store.Create(ctx, record)
	if err != nil {
		if auth.IsAlreadyExists(err) {
			// Lost the race; the winner's record is authoritative.
			existing, lookupErr := e.store.GetByIdentifier(ctx, email.Email)
			if lookupErr != nil {
				e.logger.Error("Exchange post-conflict lookup failed: %v", lookupErr)
				return nil, auth.ErrInvalidCredentials
			}
			return existing, nil
		}

		e.logger.Error("Exchange provisioning failed: %v", err)
		return nil, errors.Wrap(err, auth.ErrUpstream.Category, auth.ErrUpstream.Message).
			WithTextCode(auth.ErrUpstream.TextCode)
	}

	e.logger.Info("Exchange via %s provisioned %s", e.provider.Name(), created.Username)

	return created, nil
}
