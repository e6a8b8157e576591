package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Guard is the single check protected handlers call before doing any
// work: token verification, identity resolution, activity check, and an
// optional admin-role check, in that order. The first failing step
// denies the request.
type Guard struct {
	store  Store
	tokens TokenService
	logger Logger
}

func NewGuard(store Store, tokens TokenService) *Guard {
	return &Guard{
		store:  store,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	g.logger = logger
	return g
}

// CurrentUser verifies the raw token and resolves the active principal
// behind it. A token whose subject no longer resolves is treated as
// invalid, not as a distinct condition.
func (g *Guard) CurrentUser(ctx context.Context, raw string) (*User, error) {
	if raw == "" {
		return nil, ErrInvalidCredentials
	}

	subject, err := g.tokens.Validate(raw)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := g.store.GetByIdentifier(ctx, subject)
	if err != nil {
		if errors.IsNotFound(err) {
			g.logger.Info("Guard rejected token with stale subject %s", subject)
			return nil, ErrInvalidCredentials
		}

		g.logger.Error("Guard store lookup failed: %v", err)
		return nil, errors.Wrap(err, ErrUpstream.Category, ErrUpstream.Message).
			WithTextCode(ErrUpstream.TextCode)
	}

	if user.Disabled {
		return nil, ErrInactiveAccount
	}

	return user, nil
}

// RequireAdmin is CurrentUser plus an admin-role check.
func (g *Guard) RequireAdmin(ctx context.Context, raw string) (*User, error) {
	user, err := g.CurrentUser(ctx, raw)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin {
		return nil, ErrAdminRequired
	}

	return user, nil
}

// Check dispatches to CurrentUser or RequireAdmin. It exists so route
// wiring can hold one function value and flip the admin flag per route.
func (g *Guard) Check(ctx context.Context, raw string, requireAdmin bool) (*User, error) {
	if requireAdmin {
		return g.RequireAdmin(ctx, raw)
	}
	return g.CurrentUser(ctx, raw)
}
