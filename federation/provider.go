// Package federation exchanges a third-party identity provider access
// token for a locally issued bearer token, provisioning the principal
// on first sight.
package federation

import (
	"context"
	"fmt"
)

// Provider fetches the federated profile behind an access token. The
// token is the caller's, never ours; the provider is only consulted,
// never mutated.
type Provider interface {
	// Name returns the provider identifier (e.g., "github").
	Name() string

	// FetchProfile loads the user profile and email list using the
	// access token as bearer credential. Both calls must succeed.
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// Profile is the provider's view of the user.
type Profile struct {
	Login     string  `json:"login"`
	ID        int64   `json:"id"`
	NodeID    string  `json:"node_id"`
	Name      string  `json:"name"`
	AvatarURL string  `json:"avatar_url"`
	Emails    []Email `json:"emails"`
}

// Email is one address from the provider's email list.
type Email struct {
	Email      string `json:"email"`
	Primary    bool   `json:"primary"`
	Verified   bool   `json:"verified"`
	Visibility string `json:"visibility"`
}

// PrimaryVerifiedEmail selects the entry marked both primary and
// verified. There is no fallback: a profile without one cannot be
// provisioned.
func (p *Profile) PrimaryVerifiedEmail() (Email, bool) {
	for _, e := range p.Emails {
		if e.Primary && e.Verified {
			return e, true
		}
	}
	return Email{}, false
}

// ProviderError captures normalized provider response details. The
// response body stays in here for logs and never reaches API callers.
type ProviderError struct {
	Provider    string
	Operation   string
	Status      int
	Description string
	Err         error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}

	scope := "provider"
	if e.Provider != "" && e.Operation != "" {
		scope = fmt.Sprintf("%s %s", e.Provider, e.Operation)
	} else if e.Provider != "" {
		scope = e.Provider
	} else if e.Operation != "" {
		scope = e.Operation
	}

	if e.Description != "" {
		return fmt.Sprintf("%s failed: %s", scope, e.Description)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", scope, e.Err)
	}

	return fmt.Sprintf("%s failed", scope)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
