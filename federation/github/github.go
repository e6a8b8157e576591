// Package github implements federation.Provider against the GitHub API.
package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brewkit/go-auth/federation"
)

const (
	defaultUserURL   = "https://api.github.com/user"
	defaultEmailsURL = "https://api.github.com/user/emails"
)

// Config holds GitHub API configuration. URLs are overridable for
// tests.
type Config struct {
	UserURL   string
	EmailsURL string

	HTTPClient *http.Client
}

// Provider implements federation.Provider for GitHub.
type Provider struct {
	config     Config
	httpClient *http.Client
}

// New creates a new GitHub provider.
func New(cfg Config) *Provider {
	if cfg.UserURL == "" {
		cfg.UserURL = defaultUserURL
	}
	if cfg.EmailsURL == "" {
		cfg.EmailsURL = defaultEmailsURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Provider{
		config:     cfg,
		httpClient: client,
	}
}

// Name implements federation.Provider.
func (p *Provider) Name() string {
	return "github"
}

// FetchProfile implements federation.Provider. Both requests must
// succeed; a failure in either is reported before any local state is
// touched by the caller.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (*federation.Profile, error) {
	user, err := p.fetchUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	emails, err := p.fetchEmails(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return &federation.Profile{
		Login:     user.Login,
		ID:        user.ID,
		NodeID:    user.NodeID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Emails:    emails,
	}, nil
}

func (p *Provider) fetchUser(ctx context.Context, accessToken string) (*githubUser, error) {
	body, status, err := p.get(ctx, p.config.UserURL, accessToken)
	if err != nil {
		return nil, providerError("user_info", status, "", err)
	}

	if status != http.StatusOK {
		return nil, providerError("user_info", status, apiErrorMessage(body), nil)
	}

	var user githubUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, providerError("user_info", status, "failed to decode user response", err)
	}

	return &user, nil
}

func (p *Provider) fetchEmails(ctx context.Context, accessToken string) ([]federation.Email, error) {
	body, status, err := p.get(ctx, p.config.EmailsURL, accessToken)
	if err != nil {
		return nil, providerError("emails", status, "", err)
	}

	if status != http.StatusOK {
		return nil, providerError("emails", status, apiErrorMessage(body), nil)
	}

	var emails []federation.Email
	if err := json.Unmarshal(body, &emails); err != nil {
		return nil, providerError("emails", status, "failed to decode emails response", err)
	}

	return emails, nil
}

func (p *Provider) get(ctx context.Context, url, accessToken string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	NodeID    string `json:"node_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubAPIError struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}

func apiErrorMessage(body []byte) string {
	var apiErr githubAPIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "github request failed"
	}

	return msg
}

func providerError(operation string, status int, description string, err error) error {
	return &federation.ProviderError{
		Provider:    "github",
		Operation:   operation,
		Status:      status,
		Description: description,
		Err:         err,
	}
}
