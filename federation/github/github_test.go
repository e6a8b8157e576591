package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brewkit/go-auth/federation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gho_token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))

		switch r.URL.Path {
		case "/user":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":         1234,
				"login":      "octo",
				"node_id":    "MDQ6VXNlcjEyMzQ=",
				"name":       "Octo Cat",
				"avatar_url": "https://example.com/avatar.png",
			})
		case "/user/emails":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"email": "hidden@y.com", "primary": false, "verified": true, "visibility": "private"},
				{"email": "x@y.com", "primary": true, "verified": true, "visibility": "public"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFetchProfile(t *testing.T) {
	server := newAPIServer(t)
	defer server.Close()

	provider := New(Config{
		UserURL:   server.URL + "/user",
		EmailsURL: server.URL + "/user/emails",
	})

	profile, err := provider.FetchProfile(context.Background(), "gho_token")
	require.NoError(t, err)

	assert.Equal(t, "octo", profile.Login)
	assert.Equal(t, int64(1234), profile.ID)
	assert.Equal(t, "MDQ6VXNlcjEyMzQ=", profile.NodeID)
	assert.Equal(t, "Octo Cat", profile.Name)
	assert.Equal(t, "https://example.com/avatar.png", profile.AvatarURL)
	require.Len(t, profile.Emails, 2)

	email, ok := profile.PrimaryVerifiedEmail()
	require.True(t, ok)
	assert.Equal(t, "x@y.com", email.Email)
}

func TestFetchProfileUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Bad credentials"})
	}))
	defer server.Close()

	provider := New(Config{
		UserURL:   server.URL + "/user",
		EmailsURL: server.URL + "/user/emails",
	})

	_, err := provider.FetchProfile(context.Background(), "gho_token")
	require.Error(t, err)

	var perr *federation.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "github", perr.Provider)
	assert.Equal(t, "user_info", perr.Operation)
	assert.Equal(t, http.StatusUnauthorized, perr.Status)
}

func TestFetchProfileEmailsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "login": "octo"})
		default:
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "insufficient scope"})
		}
	}))
	defer server.Close()

	provider := New(Config{
		UserURL:   server.URL + "/user",
		EmailsURL: server.URL + "/user/emails",
	})

	_, err := provider.FetchProfile(context.Background(), "gho_token")
	require.Error(t, err)

	var perr *federation.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "emails", perr.Operation)
	assert.Equal(t, http.StatusForbidden, perr.Status)
}

func TestFetchProfileProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	provider := New(Config{
		UserURL:   server.URL + "/user",
		EmailsURL: server.URL + "/user/emails",
	})

	_, err := provider.FetchProfile(context.Background(), "gho_token")
	require.Error(t, err)

	var perr *federation.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.NotNil(t, perr.Unwrap())
}

func TestDefaultURLs(t *testing.T) {
	provider := New(Config{})
	assert.Equal(t, "github", provider.Name())
	assert.Equal(t, defaultUserURL, provider.config.UserURL)
	assert.Equal(t, defaultEmailsURL, provider.config.EmailsURL)
}
