// Package auth is the authentication and authorization core for a small
// API: it verifies passwords, issues and validates bearer tokens, and
// guards protected operations. The federation subpackage swaps a GitHub
// access token for a locally issued one, provisioning the principal on
// first sight.
//
// The package owns no transport. Route handlers call Guard.CurrentUser
// or Guard.RequireAdmin with the raw token and map the returned errors
// to status codes at their own boundary.
package auth
