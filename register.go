package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
)

// RegisterUser validates the payload, hashes the password, and persists
// a new principal. Only the public projection is returned. A taken
// username or email surfaces as ErrAlreadyExists, which also covers
// emails already claimed by federation-provisioned accounts.
func RegisterUser(ctx context.Context, store Store, payload NewUser) (*PublicUser, error) {
	if err := payload.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid registration payload")
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:       usernameOrLocalPart(payload.Username, payload.Email),
		FullName:       payload.FullName,
		ProfilePicture: payload.ProfilePicture,
		Email:          payload.Email,
		PasswordHash:   hash,
	}

	created, err := store.Create(ctx, user)
	if err != nil {
		if IsAlreadyExists(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create user")
	}

	return created.Public(), nil
}

func usernameOrLocalPart(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
