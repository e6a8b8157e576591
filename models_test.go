package auth_test

import (
	"testing"

	auth "github.com/brewkit/go-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPublicDropsCredential(t *testing.T) {
	user := &auth.User{
		ID:           uuid.New(),
		Username:     "johndoe",
		FullName:     "John Doe",
		Email:        "johndoe@example.com",
		PasswordHash: "$2a$12$notarealhashnotarealhashnotarealhash",
		IsAdmin:      true,
	}

	pub := user.Public()
	require.NotNil(t, pub)
	assert.Equal(t, "johndoe", pub.Username)
	assert.Equal(t, "johndoe@example.com", pub.Email)
	assert.True(t, pub.IsAdmin)
}

func TestUserHasPassword(t *testing.T) {
	local := &auth.User{Username: "alice", PasswordHash: "$2a$12$x"}
	federated := &auth.User{Username: "bob@example.com"}

	assert.True(t, local.HasPassword())
	assert.False(t, federated.HasPassword())
}

func TestUserCloneIsIndependent(t *testing.T) {
	user := &auth.User{Username: "alice", Email: "alice@example.com"}

	clone := user.Clone()
	clone.Email = "changed@example.com"

	assert.Equal(t, "alice@example.com", user.Email)
}
