// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturalabs/ventura/internal/auth"
	"github.com/venturalabs/ventura/pkg/errutil"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with derived avatar", func(t *testing.T) {
		user, err := auth.NewUser("alice@example.com", "hash", "Alice", "")
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, auth.AvatarURLFor("alice@example.com"), user.AvatarURL)
		assert.NotZero(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("keeps explicit avatar URL", func(t *testing.T) {
		user, err := auth.NewUser("bob@example.com", "hash", "Bob", "https://example.com/bob.png")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/bob.png", user.AvatarURL)
	})

	t.Run("rejects empty password hash", func(t *testing.T) {
		_, err := auth.NewUser("carol@example.com", "", "Carol", "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_USER")
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		for _, email := range []string{"", "noat", "@nodomain", "nolocal@"} {
			_, err := auth.NewUser(email, "hash", "Name", "")
			assert.Error(t, err, "email=%q", email)
		}
	})
}

func TestValidateEmail(t *testing.T) {
	t.Run("accepts plausible addresses", func(t *testing.T) {
		for _, email := range []string{"a@b", "user@example.com", "user+tag@sub.example.org"} {
			assert.NoError(t, auth.ValidateEmail(email), "email=%q", email)
		}
	})

	t.Run("rejects structurally broken addresses", func(t *testing.T) {
		for _, email := range []string{"", "plain", "@example.com", "user@"} {
			assert.Error(t, auth.ValidateEmail(email), "email=%q", email)
		}
	})
}

func TestUserWithoutPassword(t *testing.T) {
	user, err := auth.NewUser("dave@example.com", "secret-hash", "Dave", "")
	require.NoError(t, err)

	safe := user.WithoutPassword()
	assert.Empty(t, safe.PasswordHash)
	assert.Equal(t, user.ID, safe.ID)
	assert.Equal(t, user.Email, safe.Email)

	// Original is untouched.
	assert.Equal(t, "secret-hash", user.PasswordHash)
}

func TestAvatarURLFor(t *testing.T) {
	url := auth.AvatarURLFor("x y@example.com")
	assert.Contains(t, url, "seed=x+y%40example.com")
}
