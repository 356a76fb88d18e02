// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/venturalabs/ventura/internal/auth"
	"github.com/venturalabs/ventura/internal/auth/mocks"
	"github.com/venturalabs/ventura/pkg/errutil"
)

func TestNewService_NilDependencies(t *testing.T) {
	tests := []struct {
		name        string
		users       auth.UserRepository
		sessions    auth.SessionRepository
		hasher      auth.PasswordHasher
		expectError string
	}{
		{
			name:        "nil users repository",
			users:       nil,
			sessions:    mocks.NewMockSessionRepository(t),
			hasher:      mocks.NewMockPasswordHasher(t),
			expectError: "users repository is required",
		},
		{
			name:        "nil sessions repository",
			users:       mocks.NewMockUserRepository(t),
			sessions:    nil,
			hasher:      mocks.NewMockPasswordHasher(t),
			expectError: "sessions repository is required",
		},
		{
			name:        "nil password hasher",
			users:       mocks.NewMockUserRepository(t),
			sessions:    mocks.NewMockSessionRepository(t),
			hasher:      nil,
			expectError: "password hasher is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := auth.NewService(tt.users, tt.sessions, tt.hasher)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestNewServiceWithLogger_NilLogger(t *testing.T) {
	users := mocks.NewMockUserRepository(t)
	sessions := mocks.NewMockSessionRepository(t)
	hasher := mocks.NewMockPasswordHasher(t)

	svc, err := auth.NewServiceWithLogger(users, sessions, hasher, nil)
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "logger")
}

func TestService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("successful sign-up creates user and session", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewService(userRepo, sessionRepo, hasher)
		require.NoError(t, err)

		hasher.On("Hash", "password123").Return("salt:key", nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(nil)
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*auth.Session")).Return(nil)

		session, token, err := svc.SignUp(ctx, "alice@example.com", "password123", "Alice")
		require.NoError(t, err)
		assert.NotNil(t, session)
		assert.Len(t, token, 64) // 32 bytes hex-encoded
		assert.Equal(t, auth.HashSessionToken(token), session.TokenHash)
	})

	t.Run("duplicate email surfaces ErrDuplicateEmail", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewService(userRepo, sessionRepo, hasher)
		require.NoError(t, err)

		hasher.On("Hash", "password123").Return("salt:key", nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(auth.ErrDuplicateEmail)

		session, token, err := svc.SignUp(ctx, "taken@example.com", "password123", "Taken")
		require.Error(t, err)
		assert.Nil(t, session)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
		errutil.AssertErrorCode(t, err, "AUTH_DUPLICATE_EMAIL")
	})

	t.Run("empty password fails before the store is touched", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		svc, err := auth.NewService(userRepo, sessionRepo, auth.NewPBKDF2Hasher())
		require.NoError(t, err)

		_, _, err = svc.SignUp(ctx, "empty@example.com", "", "Empty")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("invalid email fails before the store is touched", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewService(userRepo, sessionRepo, hasher)
		require.NoError(t, err)

		hasher.On("Hash", "password123").Return("salt:key", nil)

		_, _, err = svc.SignUp(ctx, "not-an-email", "password123", "Nobody")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_EMAIL")
	})
}

func TestService_SignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("successful sign-in creates session", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewService(userRepo, sessionRepo, hasher)
		require.NoError(t, err)

		userID := ulid.Make()
		user := &auth.User{
			ID:           userID,
			Email:        "alice@example.com",
			PasswordHash: "salt:key",
		}

		userRepo.On("GetByEmail", ctx, "alice@example.com").Return(user, nil)
		hasher.On("Verify", "password123", "salt:key").Return(true, nil)
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*auth.Session")).Return(nil)

		session, token, err := svc.SignIn(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, userID, session.UserID)
		assert.Len(t, token, 64)
	})

	t.Run("unknown email still verifies against dummy hash", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewService(userRepo, sessionRepo, hasher)
		require.NoError(t, err)

		userRepo.On("GetByEmail", ctx, "unknown@example.com").Return(nil, auth.ErrNotFound)
		// Verify is still called so the timing matches the known-email path.
		hasher.On("Verify", "password123", mock.AnythingOfType("string")).Return(false, nil)

		session, token, err := svc.SignIn(ctx, "unknown@example.com", "password123")
		require.Error(t, err)
		assert.Nil(t, session)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("wrong password fails with same error as unknown email", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewService(userRepo, sessionRepo, hasher)
		require.NoError(t, err)

		user := &auth.User{
			ID:           ulid.Make(),
			Email:        "alice@example.com",
			PasswordHash: "salt:key",
		}

		userRepo.On("GetByEmail", ctx, "alice@example.com").Return(user, nil)
		hasher.On("Verify", "wrongpassword", "salt:key").Return(false, nil)

		_, _, err = svc.SignIn(ctx, "alice@example.com", "wrongpassword")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_CREDENTIALS")
	})

	t.Run("repository error is not invalid credentials", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewService(userRepo, sessionRepo, hasher)
		require.NoError(t, err)

		userRepo.On("GetByEmail", ctx, "alice@example.com").Return(nil, errors.New("connection refused"))

		_, _, err = svc.SignIn(ctx, "alice@example.com", "password123")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestService_DemoSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("existing demo account signs in", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewService(userRepo, sessionRepo, hasher)
		require.NoError(t, err)

		demo := &auth.User{ID: ulid.Make(), Email: auth.DemoEmail, PasswordHash: "salt:key"}
		userRepo.On("GetByEmail", ctx, auth.DemoEmail).Return(demo, nil)
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*auth.Session")).Return(nil)

		session, token, err := svc.DemoSignIn(ctx)
		require.NoError(t, err)
		assert.Equal(t, demo.ID, session.UserID)
		assert.NotEmpty(t, token)
	})

	t.Run("absent demo account is provisioned", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewService(userRepo, sessionRepo, hasher)
		require.NoError(t, err)

		userRepo.On("GetByEmail", ctx, auth.DemoEmail).Return(nil, auth.ErrNotFound).Once()
		hasher.On("Hash", auth.DemoPassword).Return("salt:key", nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(nil)
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*auth.Session")).Return(nil)

		session, token, err := svc.DemoSignIn(ctx)
		require.NoError(t, err)
		assert.NotNil(t, session)
		assert.NotEmpty(t, token)
	})

	t.Run("lost provisioning race re-reads the winner's row", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewService(userRepo, sessionRepo, hasher)
		require.NoError(t, err)

		winner := &auth.User{ID: ulid.Make(), Email: auth.DemoEmail, PasswordHash: "salt:key"}

		userRepo.On("GetByEmail", ctx, auth.DemoEmail).Return(nil, auth.ErrNotFound).Once()
		hasher.On("Hash", auth.DemoPassword).Return("salt:key", nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(auth.ErrDuplicateEmail)
		userRepo.On("GetByEmail", ctx, auth.DemoEmail).Return(winner, nil).Once()
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*auth.Session")).Return(nil)

		session, _, err := svc.DemoSignIn(ctx)
		require.NoError(t, err)
		assert.Equal(t, winner.ID, session.UserID)
	})
}

func TestService_CurrentUser(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T) (*auth.Service, *mocks.MockUserRepository, *mocks.MockSessionRepository) {
		t.Helper()
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		svc, err := auth.NewService(userRepo, sessionRepo, mocks.NewMockPasswordHasher(t))
		require.NoError(t, err)
		return svc, userRepo, sessionRepo
	}

	t.Run("valid token resolves user with password stripped", func(t *testing.T) {
		svc, userRepo, sessionRepo := newService(t)

		token, hash, err := auth.GenerateSessionToken()
		require.NoError(t, err)

		userID := ulid.Make()
		session, err := auth.NewSession(userID, hash, time.Now().Add(time.Hour))
		require.NoError(t, err)

		sessionRepo.On("GetByTokenHash", ctx, hash).Return(session, nil)
		userRepo.On("GetByID", ctx, userID).Return(&auth.User{
			ID:           userID,
			Email:        "alice@example.com",
			PasswordHash: "salt:key",
		}, nil)

		user, err := svc.CurrentUser(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("empty token is not authenticated", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.CurrentUser(ctx, "")
		assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})

	t.Run("unknown token is not authenticated", func(t *testing.T) {
		svc, _, sessionRepo := newService(t)

		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, auth.ErrNotFound)

		_, err := svc.CurrentUser(ctx, "deadbeef")
		assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})

	t.Run("expired session is not authenticated", func(t *testing.T) {
		svc, _, sessionRepo := newService(t)

		token, hash, err := auth.GenerateSessionToken()
		require.NoError(t, err)

		expired := &auth.Session{
			ID:        ulid.Make(),
			UserID:    ulid.Make(),
			TokenHash: hash,
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		sessionRepo.On("GetByTokenHash", ctx, hash).Return(expired, nil)

		_, err = svc.CurrentUser(ctx, token)
		assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})

	t.Run("session outliving its user is not authenticated", func(t *testing.T) {
		svc, userRepo, sessionRepo := newService(t)

		token, hash, err := auth.GenerateSessionToken()
		require.NoError(t, err)

		userID := ulid.Make()
		session, err := auth.NewSession(userID, hash, time.Now().Add(time.Hour))
		require.NoError(t, err)

		sessionRepo.On("GetByTokenHash", ctx, hash).Return(session, nil)
		userRepo.On("GetByID", ctx, userID).Return(nil, auth.ErrNotFound)

		_, err = svc.CurrentUser(ctx, token)
		assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})
}

func TestService_SignOut(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the session for the token", func(t *testing.T) {
		sessionRepo := mocks.NewMockSessionRepository(t)
		svc, err := auth.NewService(mocks.NewMockUserRepository(t), sessionRepo, mocks.NewMockPasswordHasher(t))
		require.NoError(t, err)

		token, hash, err := auth.GenerateSessionToken()
		require.NoError(t, err)
		sessionRepo.On("DeleteByTokenHash", ctx, hash).Return(nil)

		require.NoError(t, svc.SignOut(ctx, token))
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		sessionRepo := mocks.NewMockSessionRepository(t)
		svc, err := auth.NewService(mocks.NewMockUserRepository(t), sessionRepo, mocks.NewMockPasswordHasher(t))
		require.NoError(t, err)

		require.NoError(t, svc.SignOut(ctx, ""))
		sessionRepo.AssertNotCalled(t, "DeleteByTokenHash")
	})
}

func TestService_SweepExpiredSessions(t *testing.T) {
	ctx := context.Background()

	sessionRepo := mocks.NewMockSessionRepository(t)
	svc, err := auth.NewService(mocks.NewMockUserRepository(t), sessionRepo, mocks.NewMockPasswordHasher(t))
	require.NoError(t, err)

	sessionRepo.On("DeleteExpired", ctx).Return(int64(3), nil)

	n, err := svc.SweepExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
