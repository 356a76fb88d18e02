// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// Demo account credentials. The account is provisioned lazily on the
// first demo sign-in and shared by every subsequent one.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demopassword"
	DemoName     = "Demo User"
)

// dummyPasswordHash is verified when a user doesn't exist so response
// time stays consistent with the wrong-password path. It is a
// well-formed salt:key pair that matches no password.
//
//nolint:gosec // G101: not a credential, a timing-equalization constant.
const dummyPasswordHash = "00000000000000000000000000000000:" +
	"0000000000000000000000000000000000000000000000000000000000000000" +
	"0000000000000000000000000000000000000000000000000000000000000000"

// Service orchestrates sign-up, sign-in, sign-out, and current-user
// resolution. Operations are independent and safe to call concurrently;
// the store is the only shared state.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewService creates a new auth Service.
func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, sessions, hasher, slog.Default())
}

// NewServiceWithLogger creates a new auth Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, sessions SessionRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{users: users, sessions: sessions, hasher: hasher, logger: logger}, nil
}

// SignUp registers a new account and signs it in. The email's
// uniqueness is enforced by the store: a concurrent sign-up with the
// same email loses the insert race and still surfaces ErrDuplicateEmail.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (*Session, string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(email, hash, name, "")
	if err != nil {
		return nil, "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, "", oops.Code("AUTH_DUPLICATE_EMAIL").
				With("email", email).
				Wrap(ErrDuplicateEmail)
		}
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	s.logger.Info("user signed up", "user_id", user.ID.String())

	return s.createSession(ctx, user)
}

// SignIn authenticates a user by email and password and creates a
// session. Unknown email and wrong password are indistinguishable to
// the caller, and the unknown-email path still runs a verification
// against a dummy hash to keep timing flat.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_SIGNIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		return nil, "", oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	s.logger.Info("user signed in", "user_id", user.ID.String())

	return s.createSession(ctx, user)
}

// DemoSignIn signs in the shared demo account, provisioning it on
// first use. Two concurrent first calls can both observe the account
// as absent; the loser of the insert race falls back to re-reading the
// row the winner created, so no duplicate demo users exist.
func (s *Service) DemoSignIn(ctx context.Context) (*Session, string, error) {
	user, err := s.users.GetByEmail(ctx, DemoEmail)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, "", oops.Code("AUTH_DEMO_FAILED").
				With("operation", "get demo user").
				Wrap(err)
		}

		user, err = s.provisionDemoUser(ctx)
		if err != nil {
			return nil, "", err
		}
	}

	s.logger.Info("demo sign-in", "user_id", user.ID.String())

	return s.createSession(ctx, user)
}

// provisionDemoUser creates the demo account, resolving a lost insert
// race by re-reading the winner's row.
func (s *Service) provisionDemoUser(ctx context.Context) (*User, error) {
	hash, err := s.hasher.Hash(DemoPassword)
	if err != nil {
		return nil, oops.Code("AUTH_DEMO_FAILED").
			With("operation", "hash demo password").
			Wrap(err)
	}

	user, err := NewUser(DemoEmail, hash, DemoName, "")
	if err != nil {
		return nil, err
	}

	if createErr := s.users.Create(ctx, user); createErr != nil {
		if errors.Is(createErr, ErrDuplicateEmail) {
			existing, getErr := s.users.GetByEmail(ctx, DemoEmail)
			if getErr != nil {
				return nil, oops.Code("AUTH_DEMO_FAILED").
					With("operation", "re-read demo user after lost race").
					Wrap(getErr)
			}
			return existing, nil
		}
		return nil, oops.Code("AUTH_DEMO_FAILED").
			With("operation", "create demo user").
			Wrap(createErr)
	}

	return user, nil
}

// CurrentUser resolves a session token to its user with the password
// hash stripped. Missing, unknown, and expired tokens all yield
// ErrNotAuthenticated.
func (s *Service) CurrentUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, oops.Code("AUTH_NOT_AUTHENTICATED").Wrap(ErrNotAuthenticated)
	}

	session, err := s.sessions.GetByTokenHash(ctx, HashSessionToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_NOT_AUTHENTICATED").Wrap(ErrNotAuthenticated)
		}
		return nil, oops.Code("AUTH_CURRENT_USER_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	if session.IsExpired() {
		return nil, oops.Code("AUTH_NOT_AUTHENTICATED").Wrap(ErrNotAuthenticated)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Session outlived its user; treat as anonymous.
			return nil, oops.Code("AUTH_NOT_AUTHENTICATED").Wrap(ErrNotAuthenticated)
		}
		return nil, oops.Code("AUTH_CURRENT_USER_FAILED").
			With("operation", "get user by id").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}

	return user.WithoutPassword(), nil
}

// SignOut destroys the session behind a token. Unknown or already
// destroyed tokens are a no-op; the caller clears the client cookie
// either way.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByTokenHash(ctx, HashSessionToken(token)); err != nil {
		return oops.Code("AUTH_SIGNOUT_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// SweepExpiredSessions garbage-collects expired session rows.
func (s *Service) SweepExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, oops.Code("AUTH_SWEEP_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	if n > 0 {
		s.logger.Debug("swept expired sessions", "count", n)
	}
	return n, nil
}

// createSession issues a fresh token for a user and persists its hash.
// The plaintext token is returned once and never stored.
func (s *Service) createSession(ctx context.Context, user *User) (*Session, string, error) {
	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(user.ID, tokenHash, time.Now().Add(SessionTokenExpiry))
	if err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "build session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	return session, token, nil
}
