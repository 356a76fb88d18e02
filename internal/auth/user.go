// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package auth

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// avatarBaseURL is the placeholder avatar service. The seed makes the
// generated image deterministic per account.
const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

// User represents an account. PasswordHash never leaves the auth
// service: every user handed to callers has it stripped.
type User struct {
	ID           ulid.ULID
	Email        string
	Name         string
	AvatarURL    string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser creates a validated User with a freshly minted ID. When no
// avatar URL is given, a placeholder seeded by the email is derived.
func NewUser(email, passwordHash, name, avatarURL string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_USER").Errorf("password hash cannot be empty")
	}
	if avatarURL == "" {
		avatarURL = AvatarURLFor(email)
	}

	return &User{
		ID:           ulid.Make(),
		Email:        email,
		Name:         name,
		AvatarURL:    avatarURL,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// WithoutPassword returns a copy of the user safe to hand to callers.
func (u *User) WithoutPassword() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}

// AvatarURLFor derives the deterministic placeholder avatar URL for an email.
func AvatarURLFor(email string) string {
	return avatarBaseURL + "?seed=" + url.QueryEscape(email)
}

// ValidateEmail performs a minimal structural check. Emails are stored
// case-sensitively; normalization is the caller's concern.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Wrapf(ErrInvalidInput, "email cannot be empty")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return oops.Code("AUTH_INVALID_EMAIL").
			With("email", email).
			Wrapf(ErrInvalidInput, "email must contain a local part and a domain")
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. A unique index on email backs the
	// duplicate check; Create returns ErrDuplicateEmail (wrapped) when
	// the index rejects the insert.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by exact email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
