// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

// Package auth provides the session-backed authentication core for Ventura.
package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. Changing these invalidates every stored hash, so
// they are fixed for the lifetime of the schema.
const (
	pbkdf2Iterations = 1000
	pbkdf2KeyLen     = 64 // bytes
	pbkdf2SaltLen    = 16 // bytes
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Wrapf(ErrInvalidInput, "password cannot be empty")

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted one-way hash of the password.
	Hash(password string) (string, error)

	// Verify checks if the password matches the stored hash.
	// Returns (true, nil) on match, (false, nil) on mismatch or a
	// malformed stored hash.
	Verify(password, stored string) (bool, error)
}

// PBKDF2Hasher implements PasswordHasher using PBKDF2-SHA512.
//
// Stored format is "<salt>:<key>" with both parts hex-encoded. The
// colon can never appear in hex output, so splitting is unambiguous.
type PBKDF2Hasher struct{}

// NewPBKDF2Hasher creates a new PBKDF2Hasher.
func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{}
}

// Hash produces a salted PBKDF2-SHA512 hash of the password.
func (h *PBKDF2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha512.New)

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Verify checks if the password matches the stored hash. A malformed
// stored hash is treated as a mismatch, never an error: sign-in must
// fail closed on corrupt rows.
func (h *PBKDF2Hasher) Verify(password, stored string) (bool, error) {
	saltHex, keyHex, found := strings.Cut(stored, ":")
	if !found {
		return false, nil
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) != pbkdf2SaltLen {
		return false, nil
	}

	expected, err := hex.DecodeString(keyHex)
	if err != nil || len(expected) != pbkdf2KeyLen {
		return false, nil
	}

	computed := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha512.New)

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
