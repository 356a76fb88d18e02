// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package auth

import "errors"

// Sentinel errors for the auth domain. Callers branch on these with
// errors.Is; the oops wrappers around them carry codes and context for
// logging.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when signing up with an email that
	// already has an account.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned for a failed sign-in. Unknown
	// email and wrong password yield the same error so callers cannot
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotAuthenticated is returned when no valid session backs a
	// request. Missing, unknown, and expired tokens are indistinguishable.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrForbidden is returned when an authenticated user is not
	// authorized for a specific resource.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned when a client-supplied value fails
	// validation. The wrapping error's message is safe to show to the
	// client.
	ErrInvalidInput = errors.New("invalid input")
)
