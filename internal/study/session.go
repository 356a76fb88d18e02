// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

// Package study provides study timers, rooms with chat, and leaderboard
// aggregation. Every operation is scoped to an already-authenticated
// user; resolving the session cookie to that user is the web layer's
// job.
package study

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/venturalabs/ventura/internal/auth"
)

// Range bounds an analytics query to a trailing window.
type Range string

// Supported analytics ranges.
const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// Start returns the beginning of the range relative to now.
func (r Range) Start(now time.Time) (time.Time, error) {
	switch r {
	case RangeWeek:
		return now.AddDate(0, 0, -7), nil
	case RangeMonth:
		return now.AddDate(0, -1, 0), nil
	case RangeYear:
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, oops.Code("STUDY_INVALID_RANGE").
			With("range", string(r)).
			Wrapf(auth.ErrInvalidInput, "unknown analytics range %q", string(r))
	}
}

// Session is a single study timer run. EndTime and Duration stay nil
// until the timer is finished.
type Session struct {
	ID          ulid.ULID
	UserID      ulid.ULID
	Subject     string
	SessionName string
	StartTime   time.Time
	EndTime     *time.Time
	Duration    *time.Duration
	CreatedAt   time.Time
}

// NewSession starts a study session for a user.
func NewSession(userID ulid.ULID, subject, sessionName string) (*Session, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("STUDY_INVALID_USER").Errorf("user ID cannot be zero")
	}

	now := time.Now().UTC()
	return &Session{
		ID:          ulid.Make(),
		UserID:      userID,
		Subject:     subject,
		SessionName: sessionName,
		StartTime:   now,
		CreatedAt:   now,
	}, nil
}

// SessionRepository manages study session persistence.
type SessionRepository interface {
	// Create stores a new study session.
	Create(ctx context.Context, session *Session) error

	// ListByUser retrieves a user's sessions, newest first.
	ListByUser(ctx context.Context, userID ulid.ULID) ([]*Session, error)

	// ListByUserSince retrieves a user's sessions starting at or after
	// the given time.
	ListByUserSince(ctx context.Context, userID ulid.ULID, since time.Time) ([]*Session, error)

	// Finish records the end time and duration of a session. The update
	// is scoped to the owning user; a missing row and someone else's
	// row both report ErrNotFound (wrapped).
	Finish(ctx context.Context, id, userID ulid.ULID, endTime time.Time, duration time.Duration) error

	// Leaderboard aggregates finished-session totals per user, ordered
	// by total study time descending.
	Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error)

	// StudyDays returns the distinct UTC days on which the user
	// finished at least one session, most recent first.
	StudyDays(ctx context.Context, userID ulid.ULID) ([]time.Time, error)
}
