// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

// Package postgres provides PostgreSQL-backed repositories for the study domain.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/venturalabs/ventura/internal/auth"
	"github.com/venturalabs/ventura/internal/store"
	"github.com/venturalabs/ventura/internal/study"
)

// SessionRepository implements study.SessionRepository using PostgreSQL.
type SessionRepository struct {
	pool store.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool store.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create stores a new study session.
func (r *SessionRepository) Create(ctx context.Context, session *study.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO study_sessions (id, user_id, subject, session_name, start_time, end_time, duration_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		session.ID.String(),
		session.UserID.String(),
		session.Subject,
		session.SessionName,
		session.StartTime,
		session.EndTime,
		durationSeconds(session.Duration),
		session.CreatedAt,
	)
	if err != nil {
		return oops.Code("STUDY_SESSION_CREATE_FAILED").
			With("operation", "insert study_session").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}
	return nil
}

// ListByUser retrieves a user's sessions, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*study.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, subject, session_name, start_time, end_time, duration_seconds, created_at
		FROM study_sessions
		WHERE user_id = $1
		ORDER BY start_time DESC
	`, userID.String())
	if err != nil {
		return nil, oops.Code("STUDY_SESSION_LIST_FAILED").
			With("operation", "list study_sessions").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListByUserSince retrieves a user's sessions starting at or after since.
func (r *SessionRepository) ListByUserSince(ctx context.Context, userID ulid.ULID, since time.Time) ([]*study.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, subject, session_name, start_time, end_time, duration_seconds, created_at
		FROM study_sessions
		WHERE user_id = $1 AND start_time >= $2
		ORDER BY start_time DESC
	`, userID.String(), since)
	if err != nil {
		return nil, oops.Code("STUDY_SESSION_LIST_FAILED").
			With("operation", "list study_sessions since").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// Finish records the end time and duration of a session owned by userID.
func (r *SessionRepository) Finish(ctx context.Context, id, userID ulid.ULID, endTime time.Time, duration time.Duration) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE study_sessions SET end_time = $3, duration_seconds = $4
		WHERE id = $1 AND user_id = $2
	`, id.String(), userID.String(), endTime, int64(duration/time.Second))
	if err != nil {
		return oops.Code("STUDY_SESSION_FINISH_FAILED").
			With("operation", "update study_session").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("STUDY_SESSION_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// Leaderboard aggregates finished-session totals per user.
func (r *SessionRepository) Leaderboard(ctx context.Context, limit int) ([]*study.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.avatar_url,
		       COALESCE(SUM(s.duration_seconds), 0) AS total_seconds,
		       COUNT(s.id) AS total_sessions
		FROM users u
		LEFT JOIN study_sessions s ON s.user_id = u.id AND s.end_time IS NOT NULL
		GROUP BY u.id, u.name, u.avatar_url
		ORDER BY total_seconds DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, oops.Code("LEADERBOARD_QUERY_FAILED").
			With("operation", "aggregate leaderboard").
			Wrap(err)
	}
	defer rows.Close()

	var entries []*study.LeaderboardEntry
	for rows.Next() {
		var (
			idStr         string
			name          string
			avatarURL     string
			totalSeconds  int64
			totalSessions int
		)
		if err := rows.Scan(&idStr, &name, &avatarURL, &totalSeconds, &totalSessions); err != nil {
			return nil, oops.Code("LEADERBOARD_SCAN_FAILED").
				With("operation", "scan leaderboard row").
				Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("LEADERBOARD_INVALID_ID").
				With("id", idStr).
				Wrap(err)
		}
		entries = append(entries, &study.LeaderboardEntry{
			UserID:        id,
			Name:          name,
			AvatarURL:     avatarURL,
			TotalStudy:    time.Duration(totalSeconds) * time.Second,
			TotalSessions: totalSessions,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("LEADERBOARD_ROWS_ERROR").
			With("operation", "iterate leaderboard rows").
			Wrap(err)
	}
	return entries, nil
}

// StudyDays returns distinct UTC days with at least one finished
// session, most recent first.
func (r *SessionRepository) StudyDays(ctx context.Context, userID ulid.ULID) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT date_trunc('day', start_time AT TIME ZONE 'UTC') AS day
		FROM study_sessions
		WHERE user_id = $1 AND end_time IS NOT NULL
		ORDER BY day DESC
	`, userID.String())
	if err != nil {
		return nil, oops.Code("STUDY_DAYS_QUERY_FAILED").
			With("operation", "list study days").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, oops.Code("STUDY_DAYS_SCAN_FAILED").
				With("operation", "scan study day").
				Wrap(err)
		}
		days = append(days, day.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("STUDY_DAYS_ROWS_ERROR").
			With("operation", "iterate study days").
			Wrap(err)
	}
	return days, nil
}

// collectSessions drains a rows iterator into sessions.
func collectSessions(rows pgx.Rows) ([]*study.Session, error) {
	var sessions []*study.Session
	for rows.Next() {
		var (
			idStr       string
			userIDStr   string
			subject     string
			sessionName string
			startTime   time.Time
			endTime     *time.Time
			seconds     *int64
			createdAt   time.Time
		)
		if err := rows.Scan(&idStr, &userIDStr, &subject, &sessionName, &startTime, &endTime, &seconds, &createdAt); err != nil {
			return nil, oops.Code("STUDY_SESSION_SCAN_FAILED").
				With("operation", "scan study_session").
				Wrap(err)
		}

		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("STUDY_SESSION_INVALID_ID").
				With("id", idStr).
				Wrap(err)
		}
		userID, err := ulid.Parse(userIDStr)
		if err != nil {
			return nil, oops.Code("STUDY_SESSION_INVALID_USER_ID").
				With("user_id", userIDStr).
				Wrap(err)
		}

		session := &study.Session{
			ID:          id,
			UserID:      userID,
			Subject:     subject,
			SessionName: sessionName,
			StartTime:   startTime,
			EndTime:     endTime,
			CreatedAt:   createdAt,
		}
		if seconds != nil {
			d := time.Duration(*seconds) * time.Second
			session.Duration = &d
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("STUDY_SESSION_ROWS_ERROR").
			With("operation", "iterate study_session rows").
			Wrap(err)
	}
	return sessions, nil
}

// durationSeconds converts an optional duration to nullable seconds.
func durationSeconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(*d / time.Second)
	return &s
}

// Compile-time interface check.
var _ study.SessionRepository = (*SessionRepository)(nil)
