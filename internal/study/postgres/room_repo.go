// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/venturalabs/ventura/internal/auth"
	"github.com/venturalabs/ventura/internal/store"
	"github.com/venturalabs/ventura/internal/study"
)

// RoomRepository implements study.RoomRepository using PostgreSQL.
type RoomRepository struct {
	pool store.Pool
}

// NewRoomRepository creates a new RoomRepository.
func NewRoomRepository(pool store.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// Create stores a new room.
func (r *RoomRepository) Create(ctx context.Context, room *study.Room) error {
	var code *string
	if room.RoomCode != "" {
		code = &room.RoomCode
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO study_rooms (id, name, description, created_by, is_private, room_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		room.ID.String(),
		room.Name,
		room.Description,
		room.CreatedBy.String(),
		room.IsPrivate,
		code,
		room.CreatedAt,
	)
	if err != nil {
		return oops.Code("ROOM_CREATE_FAILED").
			With("operation", "insert study_room").
			With("name", room.Name).
			Wrap(err)
	}
	return nil
}

// Get retrieves a room by ID with its participant count.
func (r *RoomRepository) Get(ctx context.Context, id ulid.ULID) (*study.Room, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT r.id, r.name, r.description, r.created_by, r.is_private, r.room_code, r.created_at,
		       (SELECT COUNT(*) FROM room_participants p WHERE p.room_id = r.id) AS participant_count
		FROM study_rooms r
		WHERE r.id = $1
	`, id.String())

	room, err := scanRoom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ROOM_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ROOM_GET_FAILED").
			With("operation", "get room").
			With("id", id.String()).
			Wrap(err)
	}
	return room, nil
}

// ListVisible retrieves public rooms plus rooms the user created.
func (r *RoomRepository) ListVisible(ctx context.Context, userID ulid.ULID) ([]*study.Room, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.name, r.description, r.created_by, r.is_private, r.room_code, r.created_at,
		       (SELECT COUNT(*) FROM room_participants p WHERE p.room_id = r.id) AS participant_count
		FROM study_rooms r
		WHERE r.is_private = FALSE OR r.created_by = $1
		ORDER BY r.created_at DESC
	`, userID.String())
	if err != nil {
		return nil, oops.Code("ROOM_LIST_FAILED").
			With("operation", "list rooms").
			Wrap(err)
	}
	defer rows.Close()

	var rooms []*study.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, oops.Code("ROOM_SCAN_FAILED").
				With("operation", "scan room row").
				Wrap(err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ROOM_ROWS_ERROR").
			With("operation", "iterate room rows").
			Wrap(err)
	}
	return rooms, nil
}

// AddParticipant records membership; re-joining is a no-op.
func (r *RoomRepository) AddParticipant(ctx context.Context, roomID, userID ulid.ULID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO room_participants (room_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_id, user_id) DO NOTHING
	`, roomID.String(), userID.String(), time.Now().UTC())
	if err != nil {
		return oops.Code("ROOM_ADD_PARTICIPANT_FAILED").
			With("operation", "insert room_participant").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	return nil
}

// IsParticipant reports whether the user has joined the room.
func (r *RoomRepository) IsParticipant(ctx context.Context, roomID, userID ulid.ULID) (bool, error) {
	var member bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM room_participants WHERE room_id = $1 AND user_id = $2
		)
	`, roomID.String(), userID.String()).Scan(&member)
	if err != nil {
		return false, oops.Code("ROOM_PARTICIPANT_CHECK_FAILED").
			With("operation", "check participant").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	return member, nil
}

// Participants retrieves a room's members with display fields.
func (r *RoomRepository) Participants(ctx context.Context, roomID ulid.ULID) ([]*study.Participant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.room_id, p.user_id, p.joined_at, u.name, u.avatar_url
		FROM room_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.room_id = $1
		ORDER BY p.joined_at
	`, roomID.String())
	if err != nil {
		return nil, oops.Code("ROOM_PARTICIPANTS_FAILED").
			With("operation", "list participants").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var participants []*study.Participant
	for rows.Next() {
		var (
			roomIDStr string
			userIDStr string
			joinedAt  time.Time
			name      string
			avatarURL string
		)
		if err := rows.Scan(&roomIDStr, &userIDStr, &joinedAt, &name, &avatarURL); err != nil {
			return nil, oops.Code("ROOM_PARTICIPANT_SCAN_FAILED").
				With("operation", "scan participant").
				Wrap(err)
		}
		rid, err := ulid.Parse(roomIDStr)
		if err != nil {
			return nil, oops.Code("ROOM_INVALID_ID").With("id", roomIDStr).Wrap(err)
		}
		uid, err := ulid.Parse(userIDStr)
		if err != nil {
			return nil, oops.Code("ROOM_INVALID_USER_ID").With("user_id", userIDStr).Wrap(err)
		}
		participants = append(participants, &study.Participant{
			RoomID:    rid,
			UserID:    uid,
			JoinedAt:  joinedAt,
			Name:      name,
			AvatarURL: avatarURL,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ROOM_PARTICIPANT_ROWS_ERROR").
			With("operation", "iterate participant rows").
			Wrap(err)
	}
	return participants, nil
}

// Messages retrieves a room's chat history in chronological order.
func (r *RoomRepository) Messages(ctx context.Context, roomID ulid.ULID) ([]*study.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.room_id, m.user_id, m.body, m.created_at, u.name, u.avatar_url
		FROM chat_messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.room_id = $1
		ORDER BY m.created_at
	`, roomID.String())
	if err != nil {
		return nil, oops.Code("ROOM_MESSAGES_FAILED").
			With("operation", "list messages").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var messages []*study.Message
	for rows.Next() {
		var (
			idStr     string
			roomIDStr string
			userIDStr string
			body      string
			createdAt time.Time
			name      string
			avatarURL string
		)
		if err := rows.Scan(&idStr, &roomIDStr, &userIDStr, &body, &createdAt, &name, &avatarURL); err != nil {
			return nil, oops.Code("ROOM_MESSAGE_SCAN_FAILED").
				With("operation", "scan message").
				Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("ROOM_MESSAGE_INVALID_ID").With("id", idStr).Wrap(err)
		}
		rid, err := ulid.Parse(roomIDStr)
		if err != nil {
			return nil, oops.Code("ROOM_INVALID_ID").With("id", roomIDStr).Wrap(err)
		}
		uid, err := ulid.Parse(userIDStr)
		if err != nil {
			return nil, oops.Code("ROOM_INVALID_USER_ID").With("user_id", userIDStr).Wrap(err)
		}
		messages = append(messages, &study.Message{
			ID:        id,
			RoomID:    rid,
			UserID:    uid,
			Body:      body,
			CreatedAt: createdAt,
			Name:      name,
			AvatarURL: avatarURL,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ROOM_MESSAGE_ROWS_ERROR").
			With("operation", "iterate message rows").
			Wrap(err)
	}
	return messages, nil
}

// CreateMessage stores a chat message.
func (r *RoomRepository) CreateMessage(ctx context.Context, message *study.Message) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_messages (id, room_id, user_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		message.ID.String(),
		message.RoomID.String(),
		message.UserID.String(),
		message.Body,
		message.CreatedAt,
	)
	if err != nil {
		return oops.Code("ROOM_MESSAGE_CREATE_FAILED").
			With("operation", "insert chat_message").
			With("room_id", message.RoomID.String()).
			Wrap(err)
	}
	return nil
}

// scanRoom scans a single row into a Room.
// Callers are responsible for handling pgx.ErrNoRows.
func scanRoom(row pgx.Row) (*study.Room, error) {
	var (
		idStr        string
		name         string
		description  string
		createdByStr string
		isPrivate    bool
		roomCode     *string
		createdAt    time.Time
		participants int
	)

	err := row.Scan(&idStr, &name, &description, &createdByStr, &isPrivate, &roomCode, &createdAt, &participants)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("ROOM_SCAN_FAILED").
			With("operation", "scan study_room").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ROOM_INVALID_ID").With("id", idStr).Wrap(err)
	}
	createdBy, err := ulid.Parse(createdByStr)
	if err != nil {
		return nil, oops.Code("ROOM_INVALID_CREATOR_ID").With("created_by", createdByStr).Wrap(err)
	}

	room := &study.Room{
		ID:               id,
		Name:             name,
		Description:      description,
		CreatedBy:        createdBy,
		IsPrivate:        isPrivate,
		CreatedAt:        createdAt,
		ParticipantCount: participants,
	}
	if roomCode != nil {
		room.RoomCode = *roomCode
	}
	return room, nil
}

// Compile-time interface check.
var _ study.RoomRepository = (*RoomRepository)(nil)
