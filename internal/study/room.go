// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package study

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/venturalabs/ventura/internal/auth"
)

// RoomCodeLength is the length of the join code on private rooms.
const RoomCodeLength = 6

// roomCodeAlphabet excludes nothing; codes are case-normalized on
// comparison, not on input.
const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Room is a shared study space with chat. Private rooms require the
// join code; public rooms are open to any authenticated user.
type Room struct {
	ID               ulid.ULID
	Name             string
	Description      string
	CreatedBy        ulid.ULID
	IsPrivate        bool
	RoomCode         string // empty for public rooms
	CreatedAt        time.Time
	ParticipantCount int
}

// Participant records a user's membership in a room.
type Participant struct {
	RoomID    ulid.ULID
	UserID    ulid.ULID
	JoinedAt  time.Time
	Name      string
	AvatarURL string
}

// Message is a chat message in a room, denormalized with its author's
// display fields for the room view.
type Message struct {
	ID        ulid.ULID
	RoomID    ulid.ULID
	UserID    ulid.ULID
	Body      string
	CreatedAt time.Time
	Name      string
	AvatarURL string
}

// NewRoom creates a validated Room. Private rooms get a fresh join code.
func NewRoom(name, description string, createdBy ulid.ULID, isPrivate bool) (*Room, error) {
	if name == "" {
		return nil, oops.Code("ROOM_INVALID_NAME").Wrapf(auth.ErrInvalidInput, "room name cannot be empty")
	}
	if createdBy.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("ROOM_INVALID_CREATOR").Errorf("creator ID cannot be zero")
	}

	room := &Room{
		ID:          ulid.Make(),
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		IsPrivate:   isPrivate,
		CreatedAt:   time.Now().UTC(),
	}

	if isPrivate {
		code, err := GenerateRoomCode()
		if err != nil {
			return nil, err
		}
		room.RoomCode = code
	}

	return room, nil
}

// GenerateRoomCode creates a random join code for a private room.
func GenerateRoomCode() (string, error) {
	buf := make([]byte, RoomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("ROOM_CODE_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}
	for i, b := range buf {
		buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return string(buf), nil
}

// RoomRepository manages room, participant, and message persistence.
type RoomRepository interface {
	// Create stores a new room.
	Create(ctx context.Context, room *Room) error

	// Get retrieves a room by ID. Returns ErrNotFound (wrapped) when
	// absent.
	Get(ctx context.Context, id ulid.ULID) (*Room, error)

	// ListVisible retrieves public rooms plus rooms the user created,
	// each with its participant count.
	ListVisible(ctx context.Context, userID ulid.ULID) ([]*Room, error)

	// AddParticipant records membership. Joining a room twice is a
	// no-op.
	AddParticipant(ctx context.Context, roomID, userID ulid.ULID) error

	// IsParticipant reports whether the user has joined the room.
	IsParticipant(ctx context.Context, roomID, userID ulid.ULID) (bool, error)

	// Participants retrieves a room's members with display fields.
	Participants(ctx context.Context, roomID ulid.ULID) ([]*Participant, error)

	// Messages retrieves a room's chat history in chronological order.
	Messages(ctx context.Context, roomID ulid.ULID) ([]*Message, error)

	// CreateMessage stores a chat message.
	CreateMessage(ctx context.Context, message *Message) error
}
