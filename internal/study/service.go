// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package study

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/venturalabs/ventura/internal/auth"
)

// Service coordinates study sessions, rooms, and the leaderboard.
// Methods take the authenticated user's ID; authentication itself
// happens upstream in the web layer.
type Service struct {
	sessions SessionRepository
	rooms    RoomRepository
	logger   *slog.Logger
}

// NewService creates a new study Service.
func NewService(sessions SessionRepository, rooms RoomRepository, logger *slog.Logger) (*Service, error) {
	if sessions == nil {
		return nil, oops.Code("STUDY_SERVICE_INVALID").Errorf("sessions repository is required")
	}
	if rooms == nil {
		return nil, oops.Code("STUDY_SERVICE_INVALID").Errorf("rooms repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sessions: sessions, rooms: rooms, logger: logger}, nil
}

// ListSessions returns the user's study sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, userID ulid.ULID) ([]*Session, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, oops.Code("STUDY_LIST_FAILED").
			With("operation", "list sessions").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return sessions, nil
}

// StartSession begins a new study timer for the user.
func (s *Service) StartSession(ctx context.Context, userID ulid.ULID, subject, sessionName string) (*Session, error) {
	session, err := NewSession(userID, subject, sessionName)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, oops.Code("STUDY_START_FAILED").
			With("operation", "create session").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return session, nil
}

// FinishSession records the end of a study timer. A session that does
// not exist or belongs to someone else yields auth.ErrNotFound: the
// two cases are deliberately indistinguishable.
func (s *Service) FinishSession(ctx context.Context, id, userID ulid.ULID, endTime time.Time, duration time.Duration) error {
	if duration < 0 {
		return oops.Code("STUDY_INVALID_DURATION").
			With("duration", duration.String()).
			Wrapf(auth.ErrInvalidInput, "duration cannot be negative")
	}
	err := s.sessions.Finish(ctx, id, userID, endTime, duration)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return oops.Code("STUDY_SESSION_NOT_FOUND").
				With("id", id.String()).
				Wrap(auth.ErrNotFound)
		}
		return oops.Code("STUDY_FINISH_FAILED").
			With("operation", "finish session").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}

// SessionsSince returns the user's sessions inside an analytics range.
func (s *Service) SessionsSince(ctx context.Context, userID ulid.ULID, r Range) ([]*Session, error) {
	start, err := r.Start(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByUserSince(ctx, userID, start)
	if err != nil {
		return nil, oops.Code("STUDY_ANALYTICS_FAILED").
			With("operation", "list sessions since").
			With("range", string(r)).
			Wrap(err)
	}
	return sessions, nil
}

// ListRooms returns public rooms plus rooms the user created.
func (s *Service) ListRooms(ctx context.Context, userID ulid.ULID) ([]*Room, error) {
	rooms, err := s.rooms.ListVisible(ctx, userID)
	if err != nil {
		return nil, oops.Code("ROOM_LIST_FAILED").
			With("operation", "list rooms").
			Wrap(err)
	}
	return rooms, nil
}

// CreateRoom creates a room and joins the creator to it.
func (s *Service) CreateRoom(ctx context.Context, userID ulid.ULID, name, description string, isPrivate bool) (*Room, error) {
	room, err := NewRoom(name, description, userID, isPrivate)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, oops.Code("ROOM_CREATE_FAILED").
			With("operation", "create room").
			Wrap(err)
	}
	if err := s.rooms.AddParticipant(ctx, room.ID, userID); err != nil {
		// Room exists but the creator isn't in it; they can still join.
		return nil, oops.Code("ROOM_CREATE_FAILED").
			With("operation", "add creator as participant").
			With("room_id", room.ID.String()).
			Wrap(err)
	}
	room.ParticipantCount = 1

	s.logger.Info("room created",
		"room_id", room.ID.String(),
		"private", room.IsPrivate,
	)
	return room, nil
}

// GetRoom retrieves a room by ID.
func (s *Service) GetRoom(ctx context.Context, id ulid.ULID) (*Room, error) {
	room, err := s.rooms.Get(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, oops.Code("ROOM_NOT_FOUND").
				With("id", id.String()).
				Wrap(auth.ErrNotFound)
		}
		return nil, oops.Code("ROOM_GET_FAILED").
			With("operation", "get room").
			With("id", id.String()).
			Wrap(err)
	}
	return room, nil
}

// JoinRoom adds the user to a room. A private room requires its join
// code (compared case-insensitively); a wrong code is ErrForbidden.
// Joining a room twice is a no-op.
func (s *Service) JoinRoom(ctx context.Context, roomID, userID ulid.ULID, code string) error {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if room.IsPrivate && !strings.EqualFold(room.RoomCode, code) {
		return oops.Code("ROOM_INVALID_CODE").
			With("room_id", roomID.String()).
			Wrap(auth.ErrForbidden)
	}

	if err := s.rooms.AddParticipant(ctx, roomID, userID); err != nil {
		return oops.Code("ROOM_JOIN_FAILED").
			With("operation", "add participant").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	return nil
}

// Participants returns a room's members.
func (s *Service) Participants(ctx context.Context, roomID ulid.ULID) ([]*Participant, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	participants, err := s.rooms.Participants(ctx, roomID)
	if err != nil {
		return nil, oops.Code("ROOM_PARTICIPANTS_FAILED").
			With("operation", "list participants").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	return participants, nil
}

// Messages returns a room's chat history in chronological order.
func (s *Service) Messages(ctx context.Context, roomID ulid.ULID) ([]*Message, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	messages, err := s.rooms.Messages(ctx, roomID)
	if err != nil {
		return nil, oops.Code("ROOM_MESSAGES_FAILED").
			With("operation", "list messages").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	return messages, nil
}

// SendMessage posts a chat message. Only participants may post;
// non-participants get ErrForbidden.
func (s *Service) SendMessage(ctx context.Context, roomID, userID ulid.ULID, body string) (*Message, error) {
	if body == "" {
		return nil, oops.Code("ROOM_EMPTY_MESSAGE").Wrapf(auth.ErrInvalidInput, "message cannot be empty")
	}

	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	member, err := s.rooms.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, oops.Code("ROOM_SEND_FAILED").
			With("operation", "check participant").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	if !member {
		return nil, oops.Code("ROOM_NOT_PARTICIPANT").
			With("room_id", roomID.String()).
			Wrap(auth.ErrForbidden)
	}

	message := &Message{
		ID:        ulid.Make(),
		RoomID:    roomID,
		UserID:    userID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.rooms.CreateMessage(ctx, message); err != nil {
		return nil, oops.Code("ROOM_SEND_FAILED").
			With("operation", "create message").
			With("room_id", roomID.String()).
			Wrap(err)
	}
	return message, nil
}

// Leaderboard returns the top users by total study time with streaks
// computed from their session history.
func (s *Service) Leaderboard(ctx context.Context) ([]*LeaderboardEntry, error) {
	entries, err := s.sessions.Leaderboard(ctx, LeaderboardSize)
	if err != nil {
		return nil, oops.Code("LEADERBOARD_FAILED").
			With("operation", "aggregate leaderboard").
			Wrap(err)
	}

	now := time.Now()
	for _, entry := range entries {
		days, err := s.sessions.StudyDays(ctx, entry.UserID)
		if err != nil {
			return nil, oops.Code("LEADERBOARD_FAILED").
				With("operation", "load study days").
				With("user_id", entry.UserID.String()).
				Wrap(err)
		}
		entry.CurrentStreak, entry.LongestStreak = Streaks(days, now)
	}
	return entries, nil
}
