// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package study_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/venturalabs/ventura/internal/auth"
	"github.com/venturalabs/ventura/internal/study"
	"github.com/venturalabs/ventura/internal/study/mocks"
	"github.com/venturalabs/ventura/pkg/errutil"
)

func newService(t *testing.T) (*study.Service, *mocks.MockSessionRepository, *mocks.MockRoomRepository) {
	t.Helper()
	sessions := mocks.NewMockSessionRepository(t)
	rooms := mocks.NewMockRoomRepository(t)
	svc, err := study.NewService(sessions, rooms, nil)
	require.NoError(t, err)
	return svc, sessions, rooms
}

func TestNewService_NilDependencies(t *testing.T) {
	t.Run("nil sessions repository", func(t *testing.T) {
		_, err := study.NewService(nil, mocks.NewMockRoomRepository(t), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sessions repository")
	})

	t.Run("nil rooms repository", func(t *testing.T) {
		_, err := study.NewService(mocks.NewMockSessionRepository(t), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rooms repository")
	})
}

func TestService_StartSession(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newService(t)

	userID := ulid.Make()
	sessions.On("Create", ctx, mock.AnythingOfType("*study.Session")).Return(nil)

	session, err := svc.StartSession(ctx, userID, "Physics", "Optics")
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Nil(t, session.EndTime)
}

func TestService_FinishSession(t *testing.T) {
	ctx := context.Background()
	endTime := time.Now().UTC()

	t.Run("finishes own session", func(t *testing.T) {
		svc, sessions, _ := newService(t)

		id, userID := ulid.Make(), ulid.Make()
		sessions.On("Finish", ctx, id, userID, endTime, 30*time.Minute).Return(nil)

		require.NoError(t, svc.FinishSession(ctx, id, userID, endTime, 30*time.Minute))
	})

	t.Run("rejects negative duration", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.FinishSession(ctx, ulid.Make(), ulid.Make(), endTime, -time.Minute)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "STUDY_INVALID_DURATION")
	})

	t.Run("missing or foreign session is not found", func(t *testing.T) {
		svc, sessions, _ := newService(t)

		id, userID := ulid.Make(), ulid.Make()
		sessions.On("Finish", ctx, id, userID, endTime, time.Minute).Return(auth.ErrNotFound)

		err := svc.FinishSession(ctx, id, userID, endTime, time.Minute)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestService_SessionsSince(t *testing.T) {
	ctx := context.Background()

	t.Run("queries from the range start", func(t *testing.T) {
		svc, sessions, _ := newService(t)

		userID := ulid.Make()
		sessions.On("ListByUserSince", ctx, userID, mock.AnythingOfType("time.Time")).
			Return([]*study.Session{}, nil).
			Run(func(args mock.Arguments) {
				since := args.Get(2).(time.Time)
				assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -7), since, 5*time.Second)
			})

		_, err := svc.SessionsSince(ctx, userID, study.RangeWeek)
		require.NoError(t, err)
	})

	t.Run("unknown range never reaches the store", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.SessionsSince(ctx, ulid.Make(), study.Range("fortnight"))
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "STUDY_INVALID_RANGE")
	})
}

func TestService_CreateRoom(t *testing.T) {
	ctx := context.Background()
	svc, _, rooms := newService(t)

	userID := ulid.Make()
	rooms.On("Create", ctx, mock.AnythingOfType("*study.Room")).Return(nil)
	rooms.On("AddParticipant", ctx, mock.AnythingOfType("ulid.ULID"), userID).Return(nil)

	room, err := svc.CreateRoom(ctx, userID, "Study Hall", "open to all", false)
	require.NoError(t, err)
	assert.Equal(t, 1, room.ParticipantCount)
	assert.Equal(t, userID, room.CreatedBy)
}

func TestService_JoinRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("public room joins without code", func(t *testing.T) {
		svc, _, rooms := newService(t)

		roomID, userID := ulid.Make(), ulid.Make()
		rooms.On("Get", ctx, roomID).Return(&study.Room{ID: roomID, Name: "Open"}, nil)
		rooms.On("AddParticipant", ctx, roomID, userID).Return(nil)

		require.NoError(t, svc.JoinRoom(ctx, roomID, userID, ""))
	})

	t.Run("private room accepts code case-insensitively", func(t *testing.T) {
		svc, _, rooms := newService(t)

		roomID, userID := ulid.Make(), ulid.Make()
		rooms.On("Get", ctx, roomID).Return(&study.Room{
			ID:        roomID,
			Name:      "Secret",
			IsPrivate: true,
			RoomCode:  "AB12CD",
		}, nil)
		rooms.On("AddParticipant", ctx, roomID, userID).Return(nil)

		require.NoError(t, svc.JoinRoom(ctx, roomID, userID, "ab12cd"))
	})

	t.Run("private room rejects wrong code", func(t *testing.T) {
		svc, _, rooms := newService(t)

		roomID := ulid.Make()
		rooms.On("Get", ctx, roomID).Return(&study.Room{
			ID:        roomID,
			Name:      "Secret",
			IsPrivate: true,
			RoomCode:  "AB12CD",
		}, nil)

		err := svc.JoinRoom(ctx, roomID, ulid.Make(), "WRONG1")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrForbidden)
		errutil.AssertErrorCode(t, err, "ROOM_INVALID_CODE")
	})

	t.Run("missing room is not found", func(t *testing.T) {
		svc, _, rooms := newService(t)

		roomID := ulid.Make()
		rooms.On("Get", ctx, roomID).Return(nil, auth.ErrNotFound)

		err := svc.JoinRoom(ctx, roomID, ulid.Make(), "")
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestService_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("participant posts a message", func(t *testing.T) {
		svc, _, rooms := newService(t)

		roomID, userID := ulid.Make(), ulid.Make()
		rooms.On("Get", ctx, roomID).Return(&study.Room{ID: roomID, Name: "Open"}, nil)
		rooms.On("IsParticipant", ctx, roomID, userID).Return(true, nil)
		rooms.On("CreateMessage", ctx, mock.AnythingOfType("*study.Message")).Return(nil)

		message, err := svc.SendMessage(ctx, roomID, userID, "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", message.Body)
		assert.Equal(t, roomID, message.RoomID)
	})

	t.Run("non-participant is forbidden", func(t *testing.T) {
		svc, _, rooms := newService(t)

		roomID, userID := ulid.Make(), ulid.Make()
		rooms.On("Get", ctx, roomID).Return(&study.Room{ID: roomID, Name: "Open"}, nil)
		rooms.On("IsParticipant", ctx, roomID, userID).Return(false, nil)

		_, err := svc.SendMessage(ctx, roomID, userID, "hello")
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.SendMessage(ctx, ulid.Make(), ulid.Make(), "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "ROOM_EMPTY_MESSAGE")
	})
}

func TestService_Leaderboard(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newService(t)

	alice, bob := ulid.Make(), ulid.Make()
	now := time.Now()
	today := now.UTC().Truncate(24 * time.Hour)

	sessions.On("Leaderboard", ctx, study.LeaderboardSize).Return([]*study.LeaderboardEntry{
		{UserID: alice, Name: "Alice", TotalStudy: 5 * time.Hour, TotalSessions: 4},
		{UserID: bob, Name: "Bob", TotalStudy: 2 * time.Hour, TotalSessions: 1},
	}, nil)
	sessions.On("StudyDays", ctx, alice).Return([]time.Time{
		today, today.Add(-24 * time.Hour), today.Add(-48 * time.Hour),
	}, nil)
	sessions.On("StudyDays", ctx, bob).Return([]time.Time{
		today.Add(-5 * 24 * time.Hour),
	}, nil)

	entries, err := svc.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 3, entries[0].CurrentStreak)
	assert.Equal(t, 3, entries[0].LongestStreak)
	assert.Equal(t, 0, entries[1].CurrentStreak)
	assert.Equal(t, 1, entries[1].LongestStreak)
}
