// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturalabs/ventura/internal/auth"
)

func TestUserRepository_Create(t *testing.T) {
	user, err := auth.NewUser("rosa@example.com", "salt:key", "Rosa", "")
	require.NoError(t, err)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		errMsg    string
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(user.ID.String(), user.Email, user.Name, user.AvatarURL,
						user.PasswordHash, user.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation maps to duplicate email",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(user.ID.String(), user.Email, user.Name, user.AvatarURL,
						user.PasswordHash, user.CreatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: auth.ErrDuplicateEmail,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(user.ID.String(), user.Email, user.Name, user.AvatarURL,
						user.PasswordHash, user.CreatedAt).
					WillReturnError(errors.New("connection refused"))
			},
			errMsg: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(mock)
			err = repo.Create(context.Background(), user)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	id := ulid.Make()
	createdAt := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      *auth.User
		wantErr   error
	}{
		{
			name: "user found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "email", "name", "avatar_url", "password_hash", "created_at"}).
					AddRow(id.String(), "rosa@example.com", "Rosa", "https://example.com/a.svg", "salt:key", createdAt)
				mock.ExpectQuery(`SELECT id, email, name, avatar_url, password_hash, created_at`).
					WithArgs("rosa@example.com").
					WillReturnRows(rows)
			},
			want: &auth.User{
				ID:           id,
				Email:        "rosa@example.com",
				Name:         "Rosa",
				AvatarURL:    "https://example.com/a.svg",
				PasswordHash: "salt:key",
				CreatedAt:    createdAt,
			},
		},
		{
			name: "no rows maps to not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "email", "name", "avatar_url", "password_hash", "created_at"})
				mock.ExpectQuery(`SELECT id, email, name, avatar_url, password_hash, created_at`).
					WithArgs("ghost@example.com").
					WillReturnRows(rows)
			},
			wantErr: auth.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			email := "rosa@example.com"
			if tt.wantErr != nil {
				email = "ghost@example.com"
			}

			repo := NewUserRepository(mock)
			got, err := repo.GetByEmail(context.Background(), email)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}
