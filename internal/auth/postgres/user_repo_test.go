// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

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

	"github.com/nerdam/nerdam/internal/auth"
)

func TestUserRepository_Create(t *testing.T) {
	user := &auth.User{
		ID:           ulid.Make(),
		Username:     "testuser",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$salt$hash",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

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
					WithArgs(user.ID.String(), user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation maps to ErrUsernameTaken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(user.ID.String(), user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: auth.ErrUsernameTaken,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(user.ID.String(), user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
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
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
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

func TestUserRepository_GetByID(t *testing.T) {
	userID := ulid.Make()
	now := time.Now().UTC()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantUser  bool
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at", "updated_at"}).
					AddRow(userID.String(), "testuser", "hash", now, now)
				mock.ExpectQuery(`SELECT id, username, password_hash, created_at, updated_at`).
					WithArgs(userID.String()).
					WillReturnRows(rows)
			},
			wantUser: true,
		},
		{
			name: "not found maps to ErrNotFound",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, username, password_hash, created_at, updated_at`).
					WithArgs(userID.String()).
					WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at", "updated_at"}))
			},
			wantErr: auth.ErrNotFound,
		},
		{
			name: "malformed stored id",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at", "updated_at"}).
					AddRow("not-a-ulid", "testuser", "hash", now, now)
				mock.ExpectQuery(`SELECT id, username, password_hash, created_at, updated_at`).
					WithArgs(userID.String()).
					WillReturnRows(rows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(mock)
			got, err := repo.GetByID(context.Background(), userID)

			if tt.wantUser {
				require.NoError(t, err)
				assert.Equal(t, userID, got.ID)
				assert.Equal(t, "testuser", got.Username)
			} else {
				require.Error(t, err)
				assert.Nil(t, got)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	userID := ulid.Make()
	now := time.Now().UTC()

	t.Run("found regardless of case", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at", "updated_at"}).
			AddRow(userID.String(), "TestUser", "hash", now, now)
		mock.ExpectQuery(`LOWER\(username\) = LOWER\(\$1\)`).
			WithArgs("TESTUSER").
			WillReturnRows(rows)

		repo := NewUserRepository(mock)
		got, err := repo.GetByUsername(context.Background(), "TESTUSER")
		require.NoError(t, err)
		assert.Equal(t, "TestUser", got.Username)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("not found maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`LOWER\(username\) = LOWER\(\$1\)`).
			WithArgs("nobody").
			WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at", "updated_at"}))

		repo := NewUserRepository(mock)
		got, err := repo.GetByUsername(context.Background(), "nobody")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
		assert.Nil(t, got)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}
