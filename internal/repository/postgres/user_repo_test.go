package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"cerclepartages/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("jean@example.com", "hash", "salt", nil, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
			},
		},
		{
			name: "duplicate email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			u := &domain.User{
				Email:        "jean@example.com",
				PasswordHash: "hash",
				Salt:         "salt",
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			err = repo.Create(ctx, u)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "user-uuid-1", u.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "email", "password_hash", "salt", "email_confirmed_at", "last_sign_in_at", "created_at", "updated_at"}

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("jean@example.com").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("user-1", "jean@example.com", "hash", "salt", now, nil, now, now))

		repo := NewUserRepository(db)
		u, err := repo.GetByEmail(ctx, "jean@example.com")
		require.NoError(t, err)
		require.Equal(t, "user-1", u.ID)
		require.NotNil(t, u.EmailConfirmedAt)
		require.Nil(t, u.LastSignInAt)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("absent@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByEmail(ctx, "absent@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "email", "password_hash", "salt", "email_confirmed_at", "last_sign_in_at", "created_at", "updated_at"}

	t.Run("with search", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email ILIKE \$1`).
			WithArgs("%jean%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email ILIKE \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
			WithArgs("%jean%", 20, 0).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("user-1", "jean@example.com", "hash", "salt", nil, nil, now, now))

		repo := NewUserRepository(db)
		users, total, err := repo.List(ctx, "jean", domain.PaginationParams{Page: 1, PageSize: 20})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Len(t, users, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without search", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT .+ FROM users ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(20, 20).
			WillReturnRows(sqlmock.NewRows(cols))

		repo := NewUserRepository(db)
		users, total, err := repo.List(ctx, "", domain.PaginationParams{Page: 2, PageSize: 20})
		require.NoError(t, err)
		require.Zero(t, total)
		require.Empty(t, users)
	})
}

func TestUserRepository_AssignRole(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs("user-1", "role-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewUserRepository(db)
	require.NoError(t, repo.AssignRole(ctx, "user-1", "role-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing user", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewUserRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrNotFound)
	})
}
