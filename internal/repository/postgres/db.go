package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		email_confirmed_at TIMESTAMPTZ,
		last_sign_in_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS roles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		code TEXT NOT NULL UNIQUE
	)`,
	`INSERT INTO roles (code) VALUES ('admin'), ('presenter'), ('participant')
		ON CONFLICT (code) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role_id UUID NOT NULL REFERENCES roles(id),
		PRIMARY KEY (user_id, role_id)
	)`,
	// profiles carry no FK to users: presenter profiles outlive the
	// account so past events keep their presenter. Non-presenter
	// profiles are removed explicitly by the admin service on deletion.
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id UUID PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		background TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		is_presenter BOOLEAN NOT NULL DEFAULT FALSE,
		email TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TIMESTAMPTZ NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		participant_limit INT NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'draft',
		image_url TEXT,
		video_url TEXT,
		creator_id UUID REFERENCES users(id) ON DELETE SET NULL,
		presenter_id UUID REFERENCES profiles(user_id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS event_presenters (
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		profile_id UUID NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
		position INT NOT NULL,
		PRIMARY KEY (event_id, profile_id)
	)`,
	`CREATE TABLE IF NOT EXISTS event_registrations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'confirmed',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (event_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS invitations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		token UUID NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		expires_at TIMESTAMPTZ NOT NULL,
		created_by UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		used_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS event_documents (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		file_name TEXT NOT NULL,
		file_size BIGINT NOT NULL,
		url TEXT NOT NULL,
		uploaded_by UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_status_date ON events(status, date)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_event_status ON event_registrations(event_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_user ON event_registrations(user_id)`,
}

// Migrate applies the schema. Statements are idempotent so the runner
// needs no version table.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
