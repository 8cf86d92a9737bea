package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"cerclepartages/internal/domain"
)

type eventPresenterRepository struct {
	DB *sql.DB
}

func NewEventPresenterRepository(db *sql.DB) domain.EventPresenterRepository {
	return &eventPresenterRepository{
		DB: db,
	}
}

// Replace rewrites the event's presenter list in one transaction and
// keeps the legacy events.presenter_id column pointing at the first
// entry (NULL when the list is empty).
func (r *eventPresenterRepository) Replace(ctx context.Context, eventID string, profileIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_presenters WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("clear presenters: %w", err)
	}
	for i, profileID := range profileIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO event_presenters (event_id, profile_id, position) VALUES ($1, $2, $3)`,
			eventID, profileID, i)
		if err != nil {
			return fmt.Errorf("insert presenter: %w", err)
		}
	}

	var first any
	if len(profileIDs) > 0 {
		first = profileIDs[0]
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE events SET presenter_id = $2, updated_at = NOW() WHERE id = $1`,
		eventID, first)
	if err != nil {
		return fmt.Errorf("update event presenter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *eventPresenterRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Profile, error) {
	query := `
		SELECT p.user_id, p.first_name, p.last_name, p.bio, p.background,
			p.avatar_url, p.is_presenter, p.email, p.created_at, p.updated_at
		FROM event_presenters ep
		JOIN profiles p ON p.user_id = ep.profile_id
		WHERE ep.event_id = $1
		ORDER BY ep.position ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	profiles := []*domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
