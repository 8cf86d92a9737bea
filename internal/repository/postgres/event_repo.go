package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cerclepartages/internal/domain"
)

// creator_id goes NULL when the creating account is deleted; readers
// see the empty string.
const eventColumns = `id, title, category, description, date, location, participant_limit, status, image_url, video_url, COALESCE(creator_id::text, ''), presenter_id, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var imageNull, videoNull, presenterNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Category, &e.Description, &e.Date, &e.Location,
		&e.ParticipantLimit, &e.Status, &imageNull, &videoNull,
		&e.CreatorID, &presenterNull, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if imageNull.Valid {
		e.ImageURL = &imageNull.String
	}
	if videoNull.Valid {
		e.VideoURL = &videoNull.String
	}
	if presenterNull.Valid {
		e.PresenterID = &presenterNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	now := time.Now()
	query := `
		INSERT INTO events (title, category, description, date, location, participant_limit, status, image_url, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Category, e.Description, e.Date, e.Location,
		e.ParticipantLimit, e.Status, e.ImageURL, e.CreatorID, now,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	sets := []string{}
	args := []any{eventID}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.ParticipantLimit != nil {
		add("participant_limit", *upd.ParticipantLimit)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, eventID)
	}
	setClause := "updated_at = NOW()"
	for _, s := range sets {
		setClause += ", " + s
	}
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $1 RETURNING %s`, setClause, eventColumns)
	return scanEvent(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *eventRepository) SetStatus(ctx context.Context, eventID, status string) error {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, eventID, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetVideoURL(ctx context.Context, eventID string, url *string) error {
	query := `UPDATE events SET video_url = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, eventID, url)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 ORDER BY date ASC`
	rows, err := r.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) ListAll(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) ListPublishedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 AND date < $2 ORDER BY date ASC`
	rows, err := r.DB.QueryContext(ctx, query, domain.EventStatusPublished, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	events := []*domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
