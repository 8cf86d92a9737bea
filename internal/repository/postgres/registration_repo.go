package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cerclepartages/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// CreateConfirmed performs the capacity check and the insert in one
// statement. A limit of zero means unlimited.
func (r *registrationRepository) CreateConfirmed(ctx context.Context, reg *domain.Registration, limit int) error {
	now := time.Now()
	query := `
		INSERT INTO event_registrations (event_id, user_id, status, created_at, updated_at)
		SELECT $1, $2, $3, $4, $4
		WHERE $5 <= 0 OR (
			SELECT COUNT(*) FROM event_registrations
			WHERE event_id = $1 AND status = $3
		) < $5
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		reg.EventID, reg.UserID, domain.RegistrationStatusConfirmed, now, limit,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrCapacityExceeded
		}
		return err
	}
	reg.Status = domain.RegistrationStatusConfirmed
	return nil
}

func (r *registrationRepository) CreateWaitlisted(ctx context.Context, reg *domain.Registration) error {
	now := time.Now()
	query := `
		INSERT INTO event_registrations (event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		reg.EventID, reg.UserID, domain.RegistrationStatusWaitlist, now,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return err
	}
	reg.Status = domain.RegistrationStatusWaitlist
	return nil
}

func (r *registrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM event_registrations
		WHERE event_id = $1 AND user_id = $2
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) SetStatus(ctx context.Context, id, status string) error {
	query := `UPDATE event_registrations SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, status)
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

// Reconfirm flips a cancelled row back to confirmed under the same
// single-statement capacity guard as CreateConfirmed.
func (r *registrationRepository) Reconfirm(ctx context.Context, id, eventID string, limit int) error {
	query := `
		UPDATE event_registrations SET status = $3, updated_at = NOW()
		WHERE id = $1
		AND ($4 <= 0 OR (
			SELECT COUNT(*) FROM event_registrations
			WHERE event_id = $2 AND status = $3
		) < $4)
	`
	res, err := r.DB.ExecContext(ctx, query, id, eventID, domain.RegistrationStatusConfirmed, limit)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCapacityExceeded
	}
	return nil
}

func (r *registrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM event_registrations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	regs := []*domain.Registration{}
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// ListByEventID joins the member's account and profile so admin
// participant listings carry an email and a display name. An empty
// status lists all registrations for the event.
func (r *registrationRepository) ListByEventID(ctx context.Context, eventID, status string) ([]*domain.RegistrationWithUser, error) {
	query := `
		SELECT er.id, er.event_id, er.user_id, er.status, er.created_at, er.updated_at,
			u.email, COALESCE(p.first_name, ''), COALESCE(p.last_name, '')
		FROM event_registrations er
		JOIN users u ON u.id = er.user_id
		LEFT JOIN profiles p ON p.user_id = er.user_id
		WHERE er.event_id = $1 AND ($2 = '' OR er.status = $2)
		ORDER BY er.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.RegistrationWithUser{}
	for rows.Next() {
		reg := &domain.Registration{}
		var firstName, lastName string
		rw := &domain.RegistrationWithUser{Registration: reg}
		if err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt,
			&rw.Email, &firstName, &lastName,
		); err != nil {
			return nil, err
		}
		p := &domain.Profile{FirstName: firstName, LastName: lastName}
		rw.DisplayName = p.DisplayName()
		out = append(out, rw)
	}
	return out, rows.Err()
}

func (r *registrationRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status = $2`
	var count int
	err := r.DB.QueryRowContext(ctx, query, eventID, domain.RegistrationStatusConfirmed).Scan(&count)
	return count, err
}

func (r *registrationRepository) CancelConfirmedByEvent(ctx context.Context, eventID string) ([]string, error) {
	query := `
		UPDATE event_registrations SET status = $2, updated_at = NOW()
		WHERE event_id = $1 AND status = $3
		RETURNING user_id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID,
		domain.RegistrationStatusCancelled, domain.RegistrationStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	userIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}
