package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cerclepartages/internal/domain"
)

const invitationColumns = `id, token, email, role, status, expires_at, created_by, created_at, used_at`

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

func scanInvitation(row interface{ Scan(...any) error }) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var createdByNull sql.NullString
	var usedAtNull sql.NullTime
	err := row.Scan(
		&inv.ID, &inv.Token, &inv.Email, &inv.Role, &inv.Status,
		&inv.ExpiresAt, &createdByNull, &inv.CreatedAt, &usedAtNull,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if createdByNull.Valid {
		inv.CreatedBy = createdByNull.String
	}
	if usedAtNull.Valid {
		inv.UsedAt = &usedAtNull.Time
	}
	return inv, nil
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (token, email, role, status, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		inv.Token, inv.Email, inv.Role, inv.Status, inv.ExpiresAt, inv.CreatedBy,
	).Scan(&inv.ID, &inv.CreatedAt)
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`
	return scanInvitation(r.DB.QueryRowContext(ctx, query, token))
}

// Consume marks a pending, unexpired invitation used in one statement
// so two concurrent acceptances cannot both win.
func (r *invitationRepository) Consume(ctx context.Context, token string, now time.Time) (bool, error) {
	query := `
		UPDATE invitations SET status = $2, used_at = $3
		WHERE token = $1 AND status = $4 AND expires_at > $3
	`
	res, err := r.DB.ExecContext(ctx, query, token,
		domain.InvitationStatusUsed, now, domain.InvitationStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *invitationRepository) MarkExpired(ctx context.Context, id string) error {
	query := `UPDATE invitations SET status = $2 WHERE id = $1 AND status = $3`
	_, err := r.DB.ExecContext(ctx, query, id,
		domain.InvitationStatusExpired, domain.InvitationStatusPending)
	return err
}

func (r *invitationRepository) Revoke(ctx context.Context, id string) error {
	query := `DELETE FROM invitations WHERE id = $1 AND status = $2`
	res, err := r.DB.ExecContext(ctx, query, id, domain.InvitationStatusPending)
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

func (r *invitationRepository) List(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = "WHERE email ILIKE $1"
	}
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM invitations %s`, where)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	limitPos := len(args) + 1
	query := fmt.Sprintf(`SELECT `+invitationColumns+` FROM invitations %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, limitPos, limitPos+1)
	args = append(args, params.PageSize, params.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	invitations := []*domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, err
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invitations, total, nil
}
