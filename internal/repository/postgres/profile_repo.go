package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cerclepartages/internal/domain"
)

const profileColumns = `user_id, first_name, last_name, bio, background, avatar_url, is_presenter, email, created_at, updated_at`

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{
		DB: db,
	}
}

func scanProfile(row interface{ Scan(...any) error }) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Bio, &p.Background,
		&p.AvatarURL, &p.IsPresenter, &p.Email, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	now := time.Now()
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, bio, background, avatar_url, is_presenter, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			bio = EXCLUDED.bio,
			background = EXCLUDED.background,
			avatar_url = EXCLUDED.avatar_url,
			is_presenter = EXCLUDED.is_presenter,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		profile.UserID, profile.FirstName, profile.LastName, profile.Bio, profile.Background,
		profile.AvatarURL, profile.IsPresenter, profile.Email, now,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *profileRepository) ListPresenters(ctx context.Context) ([]*domain.Profile, error) {
	// Eligibility is the OR of the profile flag and a presenter role row;
	// a role-only presenter must appear here too.
	query := `
		SELECT p.user_id, p.first_name, p.last_name, p.bio, p.background, p.avatar_url, p.is_presenter, p.email, p.created_at, p.updated_at
		FROM profiles p
		WHERE p.is_presenter = TRUE
		   OR EXISTS (
			SELECT 1 FROM user_roles ur
			JOIN roles ro ON ro.id = ur.role_id
			WHERE ur.user_id = p.user_id AND ro.code = $1
		   )
		ORDER BY p.last_name, p.first_name`
	rows, err := r.DB.QueryContext(ctx, query, domain.RolePresenter)
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

func (r *profileRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}

func (r *profileRepository) SetPresenterFlag(ctx context.Context, userID string, isPresenter bool) error {
	query := `UPDATE profiles SET is_presenter = $2, updated_at = NOW() WHERE user_id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, isPresenter)
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
