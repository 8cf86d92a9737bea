package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cerclepartages/internal/domain"
)

type eventDocumentRepository struct {
	DB *sql.DB
}

func NewEventDocumentRepository(db *sql.DB) domain.EventDocumentRepository {
	return &eventDocumentRepository{
		DB: db,
	}
}

func (r *eventDocumentRepository) Create(ctx context.Context, doc *domain.EventDocument) error {
	query := `
		INSERT INTO event_documents (event_id, file_name, file_size, url, uploaded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		doc.EventID, doc.FileName, doc.FileSize, doc.URL, doc.UploadedBy,
	).Scan(&doc.ID, &doc.CreatedAt)
}

func (r *eventDocumentRepository) GetByID(ctx context.Context, id string) (*domain.EventDocument, error) {
	query := `
		SELECT id, event_id, file_name, file_size, url, COALESCE(uploaded_by::text, ''), created_at
		FROM event_documents
		WHERE id = $1
	`
	doc := &domain.EventDocument{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.EventID, &doc.FileName, &doc.FileSize, &doc.URL, &doc.UploadedBy, &doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (r *eventDocumentRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventDocument, error) {
	query := `
		SELECT id, event_id, file_name, file_size, url, COALESCE(uploaded_by::text, ''), created_at
		FROM event_documents
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := []*domain.EventDocument{}
	for rows.Next() {
		doc := &domain.EventDocument{}
		if err := rows.Scan(&doc.ID, &doc.EventID, &doc.FileName, &doc.FileSize, &doc.URL, &doc.UploadedBy, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *eventDocumentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM event_documents WHERE id = $1`
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
