package domain

import (
	"context"
	"time"
)

// EventDocument is attachment metadata for a file stored in the
// documents bucket. Documents are deleted independently of the event.
// swagger:model EventDocument
type EventDocument struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	URL        string    `json:"url"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventDocumentRepository defines storage operations for documents.
type EventDocumentRepository interface {
	Create(ctx context.Context, doc *EventDocument) error
	GetByID(ctx context.Context, id string) (*EventDocument, error)
	ListByEventID(ctx context.Context, eventID string) ([]*EventDocument, error)
	Delete(ctx context.Context, id string) error
}
