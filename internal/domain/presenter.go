package domain

import "context"

// EventPresenter is one row of the ordered event-presenter junction.
type EventPresenter struct {
	EventID   string `json:"event_id"`
	ProfileID string `json:"profile_id"`
	Position  int    `json:"position"`
}

// EventPresenterRepository defines storage for the ordered junction.
// Replace is the only write path: it deletes the event's rows,
// reinserts ids in order, and derives the legacy events.presenter_id
// from the first id (NULL for an empty list) in the same transaction.
type EventPresenterRepository interface {
	Replace(ctx context.Context, eventID string, profileIDs []string) error
	ListByEventID(ctx context.Context, eventID string) ([]*Profile, error)
}
