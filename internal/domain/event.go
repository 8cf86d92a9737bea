package domain

import (
	"context"
	"time"
)

// Event statuses. Draft events become published only through the
// invitation-sending flow; cancelled is terminal.
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// Event categories (fixed enumeration).
const (
	EventCategoryConference = "conference"
	EventCategoryAtelier    = "atelier"
	EventCategoryRencontre  = "rencontre"
	EventCategorySortie     = "sortie"
)

// ValidEventCategory reports whether category is one of the fixed set.
func ValidEventCategory(category string) bool {
	switch category {
	case EventCategoryConference, EventCategoryAtelier, EventCategoryRencontre, EventCategorySortie:
		return true
	}
	return false
}

// CanTransition reports whether an event status change is allowed.
// draft -> published, published -> completed, draft|published -> cancelled.
func CanTransition(from, to string) bool {
	switch from {
	case EventStatusDraft:
		return to == EventStatusPublished || to == EventStatusCancelled
	case EventStatusPublished:
		return to == EventStatusCompleted || to == EventStatusCancelled
	}
	return false
}

// Event represents a curated event.
// PresenterID mirrors the first entry of the presenter association for
// backward compatibility; it is derived at write time, never set
// independently.
// swagger:model Event
type Event struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Category         string     `json:"category"`
	Description      string     `json:"description"`
	Date             time.Time  `json:"date"`
	Location         string     `json:"location"`
	ParticipantLimit int        `json:"participant_limit"`
	Status           string     `json:"status"`
	ImageURL         *string    `json:"image_url,omitempty"`
	VideoURL         *string    `json:"video_url,omitempty"`
	CreatorID        string     `json:"creator_id"`
	PresenterID      *string    `json:"presenter_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EventWithStats is a published event as the member list sees it:
// presenter info, confirmed count, and remaining capacity resolved in
// one query.
type EventWithStats struct {
	Event             *Event     `json:"event"`
	Presenters        []*Profile `json:"presenters"`
	ConfirmedCount    int        `json:"confirmed_count"`
	RemainingCapacity int        `json:"remaining_capacity"`
}

// EventUpdate carries the optional fields of an event update. Nil
// means "leave unchanged".
type EventUpdate struct {
	Title            *string
	Category         *string
	Description      *string
	Date             *time.Time
	Location         *string
	ParticipantLimit *int
	ImageURL         *string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	SetStatus(ctx context.Context, eventID, status string) error
	SetVideoURL(ctx context.Context, eventID string, url *string) error
	ListByStatus(ctx context.Context, status string) ([]*Event, error)
	ListAll(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	// ListPublishedBefore returns published events dated strictly
	// before the cutoff (completion sweep input).
	ListPublishedBefore(ctx context.Context, cutoff time.Time) ([]*Event, error)
	Delete(ctx context.Context, id string) error
}

// DateChangeResult reports the side effects of an event date change.
type DateChangeResult struct {
	Event                  *Event `json:"event"`
	RegistrationsCancelled int    `json:"registrations_cancelled"`
	NotifiedCount          int    `json:"notified_count"`
}

// EventService defines the business logic for event management.
// All mutating operations are admin-only; the delivery layer enforces
// the role server-side before calls reach here.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID string) (*EventWithStats, error)
	ListPublishedEvents(ctx context.Context) ([]*EventWithStats, error)
	ListAllEvents(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	// UpdateEvent applies upd; when the date changes on a published
	// event it cancels all confirmed registrations and notifies the
	// affected participants, returning their count.
	UpdateEvent(ctx context.Context, eventID string, upd EventUpdate) (*DateChangeResult, error)
	// CancelEvent marks the event cancelled and notifies confirmed
	// participants as a side effect.
	CancelEvent(ctx context.Context, eventID string) (notified int, err error)
	CompleteEvent(ctx context.Context, eventID string) error
	DeleteEvent(ctx context.Context, eventID string) error

	// SendInvitations emails the given addresses about the event and
	// publishes a draft event as the defining side effect.
	SendInvitations(ctx context.Context, eventID, senderID string, emails []string) (sent int, failed []string, err error)
	SendReminder(ctx context.Context, eventID string) (notified int, err error)

	ReplacePresenters(ctx context.Context, eventID string, profileIDs []string) error
	ListPresenters(ctx context.Context, eventID string) ([]*Profile, error)

	AddDocument(ctx context.Context, doc *EventDocument) error
	ListDocuments(ctx context.Context, eventID string) ([]*EventDocument, error)
	DeleteDocument(ctx context.Context, documentID string) error
	SetVideoURL(ctx context.Context, eventID string, url *string) error
}
