package domain

import (
	"context"
	"time"
)

// Registration statuses. Cancellation is logical; rows are never
// deleted.
const (
	RegistrationStatusConfirmed = "confirmed"
	RegistrationStatusWaitlist  = "waitlist"
	RegistrationStatusCancelled = "cancelled"
)

// ValidRegistrationStatus reports whether status is a known
// registration status.
func ValidRegistrationStatus(status string) bool {
	switch status {
	case RegistrationStatusConfirmed, RegistrationStatusWaitlist, RegistrationStatusCancelled:
		return true
	}
	return false
}

// Registration represents a member's claim on one seat at an event.
// swagger:model Registration
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegistrationWithEvent bundles a registration with its event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationWithUser bundles a registration with the member's
// account and profile, for admin participant listings.
type RegistrationWithUser struct {
	Registration *Registration `json:"registration"`
	Email        string        `json:"email"`
	DisplayName  string        `json:"display_name"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// CreateConfirmed inserts a confirmed registration only while the
	// confirmed count stays below limit; returns ErrCapacityExceeded
	// otherwise. The check and insert are one statement so concurrent
	// registrations cannot oversubscribe.
	CreateConfirmed(ctx context.Context, reg *Registration, limit int) error
	CreateWaitlisted(ctx context.Context, reg *Registration) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	SetStatus(ctx context.Context, id, status string) error
	// Reconfirm flips a cancelled registration back to confirmed,
	// subject to the same capacity check as CreateConfirmed.
	Reconfirm(ctx context.Context, id, eventID string, limit int) error
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	ListByEventID(ctx context.Context, eventID, status string) ([]*RegistrationWithUser, error)
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	// CancelConfirmedByEvent bulk-cancels every confirmed registration
	// for the event and returns the affected user IDs.
	CancelConfirmedByEvent(ctx context.Context, eventID string) ([]string, error)
}

// RegistrationService defines member-facing registration operations.
type RegistrationService interface {
	// Register claims a seat on a published event. At capacity it
	// returns ErrCapacityExceeded without creating anything.
	Register(ctx context.Context, eventID, userID string) (*Registration, error)
	// JoinWaitlist is the explicit fallback when the event is full.
	JoinWaitlist(ctx context.Context, eventID, userID string) (*Registration, error)
	Cancel(ctx context.Context, eventID, userID string) error
	ListOwn(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
	ListParticipants(ctx context.Context, eventID, status string) ([]*RegistrationWithUser, error)
}
