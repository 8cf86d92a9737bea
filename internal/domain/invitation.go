package domain

import (
	"context"
	"time"
)

// Invitation statuses. The live expiry timestamp is the source of
// truth; the stored status is updated lazily when a lookup observes an
// expired pending row.
const (
	InvitationStatusPending = "pending"
	InvitationStatusUsed    = "used"
	InvitationStatusExpired = "expired"
)

// Invitation is a single-use token granting account creation with a
// pre-assigned role.
// swagger:model Invitation
type Invitation struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// Expired compares against the live clock, the authoritative check.
func (i *Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// InvitationRepository defines storage operations for invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	// Consume atomically marks a pending, unexpired invitation used.
	// It returns false without error when the row was already used,
	// expired, or missing; the caller reads the row to tell which.
	Consume(ctx context.Context, token string, now time.Time) (consumed bool, err error)
	MarkExpired(ctx context.Context, id string) error
	Revoke(ctx context.Context, id string) error
	List(ctx context.Context, search string, params PaginationParams) ([]*Invitation, int, error)
}

// InvitationService defines admin invitation management. Consumption
// lives on AuthService since it creates the account.
type InvitationService interface {
	// CreateInvitation issues a token for the given role and emails
	// the invite link when an address is provided.
	CreateInvitation(ctx context.Context, email, role, createdBy string) (*Invitation, error)
	// LookupByToken resolves a token for the acceptance page, lazily
	// marking expired pending rows.
	LookupByToken(ctx context.Context, token string) (*Invitation, error)
	ListInvitations(ctx context.Context, search string, params PaginationParams) ([]*Invitation, int, error)
	RevokeInvitation(ctx context.Context, id string) error
}
