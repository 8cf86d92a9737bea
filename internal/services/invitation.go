package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cerclepartages/internal/domain"
)

type invitationService struct {
	invitationRepo domain.InvitationRepository
	emailService   domain.EmailService
	publicBaseURL  string
	ttl            time.Duration
	contextTimeout time.Duration
	now            func() time.Time
}

func NewInvitationService(
	invitationRepo domain.InvitationRepository,
	emailService domain.EmailService,
	publicBaseURL string,
	ttl time.Duration,
	timeout time.Duration,
	now func() time.Time,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		emailService:   emailService,
		publicBaseURL:  publicBaseURL,
		ttl:            ttl,
		contextTimeout: timeout,
		now:            now,
	}
}

// CreateInvitation issues a single-use token. When an address is
// given the invite link is emailed; a send failure does not undo the
// invitation, the admin can still copy the link.
func (s *invitationService) CreateInvitation(ctx context.Context, email, role, createdBy string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	role = strings.TrimSpace(strings.ToLower(role))
	if !domain.ValidRoleCode(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	now := s.now()
	inv := &domain.Invitation{
		Token:     uuid.NewString(),
		Email:     strings.TrimSpace(strings.ToLower(email)),
		Role:      role,
		Status:    domain.InvitationStatusPending,
		ExpiresAt: now.Add(s.ttl),
		CreatedBy: createdBy,
	}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	if inv.Email != "" {
		_ = s.emailService.SendAccountInvitation(ctx, &domain.AccountInvitationEmailData{
			Email:     inv.Email,
			Role:      inv.Role,
			AcceptURL: strings.TrimRight(s.publicBaseURL, "/") + "/invitation/" + inv.Token,
			ExpiresAt: inv.ExpiresAt.Format("02/01/2006"),
		})
	}
	return inv, nil
}

// LookupByToken resolves a token for the acceptance page. A pending
// row past its expiry reads as expired and is lazily marked so.
func (s *invitationService) LookupByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvitationStatusPending && inv.Expired(s.now()) {
		if err := s.invitationRepo.MarkExpired(ctx, inv.ID); err != nil {
			return nil, fmt.Errorf("mark expired: %w", err)
		}
		inv.Status = domain.InvitationStatusExpired
	}
	return inv, nil
}

func (s *invitationService) ListInvitations(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invitations, total, err := s.invitationRepo.List(ctx, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	now := s.now()
	for _, inv := range invitations {
		if inv.Status == domain.InvitationStatusPending && inv.Expired(now) {
			inv.Status = domain.InvitationStatusExpired
		}
	}
	return invitations, total, nil
}

func (s *invitationService) RevokeInvitation(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.invitationRepo.Revoke(ctx, id)
}
