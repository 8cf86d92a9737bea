package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cerclepartages/internal/domain"
)

type registrationService struct {
	registrationRepo domain.RegistrationRepository
	eventRepo        domain.EventRepository
	contextTimeout   time.Duration
}

func NewRegistrationService(
	registrationRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		contextTimeout:   timeout,
	}
}

// Register claims a seat on a published event. Registration rows are
// unique per event and user, so a cancelled row is reconfirmed instead
// of reinserted, and re-registering while confirmed is a no-op.
func (s *registrationService) Register(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusPublished {
		return nil, fmt.Errorf("%w: event is not open for registration", domain.ErrInvalidInput)
	}

	existing, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if existing != nil {
		switch existing.Status {
		case domain.RegistrationStatusConfirmed, domain.RegistrationStatusWaitlist:
			return existing, nil
		case domain.RegistrationStatusCancelled:
			if err := s.registrationRepo.Reconfirm(ctx, existing.ID, eventID, event.ParticipantLimit); err != nil {
				return nil, err
			}
			existing.Status = domain.RegistrationStatusConfirmed
			return existing, nil
		}
	}

	reg := &domain.Registration{EventID: eventID, UserID: userID}
	if err := s.registrationRepo.CreateConfirmed(ctx, reg, event.ParticipantLimit); err != nil {
		return nil, err
	}
	return reg, nil
}

// JoinWaitlist is the explicit fallback once Register has reported the
// event full.
func (s *registrationService) JoinWaitlist(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusPublished {
		return nil, fmt.Errorf("%w: event is not open for registration", domain.ErrInvalidInput)
	}

	existing, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if existing != nil {
		switch existing.Status {
		case domain.RegistrationStatusConfirmed, domain.RegistrationStatusWaitlist:
			return existing, nil
		case domain.RegistrationStatusCancelled:
			if err := s.registrationRepo.SetStatus(ctx, existing.ID, domain.RegistrationStatusWaitlist); err != nil {
				return nil, err
			}
			existing.Status = domain.RegistrationStatusWaitlist
			return existing, nil
		}
	}

	reg := &domain.Registration{EventID: eventID, UserID: userID}
	if err := s.registrationRepo.CreateWaitlisted(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Cancel is logical; the row stays so history and re-registration keep
// working.
func (s *registrationService) Cancel(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if reg.Status == domain.RegistrationStatusCancelled {
		return nil
	}
	return s.registrationRepo.SetStatus(ctx, reg.ID, domain.RegistrationStatusCancelled)
}

func (s *registrationService) ListOwn(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	out := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		event, err := s.eventRepo.GetByID(ctx, reg.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get event: %w", err)
		}
		out = append(out, &domain.RegistrationWithEvent{Registration: reg, Event: event})
	}
	return out, nil
}

func (s *registrationService) ListParticipants(ctx context.Context, eventID, status string) ([]*domain.RegistrationWithUser, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.registrationRepo.ListByEventID(ctx, eventID, status)
}
