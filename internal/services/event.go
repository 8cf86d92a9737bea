package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cerclepartages/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	presenterRepo    domain.EventPresenterRepository
	documentRepo     domain.EventDocumentRepository
	profileRepo      domain.ProfileRepository
	roleRepo         domain.RoleRepository
	emailService     domain.EmailService
	store            domain.ObjectStore
	publicBaseURL    string
	contextTimeout   time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	presenterRepo domain.EventPresenterRepository,
	documentRepo domain.EventDocumentRepository,
	profileRepo domain.ProfileRepository,
	roleRepo domain.RoleRepository,
	emailService domain.EmailService,
	store domain.ObjectStore,
	publicBaseURL string,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		presenterRepo:    presenterRepo,
		documentRepo:     documentRepo,
		profileRepo:      profileRepo,
		roleRepo:         roleRepo,
		emailService:     emailService,
		store:            store,
		publicBaseURL:    publicBaseURL,
		contextTimeout:   timeout,
	}
}

// formatEventDate renders a timestamp the way the emails show it.
func formatEventDate(t time.Time) string {
	return t.Format("02/01/2006 à 15h04")
}

func (s *eventService) eventURL(eventID string) string {
	return strings.TrimRight(s.publicBaseURL, "/") + "/events/" + eventID
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !domain.ValidEventCategory(event.Category) {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, event.Category)
	}
	if event.CreatorID == "" {
		return fmt.Errorf("%w: creator is required", domain.ErrInvalidInput)
	}
	if event.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if event.ParticipantLimit < 0 {
		return fmt.Errorf("%w: participant limit cannot be negative", domain.ErrInvalidInput)
	}

	// Events always start as drafts; publishing happens through the
	// invitation flow.
	event.Status = domain.EventStatusDraft
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.withStats(ctx, event)
}

func (s *eventService) withStats(ctx context.Context, event *domain.Event) (*domain.EventWithStats, error) {
	presenters, err := s.presenterRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list presenters: %w", err)
	}
	confirmed, err := s.registrationRepo.CountConfirmed(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count confirmed: %w", err)
	}
	// A negative remaining capacity means unlimited.
	remaining := -1
	if event.ParticipantLimit > 0 {
		remaining = event.ParticipantLimit - confirmed
		if remaining < 0 {
			remaining = 0
		}
	}
	return &domain.EventWithStats{
		Event:             event,
		Presenters:        presenters,
		ConfirmedCount:    confirmed,
		RemainingCapacity: remaining,
	}, nil
}

func (s *eventService) ListPublishedEvents(ctx context.Context) ([]*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByStatus(ctx, domain.EventStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list published: %w", err)
	}
	out := make([]*domain.EventWithStats, 0, len(events))
	for _, event := range events {
		ws, err := s.withStats(ctx, event)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, nil
}

func (s *eventService) ListAllEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.ListAll(ctx, params)
}

// UpdateEvent applies the partial update. A date change on a published
// event cancels every confirmed registration and notifies the affected
// members that they must register again.
func (s *eventService) UpdateEvent(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.DateChangeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Category != nil && !domain.ValidEventCategory(*upd.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, *upd.Category)
	}
	if upd.ParticipantLimit != nil && *upd.ParticipantLimit < 0 {
		return nil, fmt.Errorf("%w: participant limit cannot be negative", domain.ErrInvalidInput)
	}

	existing, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	dateChanged := upd.Date != nil && !upd.Date.Equal(existing.Date) &&
		existing.Status == domain.EventStatusPublished

	var recipients []*domain.RegistrationWithUser
	if dateChanged {
		recipients, err = s.registrationRepo.ListByEventID(ctx, eventID, domain.RegistrationStatusConfirmed)
		if err != nil {
			return nil, fmt.Errorf("list confirmed: %w", err)
		}
	}

	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		return nil, err
	}

	notified := 0
	cancelled := 0
	if dateChanged {
		userIDs, err := s.registrationRepo.CancelConfirmedByEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("cancel registrations: %w", err)
		}
		cancelled = len(userIDs)
		for _, r := range recipients {
			err := s.emailService.SendDateChangeNotification(ctx, &domain.DateChangeEmailData{
				Email:      r.Email,
				EventTitle: updated.Title,
				OldDate:    formatEventDate(existing.Date),
				NewDate:    formatEventDate(updated.Date),
				EventURL:   s.eventURL(eventID),
			})
			if err == nil {
				notified++
			}
		}
	}

	return &domain.DateChangeResult{Event: updated, RegistrationsCancelled: cancelled, NotifiedCount: notified}, nil
}

func (s *eventService) CancelEvent(ctx context.Context, eventID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if !domain.CanTransition(event.Status, domain.EventStatusCancelled) {
		return 0, domain.ErrInvalidTransition
	}

	recipients, err := s.registrationRepo.ListByEventID(ctx, eventID, domain.RegistrationStatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("list confirmed: %w", err)
	}

	if err := s.eventRepo.SetStatus(ctx, eventID, domain.EventStatusCancelled); err != nil {
		return 0, err
	}

	notified := 0
	for _, r := range recipients {
		err := s.emailService.SendEventCancellation(ctx, &domain.EventCancellationEmailData{
			Email:      r.Email,
			EventTitle: event.Title,
			EventDate:  formatEventDate(event.Date),
		})
		if err == nil {
			notified++
		}
	}
	return notified, nil
}

func (s *eventService) CompleteEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !domain.CanTransition(event.Status, domain.EventStatusCompleted) {
		return domain.ErrInvalidTransition
	}
	return s.eventRepo.SetStatus(ctx, eventID, domain.EventStatusCompleted)
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.Delete(ctx, eventID)
}

// SendInvitations emails each address and publishes a draft event as a
// side effect. Addresses whose send fails are reported back rather
// than aborting the batch.
func (s *eventService) SendInvitations(ctx context.Context, eventID, senderID string, emails []string) (int, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return 0, nil, err
	}
	if event.Status == domain.EventStatusCancelled || event.Status == domain.EventStatusCompleted {
		return 0, nil, domain.ErrInvalidTransition
	}

	if event.Status == domain.EventStatusDraft {
		if err := s.eventRepo.SetStatus(ctx, eventID, domain.EventStatusPublished); err != nil {
			return 0, nil, fmt.Errorf("publish event: %w", err)
		}
		event.Status = domain.EventStatusPublished
	}

	senderProfile, err := s.profileRepo.GetByUserID(ctx, senderID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, nil, fmt.Errorf("get sender profile: %w", err)
	}
	senderName := senderProfile.DisplayName()

	sent := 0
	failed := []string{}
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		err := s.emailService.SendEventInvitation(ctx, &domain.EventInvitationEmailData{
			Email:       email,
			SenderName:  senderName,
			EventTitle:  event.Title,
			EventDate:   formatEventDate(event.Date),
			Location:    event.Location,
			Description: event.Description,
			EventURL:    s.eventURL(eventID),
		})
		if err != nil {
			failed = append(failed, email)
			continue
		}
		sent++
	}
	return sent, failed, nil
}

func (s *eventService) SendReminder(ctx context.Context, eventID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if event.Status != domain.EventStatusPublished {
		return 0, domain.ErrInvalidTransition
	}

	recipients, err := s.registrationRepo.ListByEventID(ctx, eventID, domain.RegistrationStatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("list confirmed: %w", err)
	}

	notified := 0
	for _, r := range recipients {
		err := s.emailService.SendEventReminder(ctx, &domain.EventReminderEmailData{
			Email:      r.Email,
			EventTitle: event.Title,
			EventDate:  formatEventDate(event.Date),
			Location:   event.Location,
		})
		if err == nil {
			notified++
		}
	}
	return notified, nil
}

// ReplacePresenters rejects ids that do not resolve to a
// presenter-eligible profile before touching the junction.
func (s *eventService) ReplacePresenters(ctx context.Context, eventID string, profileIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return err
	}
	for _, id := range profileIDs {
		profile, err := s.profileRepo.GetByUserID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: unknown presenter %s", domain.ErrInvalidInput, id)
			}
			return fmt.Errorf("get profile: %w", err)
		}
		roles, err := s.roleRepo.ListByUserID(ctx, id)
		if err != nil {
			return fmt.Errorf("list roles: %w", err)
		}
		if !domain.PresenterEligible(roles, profile) {
			return fmt.Errorf("%w: %s is not a presenter", domain.ErrInvalidInput, id)
		}
	}
	return s.presenterRepo.Replace(ctx, eventID, profileIDs)
}

func (s *eventService) ListPresenters(ctx context.Context, eventID string) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.presenterRepo.ListByEventID(ctx, eventID)
}

func (s *eventService) AddDocument(ctx context.Context, doc *domain.EventDocument) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, doc.EventID); err != nil {
		return err
	}
	return s.documentRepo.Create(ctx, doc)
}

func (s *eventService) ListDocuments(ctx context.Context, eventID string) ([]*domain.EventDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.documentRepo.ListByEventID(ctx, eventID)
}

func (s *eventService) DeleteDocument(ctx context.Context, documentID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.documentRepo.Delete(ctx, documentID); err != nil {
		return err
	}
	if s.store != nil {
		// Metadata is the source of truth; an orphaned object in the
		// bucket is tolerable.
		prefix := s.store.PublicURL(domain.MediaEventDocument, "")
		if key := strings.TrimPrefix(doc.URL, prefix); key != doc.URL {
			_ = s.store.Delete(ctx, domain.MediaEventDocument, key)
		}
	}
	return nil
}

func (s *eventService) SetVideoURL(ctx context.Context, eventID string, url *string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.SetVideoURL(ctx, eventID, url)
}
