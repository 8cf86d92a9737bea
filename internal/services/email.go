package services

import (
	"context"
	"fmt"
	"log/slog"

	"cerclepartages/internal/domain"
)

type emailService struct {
	mailer      domain.Mailer
	renderer    domain.EmailTemplateRenderer
	queue       domain.MailQueue
	contactAddr string
	logger      *slog.Logger
}

// NewEmailService returns an EmailService backed by the given mailer
// and templates. When queue is non-nil, rendered emails are enqueued
// for the worker instead of being sent inline.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, queue domain.MailQueue, contactAddr string, logger *slog.Logger) domain.EmailService {
	return &emailService{
		mailer:      mailer,
		renderer:    renderer,
		queue:       queue,
		contactAddr: contactAddr,
		logger:      logger,
	}
}

func (s *emailService) deliver(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", template, err)
	}
	if s.queue != nil {
		if err := s.queue.EnqueueEmail(ctx, to, subject, htmlBody, textBody); err != nil {
			return fmt.Errorf("enqueue %s email: %w", template, err)
		}
		s.logger.Debug("email enqueued", "template", template, "to", to)
		return nil
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	s.logger.Info("email sent", "template", template, "to", to)
	return nil
}

func (s *emailService) SendAccountInvitation(ctx context.Context, data *domain.AccountInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("account invitation data is nil")
	}
	return s.deliver(ctx, "account_invitation", data.Email, data)
}

func (s *emailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("event invitation data is nil")
	}
	return s.deliver(ctx, "event_invitation", data.Email, data)
}

func (s *emailService) SendEventCancellation(ctx context.Context, data *domain.EventCancellationEmailData) error {
	if data == nil {
		return fmt.Errorf("event cancellation data is nil")
	}
	return s.deliver(ctx, "event_cancellation", data.Email, data)
}

func (s *emailService) SendDateChangeNotification(ctx context.Context, data *domain.DateChangeEmailData) error {
	if data == nil {
		return fmt.Errorf("date change data is nil")
	}
	return s.deliver(ctx, "date_change", data.Email, data)
}

func (s *emailService) SendEventReminder(ctx context.Context, data *domain.EventReminderEmailData) error {
	if data == nil {
		return fmt.Errorf("event reminder data is nil")
	}
	return s.deliver(ctx, "event_reminder", data.Email, data)
}

// SendContactEmail goes to the staff contact address, not the member.
func (s *emailService) SendContactEmail(ctx context.Context, data *domain.ContactEmailData) error {
	if data == nil {
		return fmt.Errorf("contact data is nil")
	}
	if s.contactAddr == "" {
		return fmt.Errorf("contact address is not configured")
	}
	return s.deliver(ctx, "contact", s.contactAddr, data)
}
