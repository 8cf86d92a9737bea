package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// MailQueue accepts fully rendered emails for asynchronous delivery.
type MailQueue interface {
	EnqueueEmail(ctx context.Context, to, subject, html, text string) error
}

// AccountInvitationEmailData holds data for the account invitation email.
type AccountInvitationEmailData struct {
	Email     string
	Role      string
	AcceptURL string
	ExpiresAt string
}

// EventInvitationEmailData holds data for the event invitation email.
type EventInvitationEmailData struct {
	Email       string
	SenderName  string
	EventTitle  string
	EventDate   string
	Location    string
	Description string
	EventURL    string
}

// EventCancellationEmailData holds data for the cancellation notice.
type EventCancellationEmailData struct {
	Email      string
	EventTitle string
	EventDate  string
}

// DateChangeEmailData holds data for the date-change notice. The
// recipient's registration has been cancelled; they must re-register.
type DateChangeEmailData struct {
	Email      string
	EventTitle string
	OldDate    string
	NewDate    string
	EventURL   string
}

// EventReminderEmailData holds data for the reminder email.
type EventReminderEmailData struct {
	Email      string
	EventTitle string
	EventDate  string
	Location   string
}

// ContactEmailData holds data for the contact-form email to staff.
type ContactEmailData struct {
	FromEmail string
	FromName  string
	Subject   string
	Message   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendAccountInvitation(ctx context.Context, data *AccountInvitationEmailData) error
	SendEventInvitation(ctx context.Context, data *EventInvitationEmailData) error
	SendEventCancellation(ctx context.Context, data *EventCancellationEmailData) error
	SendDateChangeNotification(ctx context.Context, data *DateChangeEmailData) error
	SendEventReminder(ctx context.Context, data *EventReminderEmailData) error
	SendContactEmail(ctx context.Context, data *ContactEmailData) error
}
