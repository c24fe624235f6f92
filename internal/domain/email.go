package domain

import "context"

// Email is a single outbound message with HTML and plain-text bodies.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer defines the contract for sending emails (infrastructure port).
// Implementations must honour ctx cancellation and their own send timeout.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ConfirmationEmailData holds data for the subscription confirmation email.
type ConfirmationEmailData struct {
	Email            string
	Name             string
	ConfirmationLink string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendConfirmation(ctx context.Context, data *ConfirmationEmailData) error
}
