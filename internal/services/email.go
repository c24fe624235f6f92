package services

import (
	"context"
	"fmt"
	"log/slog"

	"newsletterapi/internal/domain"
)

const confirmationTemplate = "confirmation"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendConfirmation sends the subscription confirmation email using the "confirmation" template.
func (s *emailService) SendConfirmation(ctx context.Context, data *domain.ConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("confirmation email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render(confirmationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render confirmation template: %w", err)
	}
	email := domain.Email{
		To:       data.Email,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
	if err := s.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	s.logger.InfoContext(ctx, "confirmation email sent", "to", data.Email)
	return nil
}
