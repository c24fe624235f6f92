package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsletterapi/internal/domain"
)

// DefaultPublishTimeout bounds a whole publication when no timeout is configured.
const DefaultPublishTimeout = 30 * time.Minute

type newsletterService struct {
	store          domain.SubscriptionStore
	mailer         domain.Mailer
	publishTimeout time.Duration
	logger         *slog.Logger
}

// NewNewsletterService returns a NewsletterService delivering issues to confirmed subscribers.
// publishTimeout bounds one publication independently of the caller's deadline; values <= 0
// fall back to DefaultPublishTimeout.
func NewNewsletterService(store domain.SubscriptionStore, mailer domain.Mailer, publishTimeout time.Duration, logger *slog.Logger) domain.NewsletterService {
	if logger == nil {
		logger = slog.Default()
	}
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}
	return &newsletterService{store: store, mailer: mailer, publishTimeout: publishTimeout, logger: logger}
}

// Publish sends issue to every confirmed subscriber. Stored addresses that no longer pass
// validation are skipped; the first delivery failure aborts the publication.
//
// Delivery runs detached from ctx's cancellation and deadline, so a publication that outlives
// the HTTP request timeout still reaches every subscriber. Each Send keeps the mailer's own
// per-message timeout.
func (s *newsletterService) Publish(ctx context.Context, issue domain.NewsletterIssue) (*domain.PublishResult, error) {
	if strings.TrimSpace(issue.Title) == "" || strings.TrimSpace(issue.HTMLContent) == "" || strings.TrimSpace(issue.TextContent) == "" {
		return nil, fmt.Errorf("%w: title, html and text content are required", domain.ErrInvalidNewsletter)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	subscribers, err := s.store.ListConfirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed subscribers: %w", err)
	}

	result := &domain.PublishResult{}
	for _, sub := range subscribers {
		if _, err := domain.ParseSubscriberEmail(sub.Email); err != nil {
			s.logger.WarnContext(ctx, "skipping confirmed subscriber with invalid email",
				"subscriber_id", sub.ID, "err", err)
			result.Skipped++
			continue
		}
		email := domain.Email{
			To:       sub.Email,
			Subject:  issue.Title,
			HTMLBody: issue.HTMLContent,
			TextBody: issue.TextContent,
		}
		if err := s.mailer.Send(ctx, email); err != nil {
			return nil, fmt.Errorf("%w: newsletter issue to subscriber %s: %w", domain.ErrNewsletterDelivery, sub.ID, err)
		}
		result.Recipients++
	}
	s.logger.InfoContext(ctx, "newsletter issue published",
		"title", issue.Title,
		"recipients", result.Recipients,
		"skipped", result.Skipped,
	)
	return result, nil
}
