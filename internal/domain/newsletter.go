package domain

import (
	"context"
	"errors"
)

var (
	// ErrInvalidNewsletter is returned when an issue is missing its title or content.
	ErrInvalidNewsletter = errors.New("invalid newsletter issue")
	// ErrNewsletterDelivery wraps the mailer failure that aborted a publication.
	ErrNewsletterDelivery = errors.New("failed to deliver newsletter issue")
)

// NewsletterIssue is the content published to every confirmed subscriber.
type NewsletterIssue struct {
	Title       string
	HTMLContent string
	TextContent string
}

// PublishResult summarises one publication.
// swagger:model PublishResult
type PublishResult struct {
	Recipients int `json:"recipients"`
	Skipped    int `json:"skipped"`
}

// NewsletterService publishes issues to confirmed subscribers.
type NewsletterService interface {
	Publish(ctx context.Context, issue NewsletterIssue) (*PublishResult, error)
}
