package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"newsletterapi/internal/domain"
)

const (
	maxTokenAttempts = 3
	rollbackTimeout  = 5 * time.Second

	// SubscriptionTokenParam is the query parameter carrying the token in confirmation links.
	SubscriptionTokenParam = "subscription_token"
)

type subscriptionService struct {
	store           domain.SubscriptionStore
	tokens          domain.TokenGenerator
	emails          domain.EmailService
	confirmationURL string
	now             func() time.Time
	logger          *slog.Logger
}

// NewSubscriptionService creates the subscription workflow. confirmationURL is the base of the
// link mailed to new subscribers; the token is appended as the subscription_token query parameter.
func NewSubscriptionService(store domain.SubscriptionStore, tokens domain.TokenGenerator, emails domain.EmailService, confirmationURL string, logger *slog.Logger) domain.SubscriptionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &subscriptionService{
		store:           store,
		tokens:          tokens,
		emails:          emails,
		confirmationURL: confirmationURL,
		now:             time.Now,
		logger:          logger,
	}
}

// issuedToken is the outcome of the persistence step of Subscribe.
type issuedToken struct {
	subscriber *domain.Subscriber
	token      string
	created    bool
}

func (s *subscriptionService) Subscribe(ctx context.Context, in domain.SubscribeInput) error {
	name, nameErr := domain.ParseSubscriberName(in.Name)
	email, emailErr := domain.ParseSubscriberEmail(in.Email)
	if err := errors.Join(nameErr, emailErr); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	issued, err := s.issueToken(ctx, email, name)
	if err != nil {
		return err
	}

	link, err := confirmationLink(s.confirmationURL, issued.token)
	if err != nil {
		s.discard(ctx, issued)
		return fmt.Errorf("failed to build confirmation link: %w", err)
	}
	data := &domain.ConfirmationEmailData{
		Email:            issued.subscriber.Email,
		Name:             issued.subscriber.Name,
		ConfirmationLink: link,
	}
	if err := s.emails.SendConfirmation(ctx, data); err != nil {
		s.discard(ctx, issued)
		return fmt.Errorf("%w: %w", domain.ErrNotification, err)
	}

	s.logger.InfoContext(ctx, "subscriber pending confirmation",
		"subscriber_id", issued.subscriber.ID,
		"new_subscriber", issued.created,
	)
	return nil
}

// issueToken stores a pending subscriber (or reuses a pending one with the same email) together
// with a fresh token in a single transaction. Token collisions and concurrent inserts of the same
// email restart the transaction.
func (s *subscriptionService) issueToken(ctx context.Context, email domain.SubscriberEmail, name domain.SubscriberName) (*issuedToken, error) {
	var lastErr error
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		token, err := s.tokens.Generate()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to generate token: %w", domain.ErrPersistence, err)
		}

		var issued issuedToken
		err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.SubscriptionStore) error {
			existing, err := tx.GetByEmail(ctx, email.String())
			switch {
			case err == nil:
				if existing.Status == domain.StatusConfirmed {
					return domain.ErrAlreadySubscribed
				}
				issued = issuedToken{subscriber: existing}
			case errors.Is(err, domain.ErrSubscriberNotFound):
				sub := domain.NewPendingSubscriber(email, name, s.now().UTC())
				if err := tx.InsertSubscriber(ctx, sub); err != nil {
					return err
				}
				issued = issuedToken{subscriber: sub, created: true}
			default:
				return err
			}
			issued.token = token
			return tx.InsertToken(ctx, &domain.SubscriptionToken{Token: token, SubscriberID: issued.subscriber.ID})
		})
		switch {
		case err == nil:
			return &issued, nil
		case errors.Is(err, domain.ErrAlreadySubscribed):
			return nil, err
		case errors.Is(err, domain.ErrTokenCollision), errors.Is(err, domain.ErrDuplicateEmail):
			s.logger.WarnContext(ctx, "retrying subscription transaction", "attempt", attempt, "err", err)
			lastErr = err
			continue
		default:
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, lastErr)
}

// discard removes what issueToken stored so a failed request leaves no token behind and no
// subscriber that only this request created.
func (s *subscriptionService) discard(ctx context.Context, issued *issuedToken) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.SubscriptionStore) error {
		if err := tx.DeleteToken(ctx, issued.token); err != nil {
			return err
		}
		if issued.created {
			return tx.DeleteSubscriber(ctx, issued.subscriber.ID)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to discard unconfirmed subscription",
			"subscriber_id", issued.subscriber.ID,
			"err", err,
		)
	}
}

// Confirm marks the subscriber owning token as confirmed. A token whose subscriber was removed
// in the meantime (a concurrent discard) is reported as unknown.
func (s *subscriptionService) Confirm(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrUnknownToken
	}
	var subscriberID string
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.SubscriptionStore) error {
		id, err := tx.FindSubscriberIDByToken(ctx, token)
		if err != nil {
			return err
		}
		subscriberID = id
		return tx.UpdateStatus(ctx, id, domain.StatusConfirmed)
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUnknownToken), errors.Is(err, domain.ErrSubscriberNotFound):
		return domain.ErrUnknownToken
	default:
		return fmt.Errorf("failed to confirm subscriber: %w", err)
	}
	s.logger.InfoContext(ctx, "subscriber confirmed", "subscriber_id", subscriberID)
	return nil
}

// confirmationLink appends token to base. base must be absolute and carry no query or fragment,
// so the link reads the same in the html and text bodies.
func confirmationLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid confirmation base url %q", base)
	}
	if u.RawQuery != "" || u.Fragment != "" || u.ForceQuery {
		return "", fmt.Errorf("confirmation base url %q must not carry a query or fragment", base)
	}
	u.RawQuery = url.Values{SubscriptionTokenParam: {token}}.Encode()
	return u.String(), nil
}
