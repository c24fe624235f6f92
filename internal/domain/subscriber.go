package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for subscription operations.
var (
	ErrInvalidInput       = errors.New("invalid subscriber input")
	ErrUnknownToken       = errors.New("unknown subscription token")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrAlreadySubscribed  = errors.New("email already subscribed")
	ErrTokenCollision     = errors.New("subscription token already issued")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrPersistence        = errors.New("failed to persist subscription")
	ErrNotification       = errors.New("failed to send confirmation email")
)

// SubscriberStatus is the confirmation state of a subscriber.
type SubscriberStatus string

const (
	StatusPendingConfirmation SubscriberStatus = "pending_confirmation"
	StatusConfirmed           SubscriberStatus = "confirmed"
)

// Subscriber represents a person who submitted the subscription form.
// swagger:model Subscriber
type Subscriber struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	SubscribedAt time.Time        `json:"subscribed_at"`
	Status       SubscriberStatus `json:"status"`
}

// NewPendingSubscriber returns a Subscriber awaiting confirmation. ID is set by the caller.
func NewPendingSubscriber(email SubscriberEmail, name SubscriberName, subscribedAt time.Time) *Subscriber {
	return &Subscriber{
		Email:        email.String(),
		Name:         name.String(),
		SubscribedAt: subscribedAt,
		Status:       StatusPendingConfirmation,
	}
}

// SubscriptionToken binds a confirmation link to one subscriber.
type SubscriptionToken struct {
	Token        string
	SubscriberID string
}

// TokenGenerator produces random, URL-safe subscription tokens.
type TokenGenerator interface {
	Generate() (string, error)
}

// SubscriptionStore defines persistence for subscribers and their tokens.
// WithinTx runs fn against a store bound to a single transaction; the
// transaction commits when fn returns nil and rolls back otherwise.
type SubscriptionStore interface {
	InsertSubscriber(ctx context.Context, s *Subscriber) error
	InsertToken(ctx context.Context, t *SubscriptionToken) error
	FindSubscriberIDByToken(ctx context.Context, token string) (string, error)
	UpdateStatus(ctx context.Context, subscriberID string, status SubscriberStatus) error
	GetByEmail(ctx context.Context, email string) (*Subscriber, error)
	ListConfirmed(ctx context.Context) ([]*Subscriber, error)
	DeleteToken(ctx context.Context, token string) error
	DeleteSubscriber(ctx context.Context, id string) error
	WithinTx(ctx context.Context, fn func(ctx context.Context, store SubscriptionStore) error) error
}

// SubscribeInput is the decoded subscription form.
type SubscribeInput struct {
	Name  string
	Email string
}

// SubscriptionService defines the subscription confirmation workflow.
type SubscriptionService interface {
	Subscribe(ctx context.Context, in SubscribeInput) error
	Confirm(ctx context.Context, token string) error
}
