package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"newsletterapi/internal/domain"
)

type subscriptionRepository struct {
	db     *sql.DB
	q      queryer
	inTx   bool
	logger *slog.Logger
}

// NewSubscriptionRepository returns a domain.SubscriptionStore implemented with Postgres.
func NewSubscriptionRepository(db *sql.DB, logger *slog.Logger) domain.SubscriptionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &subscriptionRepository{db: db, q: db, logger: logger}
}

// WithinTx runs fn in a transaction. Calls made while already inside a transaction reuse it.
func (r *subscriptionRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, store domain.SubscriptionStore) error) error {
	if r.inTx {
		return fn(ctx, r)
	}
	return RunInTransaction(ctx, r.db, r.logger, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, &subscriptionRepository{db: r.db, q: tx, inTx: true, logger: r.logger})
	})
}

func (r *subscriptionRepository) InsertSubscriber(ctx context.Context, s *domain.Subscriber) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
		INSERT INTO subscribers (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query, s.ID, s.Email, s.Name, s.SubscribedAt, string(s.Status))
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint != subscriptionTokensPKey {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) InsertToken(ctx context.Context, t *domain.SubscriptionToken) error {
	query := `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES ($1, $2)
	`
	_, err := r.q.ExecContext(ctx, query, t.Token, t.SubscriberID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint != subscribersEmailConstraint {
			return domain.ErrTokenCollision
		}
		return fmt.Errorf("insert subscription token: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) FindSubscriberIDByToken(ctx context.Context, token string) (string, error) {
	query := `
		SELECT subscriber_id FROM subscription_tokens
		WHERE subscription_token = $1
	`
	var id string
	err := r.q.QueryRowContext(ctx, query, token).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrUnknownToken
		}
		return "", fmt.Errorf("find subscription token: %w", err)
	}
	return id, nil
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, subscriberID string, status domain.SubscriberStatus) error {
	query := `UPDATE subscribers SET status = $1 WHERE id = $2`
	result, err := r.q.ExecContext(ctx, query, string(status), subscriberID)
	if err != nil {
		return fmt.Errorf("update subscriber status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSubscriberNotFound
	}
	return nil
}

const subscriberColumns = `id, email, name, subscribed_at, status`

func (r *subscriptionRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE email = $1`
	return scanSubscriber(r.q.QueryRowContext(ctx, query, email))
}

func (r *subscriptionRepository) ListConfirmed(ctx context.Context) ([]*domain.Subscriber, error) {
	query := `
		SELECT ` + subscriberColumns + `
		FROM subscribers
		WHERE status = $1
		ORDER BY subscribed_at, id
	`
	rows, err := r.q.QueryContext(ctx, query, string(domain.StatusConfirmed))
	if err != nil {
		return nil, fmt.Errorf("list confirmed subscribers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Subscriber
	for rows.Next() {
		s := &domain.Subscriber{}
		var status string
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &s.SubscribedAt, &status); err != nil {
			return nil, err
		}
		s.Status = domain.SubscriberStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *subscriptionRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM subscription_tokens WHERE subscription_token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete subscription token: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) DeleteSubscriber(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	return nil
}

func scanSubscriber(row *sql.Row) (*domain.Subscriber, error) {
	s := &domain.Subscriber{}
	var status string
	err := row.Scan(&s.ID, &s.Email, &s.Name, &s.SubscribedAt, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("get subscriber: %w", err)
	}
	s.Status = domain.SubscriberStatus(status)
	return s, nil
}
