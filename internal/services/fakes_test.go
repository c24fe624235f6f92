package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sort"
	"sync"

	"newsletterapi/internal/domain"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeSubscriptionStore implements domain.SubscriptionStore in memory. WithinTx restores the
// previous state when fn fails, so partial writes are never visible afterwards.
type fakeSubscriptionStore struct {
	mu          sync.Mutex
	subscribers map[string]*domain.Subscriber
	tokens      map[string]string
	nextID      int

	insertTokenErr error
	getByEmailErr  error
	findTokenErr   error
	deleteErr      error
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{
		subscribers: make(map[string]*domain.Subscriber),
		tokens:      make(map[string]string),
	}
}

func (f *fakeSubscriptionStore) InsertSubscriber(ctx context.Context, s *domain.Subscriber) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.subscribers {
		if existing.Email == s.Email {
			return domain.ErrDuplicateEmail
		}
	}
	f.nextID++
	s.ID = fmt.Sprintf("subscriber-%d", f.nextID)
	cp := *s
	f.subscribers[s.ID] = &cp
	return nil
}

func (f *fakeSubscriptionStore) InsertToken(ctx context.Context, t *domain.SubscriptionToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertTokenErr != nil {
		return f.insertTokenErr
	}
	if _, ok := f.tokens[t.Token]; ok {
		return domain.ErrTokenCollision
	}
	if _, ok := f.subscribers[t.SubscriberID]; !ok {
		return fmt.Errorf("subscriber %s does not exist", t.SubscriberID)
	}
	f.tokens[t.Token] = t.SubscriberID
	return nil
}

func (f *fakeSubscriptionStore) FindSubscriberIDByToken(ctx context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findTokenErr != nil {
		return "", f.findTokenErr
	}
	id, ok := f.tokens[token]
	if !ok {
		return "", domain.ErrUnknownToken
	}
	return id, nil
}

func (f *fakeSubscriptionStore) UpdateStatus(ctx context.Context, subscriberID string, status domain.SubscriberStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subscribers[subscriberID]
	if !ok {
		return domain.ErrSubscriberNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeSubscriptionStore) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	for _, s := range f.subscribers {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrSubscriberNotFound
}

func (f *fakeSubscriptionStore) ListConfirmed(ctx context.Context) ([]*domain.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Subscriber
	for _, s := range f.subscribers {
		if s.Status == domain.StatusConfirmed {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSubscriptionStore) DeleteToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeSubscriptionStore) DeleteSubscriber(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.subscribers, id)
	for token, sid := range f.tokens {
		if sid == id {
			delete(f.tokens, token)
		}
	}
	return nil
}

func (f *fakeSubscriptionStore) WithinTx(ctx context.Context, fn func(ctx context.Context, store domain.SubscriptionStore) error) error {
	f.mu.Lock()
	subscribers := make(map[string]*domain.Subscriber, len(f.subscribers))
	for id, s := range f.subscribers {
		cp := *s
		subscribers[id] = &cp
	}
	tokens := maps.Clone(f.tokens)
	f.mu.Unlock()

	if err := fn(ctx, f); err != nil {
		f.mu.Lock()
		f.subscribers = subscribers
		f.tokens = tokens
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeSubscriptionStore) all() []*domain.Subscriber {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Subscriber, 0, len(f.subscribers))
	for _, s := range f.subscribers {
		cp := *s
		out = append(out, &cp)
	}
	return out
}

func (f *fakeSubscriptionStore) tokenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

// capturingMailer implements domain.Mailer and records every message.
type capturingMailer struct {
	mu   sync.Mutex
	sent []domain.Email
	err  error
}

func (m *capturingMailer) Send(ctx context.Context, email domain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return m.err
}

func (m *capturingMailer) messages() []domain.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Email(nil), m.sent...)
}

// sequenceTokenGenerator returns the configured tokens in order, then fails.
type sequenceTokenGenerator struct {
	tokens []string
}

func (g *sequenceTokenGenerator) Generate() (string, error) {
	if len(g.tokens) == 0 {
		return "", fmt.Errorf("no more tokens")
	}
	t := g.tokens[0]
	g.tokens = g.tokens[1:]
	return t, nil
}
