package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"newsletterapi/internal/delivery/http/helpers"
	"newsletterapi/internal/domain"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeSubscriptionService implements domain.SubscriptionService for handler tests.
type fakeSubscriptionService struct {
	subscribeErr  error
	confirmErr    error
	lastInput     *domain.SubscribeInput
	lastToken     string
	subscribeCall int
	confirmCall   int
}

func (f *fakeSubscriptionService) Subscribe(ctx context.Context, in domain.SubscribeInput) error {
	f.subscribeCall++
	f.lastInput = &in
	return f.subscribeErr
}

func (f *fakeSubscriptionService) Confirm(ctx context.Context, token string) error {
	f.confirmCall++
	f.lastToken = token
	return f.confirmErr
}

// fakeAdminService implements domain.AdminService for handler tests.
type fakeAdminService struct {
	token     string
	err       error
	lastEmail string
}

func (f *fakeAdminService) Login(ctx context.Context, email, password string) (string, error) {
	f.lastEmail = email
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func (f *fakeAdminService) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	return &domain.User{ID: "admin-1", Email: email}, nil
}

func (f *fakeAdminService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return &domain.User{ID: "admin-1"}, nil
}

// fakeNewsletterService implements domain.NewsletterService for handler tests.
type fakeNewsletterService struct {
	result    *domain.PublishResult
	err       error
	lastIssue *domain.NewsletterIssue
}

func (f *fakeNewsletterService) Publish(ctx context.Context, issue domain.NewsletterIssue) (*domain.PublishResult, error) {
	f.lastIssue = &issue
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	return envelope
}
