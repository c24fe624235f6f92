package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsletterapi/internal/delivery/http/helpers"
	"newsletterapi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthenticator implements domain.AdminAuthenticator for tests.
type fakeAuthenticator struct {
	userID string
	err    error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, _ string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: f.userID}, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name          string
		authHeader    string
		authenticator domain.AdminAuthenticator
		wantStatus    int
		wantBodyCode  string
		nextCalled    bool
		wantContextID string
	}{
		{
			name:          "valid token sets context and calls next",
			authHeader:    "Bearer valid-token",
			authenticator: &fakeAuthenticator{userID: "admin-1"},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "admin-1",
		},
		{
			name:          "scheme is case insensitive",
			authHeader:    "bearer valid-token",
			authenticator: &fakeAuthenticator{userID: "admin-1"},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "admin-1",
		},
		{
			name:          "missing authorization header",
			authenticator: &fakeAuthenticator{userID: "admin-1"},
			wantStatus:    http.StatusUnauthorized,
			wantBodyCode:  helpers.ErrCodeUnauthorized,
		},
		{
			name:          "basic scheme rejected",
			authHeader:    "Basic abc",
			authenticator: &fakeAuthenticator{userID: "admin-1"},
			wantStatus:    http.StatusUnauthorized,
			wantBodyCode:  helpers.ErrCodeUnauthorized,
		},
		{
			name:          "empty token after Bearer",
			authHeader:    "Bearer ",
			authenticator: &fakeAuthenticator{userID: "admin-1"},
			wantStatus:    http.StatusUnauthorized,
			wantBodyCode:  helpers.ErrCodeUnauthorized,
		},
		{
			name:          "expired token",
			authHeader:    "Bearer bad-token",
			authenticator: &fakeAuthenticator{err: fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, errors.New("token is expired"))},
			wantStatus:    http.StatusUnauthorized,
			wantBodyCode:  helpers.ErrCodeUnauthorized,
		},
		{
			name:          "token of removed admin",
			authHeader:    "Bearer valid-token",
			authenticator: &fakeAuthenticator{err: fmt.Errorf("%w: user admin-1 no longer exists", domain.ErrInvalidCredentials)},
			wantStatus:    http.StatusUnauthorized,
			wantBodyCode:  helpers.ErrCodeUnauthorized,
		},
		{
			name:          "user lookup failure",
			authHeader:    "Bearer valid-token",
			authenticator: &fakeAuthenticator{err: sql.ErrConnDone},
			wantStatus:    http.StatusInternalServerError,
			wantBodyCode:  helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if id, ok := AdminIDFromContext(r.Context()); ok {
					capturedID = id
				}
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireAuth(tt.authenticator, logger)(next)

			req := httptest.NewRequest(http.MethodPost, "http://test/newsletters", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, tt.wantContextID, capturedID, "admin ID in context")
			}
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}
