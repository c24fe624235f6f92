package email

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletterapi/internal/domain"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testEmail() domain.Email {
	return domain.Email{
		To:       "ursula_le_guin@gmail.com",
		Subject:  "Welcome!",
		HTMLBody: "<p>Hello</p>",
		TextBody: "Hello",
	}
}

func TestPostmarkClient_Send_requestShape(t *testing.T) {
	var got sendEmailRequest
	var gotPath, gotToken, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		gotContentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewPostmarkClient(server.URL+"/", "newsletter@example.com", "secret-token", time.Second, discardLogger)
	require.NoError(t, client.Send(context.Background(), testEmail()))

	assert.Equal(t, "/email", gotPath)
	assert.Equal(t, "secret-token", gotToken)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, sendEmailRequest{
		From:     "newsletter@example.com",
		To:       "ursula_le_guin@gmail.com",
		Subject:  "Welcome!",
		HtmlBody: "<p>Hello</p>",
		TextBody: "Hello",
	}, got)
}

func TestPostmarkClient_Send_failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "unprocessable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid email request"}`))
			},
		},
		{
			name: "slower than timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(300 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewPostmarkClient(server.URL, "newsletter@example.com", "secret-token", 50*time.Millisecond, discardLogger)
			err := client.Send(context.Background(), testEmail())
			assert.Error(t, err)
		})
	}
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name     string
		config   MailerConfig
		wantType any
		wantErr  bool
	}{
		{"postmark", MailerConfig{Provider: "postmark", BaseURL: "http://localhost"}, &PostmarkClient{}, false},
		{"postmark without url", MailerConfig{Provider: "postmark"}, nil, true},
		{"sendgrid", MailerConfig{Provider: "sendgrid", AuthorizationToken: "key"}, &sendgridMailer{}, false},
		{"sendgrid without key", MailerConfig{Provider: "sendgrid"}, nil, true},
		{"ses", MailerConfig{Provider: "ses", SES: SESConfig{Region: "eu-west-1"}}, &sesMailer{}, false},
		{"noop", MailerConfig{Provider: "noop"}, &noopMailer{}, false},
		{"unknown", MailerConfig{Provider: "carrier-pigeon"}, &noopMailer{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer, err := NewMailer(tt.config, discardLogger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, mailer)
		})
	}
}
