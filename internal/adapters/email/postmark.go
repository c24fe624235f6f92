package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"newsletterapi/internal/domain"
)

// PostmarkClient sends email through a Postmark-compatible HTTP API.
type PostmarkClient struct {
	httpClient         *http.Client
	baseURL            string
	sender             string
	authorizationToken string
	logger             *slog.Logger
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// NewPostmarkClient returns a client posting to {baseURL}/email. Each request is
// bounded by timeout.
func NewPostmarkClient(baseURL, sender, authorizationToken string, timeout time.Duration, logger *slog.Logger) *PostmarkClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostmarkClient{
		httpClient:         &http.Client{Timeout: timeout},
		baseURL:            strings.TrimRight(baseURL, "/"),
		sender:             sender,
		authorizationToken: authorizationToken,
		logger:             logger,
	}
}

// Send implements domain.Mailer.
func (c *PostmarkClient) Send(ctx context.Context, email domain.Email) error {
	payload, err := json.Marshal(sendEmailRequest{
		From:     c.sender,
		To:       email.To,
		Subject:  email.Subject,
		HtmlBody: email.HTMLBody,
		TextBody: email.TextBody,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.authorizationToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	c.logger.DebugContext(ctx, "email sent", "to", email.To, "status", resp.StatusCode)
	return nil
}
