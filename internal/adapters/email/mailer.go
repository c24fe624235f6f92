package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"newsletterapi/internal/domain"
)

const defaultSendTimeout = 10 * time.Second

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider           string
	BaseURL            string
	AuthorizationToken string
	FromAddress        string
	FromName           string
	Timeout            time.Duration
	SES                SESConfig
}

// NewMailer creates a mailer from config. Provider "postmark" posts to an HTTP email API,
// "ses" uses AWS SES, "sendgrid" uses SendGrid; "noop" or unknown uses a no-op mailer.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	switch config.Provider {
	case "postmark":
		if config.BaseURL == "" {
			return nil, fmt.Errorf("postmark mailer requires a base url")
		}
		return NewPostmarkClient(config.BaseURL, config.FromAddress, config.AuthorizationToken, timeout, logger), nil
	case "ses":
		sesConfig := config.SES
		if sesConfig.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES. Use only in development.")
		}
		httpClient := &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: sesConfig.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: sesConfig.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					sesConfig.AccessKeyID,
					sesConfig.SecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		return &sesMailer{
			client:      ses.NewFromConfig(awsCfg),
			fromAddress: config.FromAddress,
			fromName:    config.FromName,
			timeout:     timeout,
			logger:      logger,
		}, nil
	case "sendgrid":
		if config.AuthorizationToken == "" {
			return nil, fmt.Errorf("sendgrid mailer requires an api key")
		}
		return &sendgridMailer{
			client:      sendgrid.NewSendClient(config.AuthorizationToken),
			fromAddress: config.FromAddress,
			fromName:    config.FromName,
			timeout:     timeout,
			logger:      logger,
		}, nil
	case "noop":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop", "provider", config.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
	timeout     time.Duration
	logger      *slog.Logger
}

func (s *sesMailer) Send(ctx context.Context, email domain.Email) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}
	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(email.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	if email.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(email.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if email.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(email.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.DebugContext(ctx, "email sent via SES", "message_id", aws.ToString(result.MessageId))
	return nil
}

type sendgridMailer struct {
	client      *sendgrid.Client
	fromAddress string
	fromName    string
	timeout     time.Duration
	logger      *slog.Logger
}

func (s *sendgridMailer) Send(ctx context.Context, email domain.Email) error {
	from := sgmail.NewEmail(s.fromName, s.fromAddress)
	to := sgmail.NewEmail("", email.To)
	message := sgmail.NewSingleEmail(from, email.Subject, to, email.TextBody, email.HTMLBody)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected email: status %d: %s", resp.StatusCode, resp.Body)
	}
	s.logger.DebugContext(ctx, "email sent via SendGrid", "status", resp.StatusCode)
	return nil
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, email domain.Email) error {
	n.logger.InfoContext(ctx, "email would be sent (noop)", "to", email.To, "subject", email.Subject)
	return nil
}
