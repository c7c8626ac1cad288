// Package email delivers booking confirmations. Provider "ses" uses AWS SES;
// "noop" or unknown reports delivery as disabled, keeping local development
// mail-free.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"meetslot/internal/pkg/config"
	"meetslot/internal/usecase"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

func NewMailer(cfg config.MailerConfig) usecase.Mailer {
	switch cfg.Provider {
	case "ses":
		awsCfg := aws.Config{
			Region: cfg.SESRegion,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					cfg.SESAccessKeyID,
					cfg.SESSecretAccessKey,
					"",
				),
			),
		}
		return &sesMailer{
			client:      ses.NewFromConfig(awsCfg),
			fromAddress: cfg.FromAddress,
			fromName:    cfg.FromName,
		}
	case "noop":
		return &noopMailer{}
	default:
		slog.Warn("unknown email provider, using noop", "provider", cfg.Provider)
		return &noopMailer{}
	}
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
}

func (s *sesMailer) SendBookingConfirmation(ctx context.Context, mail usecase.ConfirmationEmail) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	subject := fmt.Sprintf("Confirmed: %s with %s", mail.EventName, mail.HostName)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking is confirmed.\n\n%s\n%s - %s (%s)\n",
		mail.InviteeName, mail.EventName, mail.StartLocal, mail.EndLocal, mail.Timezone,
	)
	if mail.MeetingURL != "" {
		body += fmt.Sprintf("\nJoin: %s\n", mail.MeetingURL)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{mail.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	slog.Info("confirmation email sent", "message_id", aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct{}

func (n *noopMailer) SendBookingConfirmation(_ context.Context, mail usecase.ConfirmationEmail) error {
	slog.Info("email delivery disabled, skipping", "to", mail.To, "event", mail.EventName)
	return usecase.ErrEmailDisabled
}
