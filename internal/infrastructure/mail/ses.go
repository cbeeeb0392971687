package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/rs/zerolog"
)

// Config holds the SES mailer settings.
type Config struct {
	Region      string
	FromAddress string
}

// SESMailer implements ports.Mailer on AWS SES.
type SESMailer struct {
	client *ses.Client
	from   string
	log    zerolog.Logger
}

func NewSESMailer(ctx context.Context, cfg Config, log zerolog.Logger) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESMailer{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.FromAddress,
		log:    log,
	}, nil
}

func (m *SESMailer) SendVerificationEmail(ctx context.Context, to, code string) error {
	html := strings.ReplaceAll(verificationEmailTemplate, "{verificationCode}", code)
	return m.send(ctx, to, "Verify Your Email", html)
}

func (m *SESMailer) SendWelcomeEmail(ctx context.Context, to, name string) error {
	html := strings.ReplaceAll(welcomeEmailTemplate, "{name}", name)
	return m.send(ctx, to, "Welcome to Our Service", html)
}

func (m *SESMailer) SendPasswordResetEmail(ctx context.Context, to, resetURL string) error {
	html := strings.ReplaceAll(passwordResetRequestTemplate, "{resetURL}", resetURL)
	return m.send(ctx, to, "Password Reset Request", html)
}

func (m *SESMailer) SendResetSuccessEmail(ctx context.Context, to string) error {
	return m.send(ctx, to, "Password Reset Successful", passwordResetSuccessTemplate)
}

func (m *SESMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
			},
		},
	}

	out, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}

	m.log.Debug().Str("to", to).Str("subject", subject).Str("message_id", aws.ToString(out.MessageId)).Msg("email sent")
	return nil
}
