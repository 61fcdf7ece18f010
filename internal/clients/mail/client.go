package mail

import (
	"callassist-server/internal/observability"
	"context"
	"errors"
	"fmt"

	"github.com/resendlabs/resend-go"
)

// Message is an outgoing transactional email
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// ResendClient sends transactional email through Resend
type ResendClient struct {
	client        *resend.Client
	defaultSender string
	logger        *observability.Logger
}

func NewResendClient(apiKey, defaultSender string, logger *observability.Logger) (*ResendClient, error) {
	if apiKey == "" {
		return nil, errors.New("Resend API key is required")
	}
	client := resend.NewClient(apiKey)
	if client == nil {
		return nil, fmt.Errorf("failed to create Resend client")
	}

	return &ResendClient{
		client:        client,
		defaultSender: defaultSender,
		logger:        logger,
	}, nil
}

// Send delivers msg and returns the provider message id. An empty From uses the
// configured default sender.
func (c *ResendClient) Send(ctx context.Context, msg Message) (string, error) {
	from := msg.From
	if from == "" {
		from = c.defaultSender
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_to", Value: msg.To},
		observability.Field{Key: "email_subject", Value: msg.Subject},
	)

	res, err := c.client.Emails.Send(&resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		c.logger.Error(ctx, "failed to send email", err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info(ctx, "email sent successfully")
	return res.Id, nil
}
