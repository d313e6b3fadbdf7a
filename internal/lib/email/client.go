// Package email sends transactional email through Resend.
package email

import (
	"context"
	"fmt"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Client sends rendered templates. Without an API key it only logs what it
// would have sent.
type Client struct {
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

func NewClient(cfg config.IntegrationConfig, logger *zerolog.Logger) *Client {
	c := &Client{from: cfg.EmailFrom, logger: logger}
	if cfg.ResendAPIKey != "" {
		c.client = resend.NewClient(cfg.ResendAPIKey)
	}
	return c
}

func (c *Client) Enabled() bool {
	return c.client != nil
}

func (c *Client) SendEmail(ctx context.Context, to, subject string, name Template, data map[string]string) error {
	html, err := Render(name, data)
	if err != nil {
		return err
	}

	if !c.Enabled() {
		c.logger.Info().
			Str("to", to).
			Str("template", string(name)).
			Msg("email delivery disabled, skipping send")
		return nil
	}

	_, err = c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (c *Client) SendWelcomeEmail(ctx context.Context, to, name string) error {
	return c.SendEmail(ctx, to, "Welcome to the user directory", TemplateWelcome, map[string]string{
		"UserName":  name,
		"UserEmail": to,
	})
}
