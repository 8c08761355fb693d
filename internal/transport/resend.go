package transport

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/bcgov/notify/internal/config"
	"github.com/bcgov/notify/internal/template/render"
)

// ResendTransport delivers email through the Resend hosted API.
// Registered under the "resend" adapter key.
type ResendTransport struct {
	client *resend.Client
	from   string
}

func NewResendTransport(cfg config.ResendConfig) *ResendTransport {
	return &ResendTransport{
		client: resend.NewClient(cfg.APIKey),
		from:   cfg.From,
	}
}

func (t *ResendTransport) Name() string { return "resend" }

func (t *ResendTransport) Send(ctx context.Context, msg *EmailMessage) (*Result, error) {
	from := msg.From
	if from == "" {
		from = t.from
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.Body,
		ReplyTo: msg.ReplyTo,
	}
	for _, a := range msg.Attachments {
		if a.SendingMethod != render.SendAttach {
			continue
		}
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename: a.Filename,
			Content:  a.Content,
		})
	}

	sent, err := t.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to send email via Resend: %w", err)
	}
	return &Result{MessageID: sent.Id, ProviderResponse: "sent"}, nil
}
