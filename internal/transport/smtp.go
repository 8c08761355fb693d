package transport

import (
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/bcgov/notify/internal/config"
	"github.com/bcgov/notify/internal/template/render"
)

// SMTPTransport delivers email over plain SMTP (mailhog/mailpit in local
// development). Registered under the "smtp" adapter key.
type SMTPTransport struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPTransport(cfg config.SMTPConfig) *SMTPTransport {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	dialer.SSL = cfg.Secure
	return &SMTPTransport{dialer: dialer, from: cfg.From}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) Send(ctx context.Context, msg *EmailMessage) (*Result, error) {
	from := msg.From
	if from == "" {
		from = t.from
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetBody("text/html", msg.Body)

	for _, a := range msg.Attachments {
		// Link-mode attachments are hosted elsewhere, only attach-mode
		// payloads go on the wire.
		if a.SendingMethod != render.SendAttach {
			continue
		}
		content := a.Content
		m.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	if err := t.dialer.DialAndSend(m); err != nil {
		return nil, fmt.Errorf("smtp send failed: %w", err)
	}
	return &Result{ProviderResponse: "accepted"}, nil
}
