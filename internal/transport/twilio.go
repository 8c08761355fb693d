package transport

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/bcgov/notify/internal/config"
)

// TwilioTransport delivers SMS through the Twilio messaging API. Without
// credentials it logs the message instead of sending, which keeps local
// development working. Registered under the "twilio" adapter key.
type TwilioTransport struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioTransport(cfg config.TwilioConfig) *TwilioTransport {
	t := &TwilioTransport{from: cfg.FromNumber}
	if cfg.AccountSID != "" && cfg.AuthToken != "" {
		t.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
	} else {
		log.Printf("Twilio credentials not configured - SMS will be logged but not sent")
	}
	return t
}

func (t *TwilioTransport) Name() string { return "twilio" }

func (t *TwilioTransport) Send(ctx context.Context, msg *SMSMessage) (*Result, error) {
	from := msg.From
	if from == "" {
		from = t.from
	}
	if from == "" {
		return nil, fmt.Errorf("SMS from number is required (set TWILIO_FROM_NUMBER or pass a sender)")
	}

	if t.client == nil {
		preview := msg.Body
		if len(preview) > 50 {
			preview = preview[:50]
		}
		log.Printf("[Dev mode] Would send SMS to %s: %s...", msg.To, preview)
		return &Result{
			MessageID:        fmt.Sprintf("dev-%d", time.Now().UnixMilli()),
			ProviderResponse: "logged",
		}, nil
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(from)
	params.SetBody(msg.Body)

	message, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("twilio send failed: %w", err)
	}

	result := &Result{}
	if message.Sid != nil {
		result.MessageID = *message.Sid
	}
	if message.Status != nil {
		result.ProviderResponse = *message.Status
	}
	return result, nil
}
