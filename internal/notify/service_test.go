package notify

import (
	"context"
	"testing"

	"github.com/bcgov/notify/internal/apierr"
	"github.com/bcgov/notify/internal/config"
	"github.com/bcgov/notify/internal/delivery"
	"github.com/bcgov/notify/internal/identity"
	"github.com/bcgov/notify/internal/notifytype"
	"github.com/bcgov/notify/internal/template"
	"github.com/bcgov/notify/internal/template/render"
	"github.com/bcgov/notify/internal/tenant"
	"github.com/bcgov/notify/internal/transport"
)

type recordingEmail struct {
	sent []*transport.EmailMessage
}

func (r *recordingEmail) Name() string { return "smtp" }
func (r *recordingEmail) Send(ctx context.Context, msg *transport.EmailMessage) (*transport.Result, error) {
	r.sent = append(r.sent, msg)
	return &transport.Result{MessageID: "m-1"}, nil
}

type harness struct {
	svc         *Service
	templates   *template.Service
	notifyTypes *notifytype.Service
	defaults    *tenant.Service
	senders     *identity.Service
	email       *recordingEmail
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{
		EmailAdapter:          "smtp",
		SMSAdapter:            "twilio",
		DefaultTemplateEngine: "jinja2",
		DefaultSubject:        "Notification",
		DefaultFromEmail:      "noreply@localhost",
	}

	store := template.NewInMemoryStore()
	templates := template.NewService(store)
	resolver := template.NewStoreResolver(store)
	senders := identity.NewService(identity.NewInMemoryStore())
	notifyTypes := notifytype.NewService(notifytype.NewStore())
	defaults := tenant.NewService(tenant.NewInMemoryStore())

	email := &recordingEmail{}
	transports := transport.NewRegistry("smtp", "twilio")
	transports.RegisterEmail(email)

	registry := render.NewRegistry("jinja2", render.NewJinja2Renderer())

	svc := NewService(cfg, delivery.NewAdapterResolver(transports),
		senders, notifyTypes, defaults, resolver, registry)

	return &harness{
		svc: svc, templates: templates, notifyTypes: notifyTypes,
		defaults: defaults, senders: senders, email: email,
	}
}

func testContext() context.Context {
	return delivery.WithContext(context.Background(), &delivery.Context{
		EmailAdapterKey: "smtp",
		SMSAdapterKey:   "twilio",
		TemplateEngine:  "jinja2",
	})
}

func (h *harness) seed(t *testing.T) (tplID string) {
	t.Helper()
	tpl, err := h.templates.CreateTemplate(context.Background(), &template.CreateRequest{
		Name:    "reminder",
		Type:    template.ChannelEmail,
		Subject: "Reminder for {{ name }}",
		Body:    "Hello {{ name }}, {{ detail }}",
	})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	if _, err := h.notifyTypes.CreateNotifyType(context.Background(), &notifytype.CreateRequest{
		Code:       "appointment-reminder",
		SendAs:     "email",
		TemplateID: tpl.ID,
		Params:     map[string]string{"detail": "see you soon"},
	}); err != nil {
		t.Fatalf("CreateNotifyType failed: %v", err)
	}
	return tpl.ID
}

func TestSendByNotifyType(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	resp, err := h.svc.Send(testContext(), &Request{
		NotifyType: "appointment-reminder",
		Override: &Override{Common: &CommonOverride{
			To:     []string{"a@x.com"},
			Params: map[string]string{"name": "Ann"},
		}},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(h.email.sent) != 1 {
		t.Fatalf("got %d dispatched emails, want 1", len(h.email.sent))
	}
	msg := h.email.sent[0]
	if msg.Subject != "Reminder for Ann" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.Body != "Hello Ann, see you soon" {
		t.Errorf("body = %q, stored params must merge with request params", msg.Body)
	}

	if resp.NotifyID == "" || resp.TxID == "" {
		t.Errorf("response ids missing: %+v", resp)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].Channel != "email" {
		t.Errorf("messages = %+v", resp.Messages)
	}
}

func TestSendRequestParamsWin(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	_, err := h.svc.Send(testContext(), &Request{
		NotifyType: "appointment-reminder",
		Override: &Override{Common: &CommonOverride{
			To:     []string{"a@x.com"},
			Params: map[string]string{"name": "Ann", "detail": "rescheduled"},
		}},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if body := h.email.sent[0].Body; body != "Hello Ann, rescheduled" {
		t.Errorf("body = %q, request params must override stored ones", body)
	}
}

func TestSendValidation(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	tests := []struct {
		name     string
		req      *Request
		wantCode apierr.Code
	}{
		{
			"unknown notify type",
			&Request{NotifyType: "nope", Override: &Override{
				Common: &CommonOverride{To: []string{"a@x.com"}}}},
			apierr.CodeNotFound,
		},
		{
			"no recipients",
			&Request{NotifyType: "appointment-reminder"},
			apierr.CodeBadRequest,
		},
		{
			"multiple recipients",
			&Request{NotifyType: "appointment-reminder", Override: &Override{
				Common: &CommonOverride{To: []string{"a@x.com", "b@x.com"}}}},
			apierr.CodeBadRequest,
		},
		{
			"sms sendAs not implemented",
			&Request{NotifyType: "appointment-reminder", Override: &Override{
				Common: &CommonOverride{To: []string{"a@x.com"}, SendAs: "sms"}}},
			apierr.CodeBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := h.svc.Send(testContext(), tc.req); !apierr.Is(err, tc.wantCode) {
				t.Errorf("err = %v, want %s", err, tc.wantCode)
			}
		})
	}
}

func TestSendRejectsPassthroughAdapters(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	ctx := delivery.WithContext(context.Background(), &delivery.Context{
		EmailAdapterKey: "gc-notify:passthrough",
		SMSAdapterKey:   "twilio",
		TemplateEngine:  "jinja2",
	})
	_, err := h.svc.Send(ctx, &Request{
		NotifyType: "appointment-reminder",
		Override:   &Override{Common: &CommonOverride{To: []string{"a@x.com"}}},
	})
	if !apierr.Is(err, apierr.CodeBadRequest) {
		t.Fatalf("err = %v, want bad_request", err)
	}
}

func TestSendExplicitIdentityMustExist(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	_, err := h.svc.Send(testContext(), &Request{
		NotifyType: "appointment-reminder",
		Override: &Override{
			Common: &CommonOverride{To: []string{"a@x.com"}},
			Email:  &EmailOverride{EmailIdentityID: "missing-identity"},
		},
	})
	if !apierr.Is(err, apierr.CodeNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}

func TestSendUsesTenantDefaultIdentity(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	sender, err := h.senders.CreateSender(context.Background(), &identity.CreateRequest{
		Type: identity.TypeEmail, EmailAddress: "clinic@gov.bc.ca",
	})
	if err != nil {
		t.Fatalf("CreateSender failed: %v", err)
	}
	if _, err := h.defaults.UpdateDefaults(context.Background(), tenant.Defaults{
		EmailIdentityID: sender.ID,
	}); err != nil {
		t.Fatalf("UpdateDefaults failed: %v", err)
	}

	if _, err := h.svc.Send(testContext(), &Request{
		NotifyType: "appointment-reminder",
		Override: &Override{Common: &CommonOverride{
			To: []string{"a@x.com"}, Params: map[string]string{"name": "Ann"},
		}},
	}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if from := h.email.sent[0].From; from != "clinic@gov.bc.ca" {
		t.Errorf("from = %q, want tenant default identity", from)
	}
}
