package notify

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

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

// Service resolves a notify type's stored defaults against the request's
// overrides and dispatches the result through a direct email transport.
// Passthrough adapters are rejected up front; this surface only speaks to
// providers the gateway owns.
type Service struct {
	cfg             *config.Config
	adapterResolver *delivery.AdapterResolver
	identities      *identity.Service
	notifyTypes     *notifytype.Service
	defaults        *tenant.Service
	resolver        template.Resolver
	registry        *render.Registry
}

func NewService(
	cfg *config.Config,
	adapterResolver *delivery.AdapterResolver,
	identities *identity.Service,
	notifyTypes *notifytype.Service,
	defaults *tenant.Service,
	resolver template.Resolver,
	registry *render.Registry,
) *Service {
	return &Service{
		cfg:             cfg,
		adapterResolver: adapterResolver,
		identities:      identities,
		notifyTypes:     notifyTypes,
		defaults:        defaults,
		resolver:        resolver,
		registry:        registry,
	}
}

// Send handles POST /api/v1/notify. Field precedence is request override,
// then the notify type, then tenant defaults.
func (s *Service) Send(ctx context.Context, req *Request) (*Response, error) {
	resolved, err := s.adapterResolver.ResolveEmail(ctx)
	if err != nil {
		return nil, err
	}
	if resolved.Passthrough != delivery.PassthroughNone {
		return nil, apierr.BadRequest(
			"Notify API supports only direct adapters. Use X-Delivery-Email-Adapter: smtp, ches or resend.")
	}

	nt := s.notifyTypes.GetByCode(ctx, req.NotifyType)
	if nt == nil {
		return nil, apierr.NotFound("Notify type %q not found", req.NotifyType)
	}

	defaults, err := s.defaults.GetDefaults(ctx)
	if err != nil {
		return nil, err
	}

	var common CommonOverride
	var emailOverride EmailOverride
	if req.Override != nil {
		if req.Override.Common != nil {
			common = *req.Override.Common
		}
		if req.Override.Email != nil {
			emailOverride = *req.Override.Email
		}
	}

	to := common.To
	templateID := common.TemplateID
	if templateID == "" {
		templateID = nt.TemplateID
	}
	params := make(map[string]string, len(nt.Params)+len(common.Params))
	for k, v := range nt.Params {
		params[k] = v
	}
	for k, v := range common.Params {
		params[k] = v
	}
	sendAs := common.SendAs
	if sendAs == "" {
		sendAs = nt.SendAs
	}
	if sendAs == "" {
		sendAs = "email"
	}
	emailIdentityID := emailOverride.EmailIdentityID
	if emailIdentityID == "" {
		emailIdentityID = nt.IdentityID
	}
	if emailIdentityID == "" {
		emailIdentityID = defaults.EmailIdentityID
	}

	if sendAs != "email" {
		return nil, apierr.BadRequest(
			"Only sendAs: email is implemented. Use override.common.sendAs: email.")
	}
	if len(to) != 1 {
		return nil, apierr.BadRequest(
			"Single email only: override.common.to must have exactly one recipient")
	}
	if templateID == "" {
		return nil, apierr.BadRequest(
			"override.common.templateId or notifyType.templateId is required")
	}

	notifyID := uuid.New().String()
	txID := uuid.New().String()
	msgID := uuid.New().String()
	log.Printf("Notify send: %s to %s", notifyID, to[0])

	t, err := s.resolver.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apierr.NotFound("Template %s not found", templateID)
	}
	if !t.Active {
		return nil, apierr.BadRequest("Template %s is inactive", templateID)
	}
	if t.Type != template.ChannelEmail {
		return nil, apierr.BadRequest("Template %s is not an email template", templateID)
	}

	engine := t.Engine
	if engine == "" {
		engine = common.Renderer
	}
	if engine == "" {
		dc, err := delivery.FromContext(ctx)
		if err != nil {
			return nil, err
		}
		engine = dc.TemplateEngine
	}
	renderer, err := s.registry.Get(engine)
	if err != nil {
		return nil, err
	}

	personalisation := make(map[string]render.Value, len(params))
	for k, v := range params {
		personalisation[k] = render.Value{Text: v}
	}
	rendered, err := renderer.RenderEmail(t, personalisation, s.cfg.DefaultSubject)
	if err != nil {
		return nil, err
	}

	sender, err := s.identities.ResolveForChannel(ctx, emailIdentityID, "email")
	if err != nil {
		return nil, err
	}
	fromEmail, replyTo := s.fromEmail(ctx, sender)

	msg := &transport.EmailMessage{
		To:          to[0],
		Subject:     rendered.Subject,
		Body:        rendered.Body,
		From:        fromEmail,
		ReplyTo:     replyTo,
		Attachments: rendered.Attachments,
	}
	if _, err := resolved.Transport.Send(ctx, msg); err != nil {
		return nil, apierr.Wrap(apierr.Upstream("email provider rejected the message"), err)
	}

	return &Response{
		NotifyID: notifyID,
		TxID:     txID,
		Messages: []MessageAssociation{{MsgID: msgID, Channel: "email", To: to}},
	}, nil
}

func (s *Service) fromEmail(ctx context.Context, sender *identity.Sender) (from, replyTo string) {
	if sender != nil && sender.EmailAddress != "" {
		return sender.EmailAddress, sender.EmailAddress
	}
	if dc, err := delivery.FromContext(ctx); err == nil {
		key := strings.TrimSuffix(dc.EmailAdapterKey, delivery.PassthroughSuffix)
		return s.cfg.FromFor(key), ""
	}
	return s.cfg.DefaultFromEmail, ""
}
