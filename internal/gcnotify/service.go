package gcnotify

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bcgov/notify/internal/apierr"
	"github.com/bcgov/notify/internal/config"
	"github.com/bcgov/notify/internal/delivery"
	"github.com/bcgov/notify/internal/identity"
	"github.com/bcgov/notify/internal/metrics"
	"github.com/bcgov/notify/internal/template"
	"github.com/bcgov/notify/internal/template/render"
	"github.com/bcgov/notify/internal/transport"
)

// Service is the delivery orchestration engine for the v2 API. Each send
// resolves the adapter, loads and renders the template, resolves the From
// identity and dispatches, or short-circuits to the passthrough client
// before any local work when the delivery context says so.
type Service struct {
	cfg             *config.Config
	adapterResolver *delivery.AdapterResolver
	client          *Client
	templateSvc     *template.Service
	resolver        template.Resolver
	registry        *render.Registry
	identities      *identity.Service
}

func NewService(
	cfg *config.Config,
	adapterResolver *delivery.AdapterResolver,
	client *Client,
	templateSvc *template.Service,
	resolver template.Resolver,
	registry *render.Registry,
	identities *identity.Service,
) *Service {
	return &Service{
		cfg:             cfg,
		adapterResolver: adapterResolver,
		client:          client,
		templateSvc:     templateSvc,
		resolver:        resolver,
		registry:        registry,
		identities:      identities,
	}
}

// SendEmail handles POST /v2/notifications/email.
func (s *Service) SendEmail(ctx context.Context, req *EmailRequest, authHeader string) (*NotificationResponse, error) {
	resolved, err := s.adapterResolver.ResolveEmail(ctx)
	if err != nil {
		return nil, err
	}
	if resolved.Passthrough == delivery.PassthroughCHES {
		return nil, apierr.Unsupported(
			"CHES passthrough is not yet implemented. Use X-Delivery-Email-Adapter: ches for direct CHES.")
	}
	if resolved.Passthrough == delivery.PassthroughGCNotify {
		if authHeader == "" {
			return nil, apierr.BadRequest(
				"X-GC-Notify-Api-Key header is required when using GC Notify passthrough")
		}
		metrics.PassthroughRequests.WithLabelValues("send_email").Inc()
		return s.client.SendEmail(ctx, req, authHeader)
	}

	notificationID := uuid.New().String()
	log.Printf("Creating email notification: %s to %s", notificationID, req.EmailAddress)

	t, err := s.loadTemplate(ctx, req.TemplateID, template.ChannelEmail)
	if err != nil {
		return nil, err
	}

	engine := t.Engine
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

	start := time.Now()
	rendered, err := renderer.RenderEmail(t, req.Personalisation, s.cfg.DefaultSubject)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("email", "failed").Inc()
		return nil, err
	}
	metrics.RenderDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())

	sender, err := s.identities.ResolveForChannel(ctx, req.EmailReplyToID, "email")
	if err != nil {
		return nil, err
	}
	fromEmail, replyTo := s.emailFrom(ctx, sender)

	msg := &transport.EmailMessage{
		To:          req.EmailAddress,
		Subject:     rendered.Subject,
		Body:        rendered.Body,
		From:        fromEmail,
		ReplyTo:     replyTo,
		Attachments: rendered.Attachments,
	}
	if _, err := resolved.Transport.Send(ctx, msg); err != nil {
		metrics.NotificationsSent.WithLabelValues("email", "failed").Inc()
		return nil, apierr.Wrap(apierr.Upstream("email provider rejected the message"), err)
	}
	metrics.NotificationsSent.WithLabelValues("email", "sent").Inc()

	return &NotificationResponse{
		ID:        notificationID,
		Reference: req.Reference,
		Content: Content{
			FromEmail: fromEmail,
			Subject:   rendered.Subject,
			Body:      rendered.Body,
		},
		URI: notificationURI(notificationID),
		Template: TemplateRef{
			ID:      t.ID,
			Version: t.Version,
			URI:     templateURI(t.ID),
		},
		ScheduledFor: req.ScheduledFor,
	}, nil
}

// SendSms handles POST /v2/notifications/sms.
func (s *Service) SendSms(ctx context.Context, req *SMSRequest, authHeader string) (*NotificationResponse, error) {
	resolved, err := s.adapterResolver.ResolveSms(ctx)
	if err != nil {
		return nil, err
	}
	if resolved.Passthrough == delivery.PassthroughCHES {
		return nil, apierr.Unsupported(
			"CHES passthrough does not support SMS. Use X-Delivery-Sms-Adapter: twilio.")
	}
	if resolved.Passthrough == delivery.PassthroughGCNotify {
		if authHeader == "" {
			return nil, apierr.BadRequest(
				"X-GC-Notify-Api-Key header is required when using GC Notify passthrough")
		}
		metrics.PassthroughRequests.WithLabelValues("send_sms").Inc()
		return s.client.SendSms(ctx, req, authHeader)
	}

	notificationID := uuid.New().String()
	log.Printf("Creating SMS notification: %s to %s", notificationID, req.PhoneNumber)

	t, err := s.loadTemplate(ctx, req.TemplateID, template.ChannelSMS)
	if err != nil {
		return nil, err
	}

	engine := t.Engine
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

	start := time.Now()
	body, err := renderer.RenderSms(t, req.Personalisation)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("sms", "failed").Inc()
		return nil, apierr.Wrap(apierr.BadRequest("failed to render body"), err)
	}
	metrics.RenderDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())

	sender, err := s.identities.ResolveForChannel(ctx, req.SMSSenderID, "sms")
	if err != nil {
		return nil, err
	}
	fromNumber := s.cfg.Twilio.FromNumber
	if sender != nil && sender.SMSSender != "" {
		fromNumber = sender.SMSSender
	}
	if fromNumber == "" {
		fromNumber = s.cfg.DefaultFromNumber
	}

	sms := &transport.SMSMessage{To: req.PhoneNumber, Body: body, From: fromNumber}
	if _, err := resolved.Transport.Send(ctx, sms); err != nil {
		metrics.NotificationsSent.WithLabelValues("sms", "failed").Inc()
		return nil, apierr.Wrap(apierr.Upstream("SMS provider rejected the message"), err)
	}
	metrics.NotificationsSent.WithLabelValues("sms", "sent").Inc()

	return &NotificationResponse{
		ID:        notificationID,
		Reference: req.Reference,
		Content: Content{
			FromNumber: fromNumber,
			Body:       body,
		},
		URI: notificationURI(notificationID),
		Template: TemplateRef{
			ID:      t.ID,
			Version: t.Version,
			URI:     templateURI(t.ID),
		},
		ScheduledFor: req.ScheduledFor,
	}, nil
}

// SendBulk validates a bulk request and returns a pending job envelope, or
// forwards the whole request when in passthrough mode.
func (s *Service) SendBulk(ctx context.Context, req *BulkRequest, authHeader string) (*BulkResponse, error) {
	passthrough, err := s.inPassthrough(ctx)
	if err != nil {
		return nil, err
	}
	if passthrough && authHeader != "" {
		metrics.PassthroughRequests.WithLabelValues("send_bulk").Inc()
		return s.client.SendBulk(ctx, req, authHeader)
	}

	if req.Rows == nil && req.CSV == "" {
		return nil, apierr.BadRequest("You should specify either rows or csv")
	}

	var rowCount int
	if req.Rows != nil {
		rowCount = len(req.Rows) - 1
	} else {
		// Naive line-split, matching the upstream contract's counting.
		rowCount = len(strings.Split(req.CSV, "\n")) - 1
	}

	if rowCount < 1 {
		return nil, apierr.BadRequest(
			"rows must have at least a header row and one data row (1-50,000 recipients)")
	}
	if rowCount > BulkMaxRecipients {
		return nil, apierr.BadRequest(
			"Too many rows. Maximum number of rows allowed is %d", BulkMaxRecipients)
	}

	jobID := uuid.New().String()
	log.Printf("Creating bulk job: %s with %d recipients", jobID, rowCount)

	return &BulkResponse{Data: BulkJobData{
		ID:                jobID,
		Template:          req.TemplateID,
		JobStatus:         "pending",
		NotificationCount: rowCount,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	}}, nil
}

// GetTemplates lists templates, locally or upstream.
func (s *Service) GetTemplates(ctx context.Context, templateType, authHeader string) (*TemplateList, error) {
	passthrough, err := s.inPassthrough(ctx)
	if err != nil {
		return nil, err
	}
	if passthrough && authHeader != "" {
		metrics.PassthroughRequests.WithLabelValues("get_templates").Inc()
		return s.client.GetTemplates(ctx, templateType, authHeader)
	}

	templates, err := s.templateSvc.GetTemplates(ctx, template.Channel(templateType))
	if err != nil {
		return nil, err
	}
	list := &TemplateList{Templates: make([]TemplateView, 0, len(templates))}
	for _, t := range templates {
		list.Templates = append(list.Templates, toTemplateView(t))
	}
	return list, nil
}

// GetTemplate fetches one template, locally or upstream.
func (s *Service) GetTemplate(ctx context.Context, templateID, authHeader string) (*TemplateView, error) {
	passthrough, err := s.inPassthrough(ctx)
	if err != nil {
		return nil, err
	}
	if passthrough && authHeader != "" {
		metrics.PassthroughRequests.WithLabelValues("get_template").Inc()
		return s.client.GetTemplate(ctx, templateID, authHeader)
	}

	t, err := s.templateSvc.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	view := toTemplateView(t)
	return &view, nil
}

// GetNotifications lists notifications. Nothing is persisted locally, so
// local mode returns an empty page; passthrough proxies upstream.
func (s *Service) GetNotifications(ctx context.Context, query NotificationQuery, authHeader string) (*NotificationList, error) {
	passthrough, err := s.inPassthrough(ctx)
	if err != nil {
		return nil, err
	}
	if passthrough && authHeader != "" {
		metrics.PassthroughRequests.WithLabelValues("get_notifications").Inc()
		return s.client.GetNotifications(ctx, query, authHeader)
	}

	log.Printf("Getting notifications list")
	return &NotificationList{
		Notifications: []Notification{},
		Links:         Links{Current: "/gc-notify/v2/notifications"},
	}, nil
}

// GetNotificationByID fetches one notification. Always NotFound locally.
func (s *Service) GetNotificationByID(ctx context.Context, notificationID, authHeader string) (*Notification, error) {
	passthrough, err := s.inPassthrough(ctx)
	if err != nil {
		return nil, err
	}
	if passthrough && authHeader != "" {
		metrics.PassthroughRequests.WithLabelValues("get_notification").Inc()
		return s.client.GetNotificationByID(ctx, notificationID, authHeader)
	}

	return nil, apierr.NotFound("Notification not found in database")
}

// loadTemplate fetches a template and checks it is usable for the channel.
func (s *Service) loadTemplate(ctx context.Context, templateID string, channel template.Channel) (*template.Template, error) {
	t, err := s.resolver.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apierr.NotFound("Template %s not found", templateID)
	}
	if !t.Active {
		return nil, apierr.InvalidState("Template %s is inactive", templateID)
	}
	if t.Type != channel {
		return nil, apierr.ChannelMismatch("Template %s is not an %s template", templateID, channel)
	}
	return t, nil
}

// emailFrom picks the From address and reply-to for an email send: the
// resolved sender when there is one, else the adapter's configured from,
// else the static default.
func (s *Service) emailFrom(ctx context.Context, sender *identity.Sender) (from, replyTo string) {
	if sender != nil && sender.EmailAddress != "" {
		return sender.EmailAddress, sender.EmailAddress
	}
	if dc, err := delivery.FromContext(ctx); err == nil {
		key := strings.TrimSuffix(dc.EmailAdapterKey, delivery.PassthroughSuffix)
		return s.cfg.FromFor(key), ""
	}
	return s.cfg.DefaultFromEmail, ""
}

// inPassthrough reports whether either channel's adapter key selects GC
// Notify passthrough for this request.
func (s *Service) inPassthrough(ctx context.Context) (bool, error) {
	dc, err := delivery.FromContext(ctx)
	if err != nil {
		return false, err
	}
	return dc.EmailAdapterKey == "gc-notify"+delivery.PassthroughSuffix ||
		dc.SMSAdapterKey == "gc-notify"+delivery.PassthroughSuffix, nil
}
