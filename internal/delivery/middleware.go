package delivery

import (
	"net/http"
	"strings"

	"github.com/bcgov/notify/internal/tenant"
)

// Adapter override headers honored on every request.
const (
	HeaderEmailAdapter = "X-Delivery-Email-Adapter"
	HeaderSMSAdapter   = "X-Delivery-Sms-Adapter"
)

// PassthroughSuffix marks an adapter key that forwards to an external
// facade instead of a local transport.
const PassthroughSuffix = ":passthrough"

var validEmailKeys = map[string]bool{
	"smtp":                  true,
	"ches":                  true,
	"resend":                true,
	"gc-notify:passthrough": true,
	"ches:passthrough":      true,
}

var validSMSKeys = map[string]bool{
	"twilio":                true,
	"gc-notify:passthrough": true,
}

// ContextResolver fixes the delivery policy for each inbound request from a
// priority chain: explicit header override (allow-listed), then the stored
// tenant defaults, then static configuration.
type ContextResolver struct {
	defaults       *tenant.Service
	emailAdapter   string
	smsAdapter     string
	templateEngine string
}

func NewContextResolver(defaults *tenant.Service, emailAdapter, smsAdapter, templateEngine string) *ContextResolver {
	return &ContextResolver{
		defaults:       defaults,
		emailAdapter:   emailAdapter,
		smsAdapter:     smsAdapter,
		templateEngine: templateEngine,
	}
}

// Resolve builds the delivery context for one request.
func (r *ContextResolver) Resolve(req *http.Request) *Context {
	emailKey := r.emailAdapter
	smsKey := r.smsAdapter
	if r.defaults != nil {
		if d, err := r.defaults.GetDefaults(req.Context()); err == nil {
			// Stored defaults go through the same allow-lists as headers;
			// a stale or mistyped key must not reach adapter resolution.
			if v := normalizeKey(d.EmailAdapter); validEmailKeys[v] {
				emailKey = v
			}
			if v := normalizeKey(d.SMSAdapter); validSMSKeys[v] {
				smsKey = v
			}
		}
	}

	if v := normalizeKey(req.Header.Get(HeaderEmailAdapter)); v != "" && validEmailKeys[v] {
		emailKey = v
	}
	if v := normalizeKey(req.Header.Get(HeaderSMSAdapter)); v != "" && validSMSKeys[v] {
		smsKey = v
	}

	engine := r.templateEngine
	if engine == "" {
		engine = "jinja2"
	}

	return &Context{
		EmailAdapterKey: emailKey,
		SMSAdapterKey:   smsKey,
		TemplateEngine:  engine,
	}
}

// Middleware attaches the resolved delivery context to the request context
// before any handler logic runs.
func (r *ContextResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		dc := r.Resolve(req)
		next.ServeHTTP(w, req.WithContext(WithContext(req.Context(), dc)))
	})
}

func normalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
