// Package delivery resolves the per-request delivery policy: which adapter
// key serves each channel, whether the request is passthrough, and the
// template-engine default. The resolved context rides on the request's
// context.Context so every downstream component can read it without the
// policy being threaded through call signatures.
package delivery

import (
	"context"

	"github.com/bcgov/notify/internal/apierr"
)

// Context is the request-scoped delivery policy. Read-only once resolved,
// discarded when the request's call tree unwinds. Never persisted.
type Context struct {
	EmailAdapterKey string
	SMSAdapterKey   string
	TemplateEngine  string
}

type contextKey struct{}

// WithContext attaches the delivery context to ctx.
func WithContext(ctx context.Context, dc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, dc)
}

// FromContext retrieves the delivery context. Reading before the middleware
// has attached it is a wiring defect and fails loudly rather than defaulting.
func FromContext(ctx context.Context) (*Context, error) {
	dc, ok := ctx.Value(contextKey{}).(*Context)
	if !ok || dc == nil {
		return nil, apierr.Configuration(
			"delivery context is not set; ensure the delivery-context middleware runs before handlers")
	}
	return dc, nil
}
