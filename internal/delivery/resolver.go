package delivery

import (
	"context"
	"strings"

	"github.com/bcgov/notify/internal/transport"
)

// Passthrough identifies which external facade a passthrough send uses.
// The GC Notify facade and the direct CHES facade have different wire
// payloads, so they are distinct sentinels.
type Passthrough string

const (
	PassthroughNone     Passthrough = ""
	PassthroughGCNotify Passthrough = "gc-notify"
	PassthroughCHES     Passthrough = "ches"
)

// ResolvedEmail is the outcome of email adapter resolution: either a
// concrete transport or a passthrough sentinel, never neither.
type ResolvedEmail struct {
	Transport   transport.EmailTransport
	Passthrough Passthrough
}

// ResolvedSMS is the SMS counterpart of ResolvedEmail.
type ResolvedSMS struct {
	Transport   transport.SMSTransport
	Passthrough Passthrough
}

// knownFacades are the passthrough targets the orchestrators understand.
// A passthrough key naming any other provider degrades to the channel
// default transport, the same way an unknown concrete key does.
var knownFacades = map[Passthrough]bool{
	PassthroughGCNotify: true,
	PassthroughCHES:     true,
}

// AdapterResolver maps the delivery context's adapter keys onto transports.
// Resolution is total: unknown keys degrade to the channel default
// transport, and recognized passthrough keys yield a sentinel. Every
// resolved value carries either a non-nil Transport or a known sentinel.
type AdapterResolver struct {
	registry *transport.Registry
}

func NewAdapterResolver(registry *transport.Registry) *AdapterResolver {
	return &AdapterResolver{registry: registry}
}

// ResolveEmail resolves the email transport for the in-flight request.
func (r *AdapterResolver) ResolveEmail(ctx context.Context) (ResolvedEmail, error) {
	dc, err := FromContext(ctx)
	if err != nil {
		return ResolvedEmail{}, err
	}
	provider, passthrough := parseKey(dc.EmailAdapterKey)
	if passthrough && knownFacades[Passthrough(provider)] {
		return ResolvedEmail{Passthrough: Passthrough(provider)}, nil
	}
	return ResolvedEmail{Transport: r.registry.Email(provider)}, nil
}

// ResolveSms resolves the SMS transport for the in-flight request.
func (r *AdapterResolver) ResolveSms(ctx context.Context) (ResolvedSMS, error) {
	dc, err := FromContext(ctx)
	if err != nil {
		return ResolvedSMS{}, err
	}
	provider, passthrough := parseKey(dc.SMSAdapterKey)
	if passthrough && knownFacades[Passthrough(provider)] {
		return ResolvedSMS{Passthrough: Passthrough(provider)}, nil
	}
	return ResolvedSMS{Transport: r.registry.SMS(provider)}, nil
}

// parseKey splits an adapter key into its provider and mode.
func parseKey(key string) (provider string, passthrough bool) {
	if p, ok := strings.CutSuffix(key, PassthroughSuffix); ok {
		return p, true
	}
	return key, false
}
