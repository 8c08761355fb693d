// Package render holds the template-engine strategies and the registry that
// dispatches on an engine name. Unknown engines are a hard failure; the
// matching transport-side lookup intentionally degrades to a default instead.
package render

import (
	"sort"
	"strings"

	"github.com/bcgov/notify/internal/apierr"
	"github.com/bcgov/notify/internal/template"
)

// RenderedEmail is the output of an email render: final subject and body
// plus any attachments extracted from the personalisation map.
type RenderedEmail struct {
	Subject     string
	Body        string
	Attachments []Attachment
}

// Renderer is one template-engine strategy.
type Renderer interface {
	Name() string
	RenderEmail(t *template.Template, personalisation map[string]Value, defaultSubject string) (*RenderedEmail, error)
	RenderSms(t *template.Template, personalisation map[string]string) (string, error)
}

// Registry holds the registered renderers keyed by engine name, plus the
// configured default engine. Last registration for a name wins.
type Registry struct {
	renderers     map[string]Renderer
	defaultEngine string
}

func NewRegistry(defaultEngine string, renderers ...Renderer) *Registry {
	r := &Registry{
		renderers:     make(map[string]Renderer, len(renderers)),
		defaultEngine: defaultEngine,
	}
	for _, renderer := range renderers {
		r.renderers[renderer.Name()] = renderer
	}
	return r
}

// Get resolves an engine name to its renderer. Unknown names fail.
func (r *Registry) Get(engine string) (Renderer, error) {
	renderer, ok := r.renderers[engine]
	if !ok {
		return nil, apierr.BadRequest("Unknown template engine: %s. Available: %s",
			engine, strings.Join(r.Engines(), ", "))
	}
	return renderer, nil
}

// Has reports whether a renderer is registered for the engine name.
func (r *Registry) Has(engine string) bool {
	_, ok := r.renderers[engine]
	return ok
}

// DefaultEngine returns the configured default engine name.
func (r *Registry) DefaultEngine() string {
	return r.defaultEngine
}

// Engines lists the registered engine names, sorted.
func (r *Registry) Engines() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// substituteFunc runs one engine's variable substitution over a source string.
type substituteFunc func(src string, vars map[string]string) (string, error)

// renderEmail is the engine-agnostic email algorithm: split the
// personalisation, substitute subject (or fall back to defaultSubject),
// substitute body, return with extracted attachments.
func renderEmail(t *template.Template, personalisation map[string]Value, defaultSubject string, substitute substituteFunc) (*RenderedEmail, error) {
	vars, attachments, err := splitPersonalisation(personalisation)
	if err != nil {
		return nil, err
	}

	subject := defaultSubject
	if t.Subject != "" {
		subject, err = substitute(t.Subject, vars)
		if err != nil {
			return nil, apierr.Wrap(apierr.BadRequest("failed to render subject"), err)
		}
	}

	body, err := substitute(t.Body, vars)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest("failed to render body"), err)
	}

	return &RenderedEmail{Subject: subject, Body: body, Attachments: attachments}, nil
}
