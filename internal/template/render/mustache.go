package render

import (
	"github.com/cbroglie/mustache"

	"github.com/bcgov/notify/internal/template"
)

// MustacheRenderer renders logic-less {{variable}} templates.
type MustacheRenderer struct{}

func NewMustacheRenderer() *MustacheRenderer {
	return &MustacheRenderer{}
}

func (r *MustacheRenderer) Name() string { return "mustache" }

func (r *MustacheRenderer) RenderEmail(t *template.Template, personalisation map[string]Value, defaultSubject string) (*RenderedEmail, error) {
	return renderEmail(t, personalisation, defaultSubject, r.substitute)
}

func (r *MustacheRenderer) RenderSms(t *template.Template, personalisation map[string]string) (string, error) {
	return r.substitute(t.Body, personalisation)
}

func (r *MustacheRenderer) substitute(src string, vars map[string]string) (string, error) {
	return mustache.Render(src, vars)
}
