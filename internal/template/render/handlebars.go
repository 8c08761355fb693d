package render

import (
	"github.com/aymerick/raymond"

	"github.com/bcgov/notify/internal/template"
)

// HandlebarsRenderer renders {{mustache}}-with-helpers syntax via raymond.
type HandlebarsRenderer struct{}

func NewHandlebarsRenderer() *HandlebarsRenderer {
	return &HandlebarsRenderer{}
}

func (r *HandlebarsRenderer) Name() string { return "handlebars" }

func (r *HandlebarsRenderer) RenderEmail(t *template.Template, personalisation map[string]Value, defaultSubject string) (*RenderedEmail, error) {
	return renderEmail(t, personalisation, defaultSubject, r.substitute)
}

func (r *HandlebarsRenderer) RenderSms(t *template.Template, personalisation map[string]string) (string, error) {
	return r.substitute(t.Body, personalisation)
}

func (r *HandlebarsRenderer) substitute(src string, vars map[string]string) (string, error) {
	return raymond.Render(src, vars)
}
