package render

import (
	"bytes"
	texttemplate "text/template"

	"github.com/bcgov/notify/internal/template"
)

// GoTemplateRenderer renders text/template syntax ({{.variable}}).
// Registered as engine "gotemplate".
type GoTemplateRenderer struct{}

func NewGoTemplateRenderer() *GoTemplateRenderer {
	return &GoTemplateRenderer{}
}

func (r *GoTemplateRenderer) Name() string { return "gotemplate" }

func (r *GoTemplateRenderer) RenderEmail(t *template.Template, personalisation map[string]Value, defaultSubject string) (*RenderedEmail, error) {
	return renderEmail(t, personalisation, defaultSubject, r.substitute)
}

func (r *GoTemplateRenderer) RenderSms(t *template.Template, personalisation map[string]string) (string, error) {
	return r.substitute(t.Body, personalisation)
}

func (r *GoTemplateRenderer) substitute(src string, vars map[string]string) (string, error) {
	tmpl, err := texttemplate.New("message").Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}
