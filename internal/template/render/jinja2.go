package render

import (
	"github.com/flosch/pongo2/v6"

	"github.com/bcgov/notify/internal/template"
)

// Jinja2Renderer renders jinja2-syntax templates ({{ variable }}, {% if %},
// {% for %}) via pongo2. Registered as engine "jinja2"; this is the
// hard-coded default when configuration is silent.
type Jinja2Renderer struct{}

func NewJinja2Renderer() *Jinja2Renderer {
	return &Jinja2Renderer{}
}

func (r *Jinja2Renderer) Name() string { return "jinja2" }

func (r *Jinja2Renderer) RenderEmail(t *template.Template, personalisation map[string]Value, defaultSubject string) (*RenderedEmail, error) {
	return renderEmail(t, personalisation, defaultSubject, r.substitute)
}

func (r *Jinja2Renderer) RenderSms(t *template.Template, personalisation map[string]string) (string, error) {
	return r.substitute(t.Body, personalisation)
}

func (r *Jinja2Renderer) substitute(src string, vars map[string]string) (string, error) {
	tpl, err := pongo2.FromString(src)
	if err != nil {
		return "", err
	}
	ctx := make(pongo2.Context, len(vars))
	for k, v := range vars {
		ctx[k] = v
	}
	return tpl.Execute(ctx)
}
