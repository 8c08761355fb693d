package gcnotify

import (
	"time"

	"github.com/bcgov/notify/internal/template"
)

// TemplateView is the API shape of a template, shared by local reads and
// passthrough reads so callers see one schema regardless of delivery mode.
type TemplateView struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Type            string            `json:"type"`
	Subject         string            `json:"subject,omitempty"`
	Body            string            `json:"body"`
	Personalisation map[string]string `json:"personalisation,omitempty"`
	Active          bool              `json:"active"`
	Engine          string            `json:"engine,omitempty"`
	Version         int               `json:"version,omitempty"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at,omitempty"`
}

// TemplateList is the GET /v2/templates response.
type TemplateList struct {
	Templates []TemplateView `json:"templates"`
}

func toTemplateView(t *template.Template) TemplateView {
	return TemplateView{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		Type:            string(t.Type),
		Subject:         t.Subject,
		Body:            t.Body,
		Personalisation: t.Personalisation,
		Active:          t.Active,
		Engine:          t.Engine,
		Version:         t.Version,
		CreatedAt:       t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
