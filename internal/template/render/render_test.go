package render

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/bcgov/notify/internal/apierr"
	"github.com/bcgov/notify/internal/template"
)

func emailTemplate(subject, body string) *template.Template {
	return &template.Template{
		ID:      "tpl-1",
		Name:    "test",
		Type:    template.ChannelEmail,
		Subject: subject,
		Body:    body,
		Active:  true,
	}
}

func TestEngineSubstitution(t *testing.T) {
	tests := []struct {
		engine   Renderer
		body     string
		expected string
	}{
		{NewJinja2Renderer(), "Hello {{ name }}", "Hello Ann"},
		{NewHandlebarsRenderer(), "Hello {{name}}", "Hello Ann"},
		{NewMustacheRenderer(), "Hello {{name}}", "Hello Ann"},
		{NewGoTemplateRenderer(), "Hello {{.name}}", "Hello Ann"},
	}

	for _, tc := range tests {
		t.Run(tc.engine.Name(), func(t *testing.T) {
			rendered, err := tc.engine.RenderEmail(
				emailTemplate("Hi {{ name }}", tc.body),
				map[string]Value{"name": TextValue("Ann")},
				"Notification",
			)
			if err != nil {
				t.Fatalf("RenderEmail failed: %v", err)
			}
			if rendered.Body != tc.expected {
				t.Errorf("body = %q, want %q", rendered.Body, tc.expected)
			}
		})
	}
}

func TestRenderEmailDefaultSubject(t *testing.T) {
	r := NewJinja2Renderer()

	rendered, err := r.RenderEmail(
		emailTemplate("", "Hello {{ name }}"),
		map[string]Value{"name": TextValue("Ann")},
		"Notification",
	)
	if err != nil {
		t.Fatalf("RenderEmail failed: %v", err)
	}
	if rendered.Subject != "Notification" {
		t.Errorf("subject = %q, want default %q", rendered.Subject, "Notification")
	}
}

func TestRenderEmailSubjectSubstitution(t *testing.T) {
	r := NewJinja2Renderer()

	rendered, err := r.RenderEmail(
		emailTemplate("Hi {{ name }}", "Hello {{ name }}"),
		map[string]Value{"name": TextValue("Ann")},
		"Notification",
	)
	if err != nil {
		t.Fatalf("RenderEmail failed: %v", err)
	}
	if rendered.Subject != "Hi Ann" {
		t.Errorf("subject = %q, want %q", rendered.Subject, "Hi Ann")
	}
	if rendered.Body != "Hello Ann" {
		t.Errorf("body = %q, want %q", rendered.Body, "Hello Ann")
	}
}

func TestRenderEmailExtractsAttachments(t *testing.T) {
	r := NewJinja2Renderer()
	payload := base64.StdEncoding.EncodeToString([]byte("report contents"))

	rendered, err := r.RenderEmail(
		emailTemplate("Hi {{ name }}", "Hello {{ name }}"),
		map[string]Value{
			"name": TextValue("Ann"),
			"report": FileAttachment(FileValue{
				File:          payload,
				Filename:      "report.txt",
				SendingMethod: SendAttach,
			}),
		},
		"Notification",
	)
	if err != nil {
		t.Fatalf("RenderEmail failed: %v", err)
	}

	if rendered.Body != "Hello Ann" {
		t.Errorf("body = %q, attachment values must not feed substitution", rendered.Body)
	}
	if len(rendered.Attachments) != 1 {
		t.Fatalf("got %d attachments, want 1", len(rendered.Attachments))
	}
	att := rendered.Attachments[0]
	if att.Filename != "report.txt" {
		t.Errorf("filename = %q", att.Filename)
	}
	if string(att.Content) != "report contents" {
		t.Errorf("content = %q, want decoded payload", att.Content)
	}
	if att.SendingMethod != SendAttach {
		t.Errorf("sending method = %q", att.SendingMethod)
	}
}

func TestRenderEmailInvalidBase64(t *testing.T) {
	r := NewJinja2Renderer()

	_, err := r.RenderEmail(
		emailTemplate("", "Hello"),
		map[string]Value{
			"file": FileAttachment(FileValue{File: "not-base64!!!", Filename: "x.bin"}),
		},
		"Notification",
	)
	if !apierr.Is(err, apierr.CodeBadRequest) {
		t.Fatalf("err = %v, want bad_request", err)
	}
}

func TestRenderIsPure(t *testing.T) {
	r := NewMustacheRenderer()
	tpl := emailTemplate("Hi {{name}}", "Hello {{name}}")
	personalisation := map[string]Value{"name": TextValue("Ann")}

	first, err := r.RenderEmail(tpl, personalisation, "Notification")
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, err := r.RenderEmail(tpl, personalisation, "Notification")
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if first.Subject != second.Subject || first.Body != second.Body {
		t.Errorf("renders differ: %q/%q vs %q/%q",
			first.Subject, first.Body, second.Subject, second.Body)
	}
}

func TestRegistryGetUnknownEngine(t *testing.T) {
	registry := NewRegistry("jinja2", NewJinja2Renderer(), NewMustacheRenderer())

	_, err := registry.Get("ejs")
	if !apierr.Is(err, apierr.CodeBadRequest) {
		t.Fatalf("err = %v, want bad_request", err)
	}

	renderer, err := registry.Get("jinja2")
	if err != nil {
		t.Fatalf("Get(jinja2) failed: %v", err)
	}
	if renderer.Name() != "jinja2" {
		t.Errorf("renderer name = %q", renderer.Name())
	}
}

func TestRegistryEngines(t *testing.T) {
	registry := NewRegistry("jinja2",
		NewMustacheRenderer(), NewJinja2Renderer(), NewHandlebarsRenderer())

	engines := registry.Engines()
	want := []string{"handlebars", "jinja2", "mustache"}
	if len(engines) != len(want) {
		t.Fatalf("engines = %v", engines)
	}
	for i := range want {
		if engines[i] != want[i] {
			t.Errorf("engines[%d] = %q, want %q", i, engines[i], want[i])
		}
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`"plain text"`), &v); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if v.IsFile() || v.Text != "plain text" {
		t.Errorf("string value decoded as %+v", v)
	}

	raw := `{"file":"aGVsbG8=","filename":"hello.txt","sending_method":"attach"}`
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal file: %v", err)
	}
	if !v.IsFile() || v.File.Filename != "hello.txt" {
		t.Errorf("file value decoded as %+v", v)
	}
}

func TestRenderSms(t *testing.T) {
	r := NewJinja2Renderer()
	tpl := &template.Template{Type: template.ChannelSMS, Body: "Code: {{ code }}"}

	body, err := r.RenderSms(tpl, map[string]string{"code": "1234"})
	if err != nil {
		t.Fatalf("RenderSms failed: %v", err)
	}
	if body != "Code: 1234" {
		t.Errorf("body = %q", body)
	}
}
