// Package gcnotify implements the GC Notify-compatible v2 notification API:
// the local delivery orchestration engine and the passthrough client that
// forwards the same requests to an upstream GC Notify instance.
package gcnotify

import (
	"github.com/bcgov/notify/internal/template/render"
)

// BulkMaxRecipients caps the data rows of one bulk send (a request carries
// this many data rows plus one header row at most).
const BulkMaxRecipients = 50000

// EmailRequest is the POST /v2/notifications/email body.
type EmailRequest struct {
	EmailAddress    string                  `json:"email_address"`
	TemplateID      string                  `json:"template_id"`
	Personalisation map[string]render.Value `json:"personalisation,omitempty"`
	Reference       string                  `json:"reference,omitempty"`
	EmailReplyToID  string                  `json:"email_reply_to_id,omitempty"`
	ScheduledFor    string                  `json:"scheduled_for,omitempty"`
}

// SMSRequest is the POST /v2/notifications/sms body. SMS personalisation is
// strings only; attachment-shaped values are a caller error.
type SMSRequest struct {
	PhoneNumber     string            `json:"phone_number"`
	TemplateID      string            `json:"template_id"`
	Personalisation map[string]string `json:"personalisation,omitempty"`
	Reference       string            `json:"reference,omitempty"`
	SMSSenderID     string            `json:"sms_sender_id,omitempty"`
	ScheduledFor    string            `json:"scheduled_for,omitempty"`
}

// Content is the rendered message carried in a NotificationResponse.
type Content struct {
	FromEmail  string `json:"from_email,omitempty"`
	FromNumber string `json:"from_number,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Body       string `json:"body"`
}

// TemplateRef links a response to the template that produced it.
type TemplateRef struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
	URI     string `json:"uri"`
}

// NotificationResponse is the envelope returned for every accepted send.
// Constructed fresh per call and never stored.
type NotificationResponse struct {
	ID           string      `json:"id"`
	Reference    string      `json:"reference,omitempty"`
	Content      Content     `json:"content"`
	URI          string      `json:"uri"`
	Template     TemplateRef `json:"template"`
	ScheduledFor string      `json:"scheduled_for,omitempty"`
}

// Notification is the read model returned by the notifications listing.
type Notification struct {
	ID                string      `json:"id"`
	Reference         string      `json:"reference,omitempty"`
	EmailAddress      string      `json:"email_address,omitempty"`
	PhoneNumber       string      `json:"phone_number,omitempty"`
	Type              string      `json:"type"`
	Status            string      `json:"status"`
	StatusDescription string      `json:"status_description,omitempty"`
	ProviderResponse  string      `json:"provider_response,omitempty"`
	Template          TemplateRef `json:"template"`
	Body              string      `json:"body"`
	Subject           string      `json:"subject,omitempty"`
	CreatedAt         string      `json:"created_at"`
	SentAt            string      `json:"sent_at,omitempty"`
	CompletedAt       string      `json:"completed_at,omitempty"`
	ScheduledFor      string      `json:"scheduled_for,omitempty"`
}

// Links carries pagination links rewritten into this gateway's namespace.
type Links struct {
	Current string `json:"current"`
	Next    string `json:"next,omitempty"`
}

// NotificationList is the GET /v2/notifications response.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	Links         Links          `json:"links"`
}

// NotificationQuery filters the notifications listing.
type NotificationQuery struct {
	TemplateType string
	Status       []string
	Reference    string
	OlderThan    string
	IncludeJobs  bool
}

// BulkRequest is the POST /v2/notifications/bulk body. Rows and CSV are
// mutually exclusive; rows wins when both are supplied.
type BulkRequest struct {
	Name         string     `json:"name,omitempty"`
	TemplateID   string     `json:"template_id"`
	Rows         [][]string `json:"rows,omitempty"`
	CSV          string     `json:"csv,omitempty"`
	Reference    string     `json:"reference,omitempty"`
	ScheduledFor string     `json:"scheduled_for,omitempty"`
	ReplyToID    string     `json:"reply_to_id,omitempty"`
}

// BulkJobData describes the accepted bulk job.
type BulkJobData struct {
	ID                string `json:"id"`
	Template          string `json:"template"`
	JobStatus         string `json:"job_status"`
	NotificationCount int    `json:"notification_count"`
	CreatedAt         string `json:"created_at"`
}

// BulkResponse is the POST /v2/notifications/bulk response.
type BulkResponse struct {
	Data BulkJobData `json:"data"`
}
