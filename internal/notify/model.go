// Package notify implements the intent-profile send API: callers reference a
// stored notify type by code and supply overrides instead of spelling out
// every field per request.
package notify

// CommonOverride carries the channel-neutral per-request overrides.
type CommonOverride struct {
	To         []string          `json:"to,omitempty"`
	TemplateID string            `json:"templateId,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	SendAs     string            `json:"sendAs,omitempty"`
	Renderer   string            `json:"renderer,omitempty"`
}

// EmailOverride carries the email-specific per-request overrides.
type EmailOverride struct {
	EmailIdentityID string `json:"emailIdentityId,omitempty"`
}

// Override groups the per-request overrides of a notify request.
type Override struct {
	Common *CommonOverride `json:"common,omitempty"`
	Email  *EmailOverride  `json:"email,omitempty"`
}

// Request is the POST /api/v1/notify body.
type Request struct {
	NotifyType string    `json:"notifyType"`
	Override   *Override `json:"override,omitempty"`
}

// MessageAssociation ties one dispatched message to its recipients.
type MessageAssociation struct {
	MsgID   string   `json:"msgId"`
	Channel string   `json:"channel"`
	To      []string `json:"to"`
}

// Response is the notify send acknowledgement.
type Response struct {
	NotifyID string               `json:"notifyId"`
	TxID     string               `json:"txId"`
	Messages []MessageAssociation `json:"messages"`
}
