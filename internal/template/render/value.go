package render

import (
	"encoding/base64"
	"encoding/json"

	"github.com/bcgov/notify/internal/apierr"
)

// SendingMethod controls how a file personalisation value reaches the
// recipient: attached to the message or hosted behind a link.
type SendingMethod string

const (
	SendAttach SendingMethod = "attach"
	SendLink   SendingMethod = "link"
)

// FileValue is the file-attachment shape of a personalisation value.
// File holds the raw base64 payload as supplied by the caller.
type FileValue struct {
	File          string        `json:"file"`
	Filename      string        `json:"filename"`
	SendingMethod SendingMethod `json:"sending_method"`
}

// Value is a personalisation value: either plain text or a file attachment.
// Exactly one of the two arms is set.
type Value struct {
	Text string
	File *FileValue
}

// IsFile reports whether the value carries the file-attachment arm.
func (v Value) IsFile() bool {
	return v.File != nil
}

// Text constructs a plain-string value.
func TextValue(s string) Value {
	return Value{Text: s}
}

// FileAttachment constructs a file-attachment value.
func FileAttachment(f FileValue) Value {
	return Value{File: &f}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Text = s
		v.File = nil
		return nil
	}
	var f FileValue
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	v.Text = ""
	v.File = &f
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.File != nil {
		return json.Marshal(v.File)
	}
	return json.Marshal(v.Text)
}

// Attachment is a decoded file ready for a transport.
type Attachment struct {
	Filename      string
	Content       []byte
	SendingMethod SendingMethod
}

// splitPersonalisation separates string values from file-attachment values.
// Strings feed the engine's variable substitution; attachments never do.
// Their payloads are base64-decoded here so transports receive raw bytes.
func splitPersonalisation(personalisation map[string]Value) (map[string]string, []Attachment, error) {
	strings := make(map[string]string, len(personalisation))
	var attachments []Attachment
	for key, value := range personalisation {
		if value.File == nil {
			strings[key] = value.Text
			continue
		}
		content, err := base64.StdEncoding.DecodeString(value.File.File)
		if err != nil {
			return nil, nil, apierr.Wrap(
				apierr.BadRequest("personalisation %q: file is not valid base64", key), err)
		}
		attachments = append(attachments, Attachment{
			Filename:      value.File.Filename,
			Content:       content,
			SendingMethod: value.File.SendingMethod,
		})
	}
	return strings, attachments, nil
}
