package gcnotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bcgov/notify/internal/apierr"
)

// Client is the passthrough facade over an upstream GC Notify API. The
// caller's bearer credential is forwarded per request and never stored.
// Upstream resource URIs are rewritten into this gateway's namespace so
// callers never see upstream paths.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type upstreamError struct {
	Errors []struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	} `json:"errors"`
	StatusCode int `json:"status_code"`
}

func (c *Client) request(ctx context.Context, method, path, authHeader string, body any, out any) error {
	if c.baseURL == "" {
		return apierr.Configuration("GC_NOTIFY_BASE_URL is required when using GC Notify passthrough mode")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Wrap(apierr.Upstream("GC Notify API request failed"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apierr.Wrap(apierr.Upstream("GC Notify API returned an unreadable body"), err)
	}
	return nil
}

// mapError translates an upstream error payload into the local taxonomy by
// status code. Non-JSON bodies are tolerated; the raw text becomes the
// message.
func (c *Client) mapError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	message := strings.TrimSpace(string(raw))
	var payload upstreamError
	if err := json.Unmarshal(raw, &payload); err != nil {
		preview := message
		if len(preview) > 100 {
			preview = preview[:100]
		}
		log.Printf("GC Notify API returned non-JSON error body: %s", preview)
	} else if len(payload.Errors) > 0 && payload.Errors[0].Message != "" {
		message = payload.Errors[0].Message
	}
	if message == "" {
		message = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return apierr.BadRequest("%s", message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return apierr.Unauthorized("%s", message)
	case http.StatusNotFound:
		return apierr.NotFound("%s", message)
	case http.StatusTooManyRequests:
		return apierr.RateLimited("GC Notify API rate limit exceeded: %s", message)
	default:
		return apierr.Upstream("GC Notify API error: %d - %s", resp.StatusCode, message)
	}
}

// SendEmail forwards an email send upstream and remaps the response.
func (c *Client) SendEmail(ctx context.Context, req *EmailRequest, authHeader string) (*NotificationResponse, error) {
	var raw NotificationResponse
	if err := c.request(ctx, http.MethodPost, "/v2/notifications/email", authHeader, req, &raw); err != nil {
		return nil, err
	}
	rewriteResponse(&raw)
	return &raw, nil
}

// SendSms forwards an SMS send upstream and remaps the response.
func (c *Client) SendSms(ctx context.Context, req *SMSRequest, authHeader string) (*NotificationResponse, error) {
	var raw NotificationResponse
	if err := c.request(ctx, http.MethodPost, "/v2/notifications/sms", authHeader, req, &raw); err != nil {
		return nil, err
	}
	rewriteResponse(&raw)
	return &raw, nil
}

// SendBulk forwards a bulk send upstream. Rows win when both rows and csv
// are present, per the upstream contract.
func (c *Client) SendBulk(ctx context.Context, req *BulkRequest, authHeader string) (*BulkResponse, error) {
	payload := *req
	if payload.CSV != "" && payload.Rows != nil {
		payload.CSV = ""
	}
	var out BulkResponse
	if err := c.request(ctx, http.MethodPost, "/v2/notifications/bulk", authHeader, &payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTemplates fetches the upstream template list.
func (c *Client) GetTemplates(ctx context.Context, templateType, authHeader string) (*TemplateList, error) {
	path := "/v2/templates"
	if templateType != "" {
		path += "?type=" + url.QueryEscape(templateType)
	}
	var out TemplateList
	if err := c.request(ctx, http.MethodGet, path, authHeader, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTemplate fetches one upstream template.
func (c *Client) GetTemplate(ctx context.Context, templateID, authHeader string) (*TemplateView, error) {
	var out TemplateView
	if err := c.request(ctx, http.MethodGet, "/v2/template/"+url.PathEscape(templateID), authHeader, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetNotifications fetches the upstream notifications list with its links
// rewritten into this gateway's namespace.
func (c *Client) GetNotifications(ctx context.Context, query NotificationQuery, authHeader string) (*NotificationList, error) {
	params := url.Values{}
	if query.TemplateType != "" {
		params.Set("template_type", query.TemplateType)
	}
	if query.Reference != "" {
		params.Set("reference", query.Reference)
	}
	if query.OlderThan != "" {
		params.Set("older_than", query.OlderThan)
	}
	if query.IncludeJobs {
		params.Set("include_jobs", strconv.FormatBool(query.IncludeJobs))
	}
	for _, s := range query.Status {
		params.Add("status", s)
	}
	path := "/v2/notifications"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out NotificationList
	if err := c.request(ctx, http.MethodGet, path, authHeader, nil, &out); err != nil {
		return nil, err
	}
	out.Links.Current = rewriteLink(out.Links.Current)
	if out.Links.Next != "" {
		out.Links.Next = rewriteLink(out.Links.Next)
	}
	for i := range out.Notifications {
		out.Notifications[i].Template.URI = templateURI(out.Notifications[i].Template.ID)
	}
	return &out, nil
}

// GetNotificationByID fetches one upstream notification.
func (c *Client) GetNotificationByID(ctx context.Context, notificationID, authHeader string) (*Notification, error) {
	var out Notification
	if err := c.request(ctx, http.MethodGet, "/v2/notifications/"+url.PathEscape(notificationID), authHeader, nil, &out); err != nil {
		return nil, err
	}
	out.Template.URI = templateURI(out.Template.ID)
	return &out, nil
}

func rewriteResponse(resp *NotificationResponse) {
	resp.URI = notificationURI(resp.ID)
	resp.Template.URI = templateURI(resp.Template.ID)
}

// rewriteLink maps an upstream listing link onto the gateway's own path,
// preserving the query string.
func rewriteLink(link string) string {
	if link == "" {
		return "/gc-notify/v2/notifications"
	}
	if idx := strings.Index(link, "?"); idx >= 0 {
		return "/gc-notify/v2/notifications" + link[idx:]
	}
	return "/gc-notify/v2/notifications"
}

func notificationURI(id string) string {
	return fmt.Sprintf("/gc-notify/v2/notifications/%s", id)
}

func templateURI(id string) string {
	return fmt.Sprintf("/gc-notify/v2/templates/%s", id)
}
