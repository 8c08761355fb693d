package gcnotify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bcgov/notify/internal/apierr"
)

func TestClientRequiresBaseURL(t *testing.T) {
	c := NewClient("")
	_, err := c.SendEmail(context.Background(), &EmailRequest{}, "ApiKey-v1 key")
	if !apierr.Is(err, apierr.CodeConfiguration) {
		t.Fatalf("err = %v, want configuration", err)
	}
}

func TestClientForwardsCredentialVerbatim(t *testing.T) {
	var gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(NotificationResponse{ID: "abc"})
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL)
	if _, err := c.SendEmail(context.Background(), &EmailRequest{}, "ApiKey-v1 secret"); err != nil {
		t.Fatalf("SendEmail failed: %v", err)
	}
	if gotAuth != "ApiKey-v1 secret" {
		t.Errorf("forwarded Authorization = %q", gotAuth)
	}
}

func TestClientRewritesResponseURIs(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":  "notif-1",
			"uri": "https://api.notification.canada.ca/v2/notifications/notif-1",
			"template": map[string]any{
				"id":      "tpl-1",
				"version": 3,
				"uri":     "https://api.notification.canada.ca/services/x/templates/tpl-1",
			},
		})
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL)
	resp, err := c.SendEmail(context.Background(), &EmailRequest{}, "ApiKey-v1 key")
	if err != nil {
		t.Fatalf("SendEmail failed: %v", err)
	}
	if resp.URI != "/gc-notify/v2/notifications/notif-1" {
		t.Errorf("uri = %q, upstream host must not leak", resp.URI)
	}
	if resp.Template.URI != "/gc-notify/v2/templates/tpl-1" {
		t.Errorf("template uri = %q", resp.Template.URI)
	}
	if resp.Template.Version != 3 {
		t.Errorf("version = %d", resp.Template.Version)
	}
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apierr.Code
		wantMsg  string
	}{
		{
			"bad request",
			http.StatusBadRequest,
			`{"errors":[{"error":"BadRequestError","message":"Missing personalisation"}],"status_code":400}`,
			apierr.CodeBadRequest,
			"Missing personalisation",
		},
		{
			"forbidden maps to unauthorized",
			http.StatusForbidden,
			`{"errors":[{"error":"AuthError","message":"Invalid token"}],"status_code":403}`,
			apierr.CodeUnauthorized,
			"Invalid token",
		},
		{
			"not found",
			http.StatusNotFound,
			`{"errors":[{"error":"NoResultFound","message":"No result found"}],"status_code":404}`,
			apierr.CodeNotFound,
			"No result found",
		},
		{
			"rate limited",
			http.StatusTooManyRequests,
			`{"errors":[{"error":"RateLimitError","message":"Exceeded send limits"}],"status_code":429}`,
			apierr.CodeRateLimited,
			"Exceeded send limits",
		},
		{
			"non-json body tolerated",
			http.StatusBadGateway,
			`<html>upstream exploded</html>`,
			apierr.CodeUpstream,
			"upstream exploded",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer upstream.Close()

			c := NewClient(upstream.URL)
			_, err := c.SendEmail(context.Background(), &EmailRequest{}, "ApiKey-v1 key")
			if !apierr.Is(err, tc.wantCode) {
				t.Fatalf("err = %v, want %s", err, tc.wantCode)
			}
			var ae *apierr.Error
			if !errors.As(err, &ae) {
				t.Fatalf("err %v is not a taxonomy error", err)
			}
			if tc.wantMsg != "" && !strings.Contains(ae.Message, tc.wantMsg) {
				t.Errorf("message = %q, want it to mention %q", ae.Message, tc.wantMsg)
			}
		})
	}
}

func TestClientSendBulkRowsWin(t *testing.T) {
	var got BulkRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(BulkResponse{})
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL)
	_, err := c.SendBulk(context.Background(), &BulkRequest{
		TemplateID: "t",
		Rows:       [][]string{{"email address"}, {"a@x.com"}},
		CSV:        "email address\nb@x.com",
	}, "ApiKey-v1 key")
	if err != nil {
		t.Fatalf("SendBulk failed: %v", err)
	}
	if got.CSV != "" {
		t.Errorf("csv forwarded alongside rows: %q", got.CSV)
	}
	if len(got.Rows) != 2 {
		t.Errorf("rows = %v", got.Rows)
	}
}

func TestClientRewritesListingLinks(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"notifications": []any{},
			"links": map[string]string{
				"current": "https://api.notification.canada.ca/v2/notifications?status=delivered",
				"next":    "https://api.notification.canada.ca/v2/notifications?older_than=abc",
			},
		})
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL)
	list, err := c.GetNotifications(context.Background(), NotificationQuery{}, "ApiKey-v1 key")
	if err != nil {
		t.Fatalf("GetNotifications failed: %v", err)
	}
	if list.Links.Current != "/gc-notify/v2/notifications?status=delivered" {
		t.Errorf("current = %q", list.Links.Current)
	}
	if list.Links.Next != "/gc-notify/v2/notifications?older_than=abc" {
		t.Errorf("next = %q", list.Links.Next)
	}
}
