package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bcgov/notify/internal/config"
	"github.com/bcgov/notify/internal/template/render"
)

// CHESTransport delivers email through the Common Hosted Email Service.
// It authenticates with OAuth client credentials and caches the token
// until shortly before expiry. Registered under the "ches" adapter key.
type CHESTransport struct {
	cfg        config.CHESConfig
	httpClient *http.Client

	mu          sync.Mutex
	cachedToken string
	expiresAt   time.Time
}

type chesEmailPayload struct {
	From        string           `json:"from"`
	To          []string         `json:"to"`
	Subject     string           `json:"subject"`
	Body        string           `json:"body"`
	BodyType    string           `json:"bodyType"`
	Attachments []chesAttachment `json:"attachments,omitempty"`
}

type chesAttachment struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
	Encoding    string `json:"encoding"`
	Filename    string `json:"filename"`
}

type chesEmailResponse struct {
	Messages []struct {
		MsgID string   `json:"msgId"`
		To    []string `json:"to"`
	} `json:"messages"`
	TxID string `json:"txId"`
}

func NewCHESTransport(cfg config.CHESConfig) *CHESTransport {
	return &CHESTransport{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *CHESTransport) Name() string { return "ches" }

func (t *CHESTransport) Send(ctx context.Context, msg *EmailMessage) (*Result, error) {
	if t.cfg.BaseURL == "" || t.cfg.ClientID == "" || t.cfg.ClientSecret == "" || t.cfg.TokenURL == "" {
		return nil, fmt.Errorf("CHES configuration incomplete: CHES_BASE_URL, CHES_CLIENT_ID, CHES_CLIENT_SECRET, CHES_TOKEN_URL are required")
	}

	token, err := t.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := chesEmailPayload{
		From:     msg.From,
		To:       []string{msg.To},
		Subject:  msg.Subject,
		Body:     msg.Body,
		BodyType: "html",
	}
	for _, a := range msg.Attachments {
		if a.SendingMethod != render.SendAttach {
			continue
		}
		payload.Attachments = append(payload.Attachments, chesAttachment{
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: "application/octet-stream",
			Encoding:    "base64",
			Filename:    a.Filename,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(t.cfg.BaseURL, "/") + "/email"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CHES email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errText, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("CHES email failed: %d - %s", resp.StatusCode, string(errText))
	}

	var data chesEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("CHES email response decode failed: %w", err)
	}

	messageID := data.TxID
	if len(data.Messages) > 0 {
		messageID = data.Messages[0].MsgID
	}
	return &Result{MessageID: messageID, ProviderResponse: data.TxID}, nil
}

func (t *CHESTransport) accessToken(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cachedToken != "" && time.Until(t.expiresAt) > time.Minute {
		return t.cachedToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {t.cfg.ClientID},
		"client_secret": {t.cfg.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("CHES token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errText, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("CHES token request failed: %d - %s", resp.StatusCode, string(errText))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("CHES token response decode failed: %w", err)
	}

	t.cachedToken = tokenResp.AccessToken
	t.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return t.cachedToken, nil
}
