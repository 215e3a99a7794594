package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// SMSSender posts booking texts to a provider webhook. Like email,
// delivery is fire-and-forget and never retried.
type SMSSender struct {
	url   string
	token string
	http  *http.Client
}

func NewSMSSender(url, token string) *SMSSender {
	return &SMSSender{
		url:   strings.TrimSpace(url),
		token: strings.TrimSpace(token),
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (s *SMSSender) Send(ctx context.Context, to, body string) error {
	if s.url == "" {
		return errors.New("sms webhook url not configured")
	}

	payload := map[string]string{
		"to":   to,
		"body": body,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New("sms webhook rejected message")
	}

	return nil
}
