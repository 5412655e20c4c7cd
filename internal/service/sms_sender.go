package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPSMSSender posts one-time codes to a JSON SMS gateway. The gateway is
// expected to accept {"to": "...", "message": "..."} with bearer auth.
type HTTPSMSSender struct {
	GatewayURL string
	Token      string
	Sender     string
	HTTPClient *http.Client
}

func NewHTTPSMSSender(gatewayURL string, token string, sender string) *HTTPSMSSender {
	if strings.TrimSpace(gatewayURL) == "" {
		return &HTTPSMSSender{}
	}
	return &HTTPSMSSender{
		GatewayURL: gatewayURL,
		Token:      token,
		Sender:     sender,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSMSSender) SendOTP(ctx context.Context, phone string, code string) error {
	if strings.TrimSpace(s.GatewayURL) == "" {
		return errors.New("sms sender not configured")
	}
	if s.HTTPClient == nil {
		s.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	payload := map[string]any{
		"to":      phone,
		"message": fmt.Sprintf("Your verification code is %s", code),
	}
	if s.Sender != "" {
		payload["from"] = s.Sender
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.GatewayURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if s.Token != "" {
		request.Header.Set("Authorization", "Bearer "+s.Token)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.HTTPClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("sms gateway failed with status %d", response.StatusCode)
	}
	return nil
}
