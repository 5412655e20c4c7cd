package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendEmailSender delivers one-time codes through the Resend API.
type ResendEmailSender struct {
	Client *resend.Client
	From   string
}

func NewResendEmailSender(apiKey string, from string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		Client: resend.NewClient(apiKey),
		From:   from,
	}
}

func (s *ResendEmailSender) SendOTPEmail(ctx context.Context, email string, code string, expiresAt time.Time) error {
	if s.Client == nil {
		return errors.New("email sender not configured")
	}
	_ = ctx // the resend client exposes no context-aware send

	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())
	subject := "Your verification code"
	html := fmt.Sprintf(
		"<p>Your verification code is:</p><p style=\"font-size:24px;font-weight:bold;letter-spacing:4px\">%s</p><p>It expires in %d minutes.</p>",
		code, minutes,
	)
	text := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, minutes)

	params := &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{email},
		Subject: subject,
		Html:    html,
		Text:    text,
	}
	if _, err := s.Client.Emails.Send(params); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}
