package service

import (
	"context"
	"fmt"

	"github.com/resendlabs/resend-go"
)

// ResendCodeSender delivers one-time codes through the Resend API.
type ResendCodeSender struct {
	Client  *resend.Client
	From    string
	Subject string
}

func NewResendCodeSender(apiKey string, from string) *ResendCodeSender {
	return &ResendCodeSender{
		Client:  resend.NewClient(apiKey),
		From:    from,
		Subject: "Your verification code",
	}
}

func (s *ResendCodeSender) SendCode(ctx context.Context, destination string, code string) error {
	if s.Client == nil {
		return fmt.Errorf("code sender not configured")
	}
	params := &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{destination},
		Subject: s.Subject,
		Html:    fmt.Sprintf("<p>Your verification code is:</p><p><strong>%s</strong></p><p>It expires in 3 minutes.</p>", code),
		Text:    fmt.Sprintf("Your verification code is %s. It expires in 3 minutes.", code),
	}
	if _, err := s.Client.Emails.Send(params); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}
