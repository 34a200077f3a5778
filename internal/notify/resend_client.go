package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"mailbot/internal/logger"
	"mailbot/internal/service"
)

type resendSender struct {
	client *resend.Client
	from   string
	logger *logger.Logger
}

// NewResendNotifier sends notifications through the Resend API.
func NewResendNotifier(apiKey, from string, logger *logger.Logger) service.Notifier {
	return &notifier{sender: &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}}
}

func (s *resendSender) Send(ctx context.Context, to, subject, html string) (string, error) {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send notification: %w", err)
	}

	s.logger.Info("Sent notification", sent.Id, "to", to)
	return sent.Id, nil
}
