package service

import (
	"context"
	"fmt"

	"mailbot/internal/logger"
	"mailbot/internal/model"
)

type emailService struct {
	mailClient MailClient
	aiClient   AIClient
	notifier   Notifier
	maxEmails  int64
	logger     *logger.Logger
}

func NewEmailService(mailClient MailClient, aiClient AIClient, notifier Notifier, maxEmails int, logger *logger.Logger) EmailService {
	if maxEmails <= 0 {
		maxEmails = 10
	}
	return &emailService{
		mailClient: mailClient,
		aiClient:   aiClient,
		notifier:   notifier,
		maxEmails:  int64(maxEmails),
		logger:     logger,
	}
}

func (s *emailService) FetchEmails(ctx context.Context, accessToken string) ([]*model.Message, error) {
	messages, err := s.mailClient.FetchInbox(ctx, accessToken, s.maxEmails, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch emails: %w", err)
	}
	s.logger.Info("Fetched", len(messages), "emails")
	return messages, nil
}

func (s *emailService) Summarize(ctx context.Context, messages []*model.Message) *model.SummaryResult {
	return s.aiClient.Summarize(ctx, messages)
}

// SendNotification builds the friendly summary for the given messages and
// emails it to the address. The summary itself cannot fail, only delivery.
func (s *emailService) SendNotification(ctx context.Context, emailAddress string, messages []*model.Message) (string, error) {
	rawSummary := s.aiClient.GenerateNotificationSummary(ctx, messages)
	receipt, err := s.notifier.SendNotificationSummary(ctx, emailAddress, rawSummary)
	if err != nil {
		return "", fmt.Errorf("failed to send notification: %w", err)
	}
	return receipt, nil
}
