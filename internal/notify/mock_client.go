package notify

import (
	"context"

	"mailbot/internal/model"
	"mailbot/internal/service"
)

// MockNotifier records sends for testing.
type MockNotifier struct {
	SendFunc func(ctx context.Context, to, subject, html string) (string, error)

	Sent []SentEmail
}

type SentEmail struct {
	To      string
	Subject string
	HTML    string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, html string) (string, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, html)
	}
	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, HTML: html})
	return "mock-id", nil
}

func (m *MockNotifier) SendNotificationSummary(ctx context.Context, to, rawSummary string) (string, error) {
	return m.Send(ctx, to, "📧 New Email Summary", RenderNotificationHTML(rawSummary))
}

func (m *MockNotifier) SendDailyDigest(ctx context.Context, to, rawDigest string) (string, error) {
	return m.Send(ctx, to, "📊 Your Daily Email Digest", RenderDigestHTML(rawDigest))
}

func (m *MockNotifier) SendImportantNotification(ctx context.Context, to string, important []*model.CategorizedMessage) (string, error) {
	return m.Send(ctx, to, "⚠️ Important Emails Require Attention", RenderImportantHTML(important))
}

var _ service.Notifier = (*MockNotifier)(nil)
