package gmail

import (
	"context"
	"time"

	"mailbot/internal/model"
)

// MockMailClient is a mock implementation of MailClient for testing
type MockMailClient struct {
	FetchInboxFunc func(ctx context.Context, accessToken string, maxResults int64, since *time.Time) ([]*model.Message, error)
}

func NewMockMailClient() *MockMailClient {
	return &MockMailClient{}
}

func (m *MockMailClient) FetchInbox(ctx context.Context, accessToken string, maxResults int64, since *time.Time) ([]*model.Message, error) {
	if m.FetchInboxFunc != nil {
		return m.FetchInboxFunc(ctx, accessToken, maxResults, since)
	}

	// Default mock behavior: return an empty list
	return []*model.Message{}, nil
}
