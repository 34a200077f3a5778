package ai

import (
	"context"
	"time"

	"mailbot/internal/model"
)

// MockAIClient is a mock implementation of AIClient for testing
type MockAIClient struct {
	SummarizeFunc                   func(ctx context.Context, messages []*model.Message) *model.SummaryResult
	GenerateNotificationSummaryFunc func(ctx context.Context, messages []*model.Message) string
	GenerateDailyDigestFunc         func(ctx context.Context, messages []*model.Message) string
}

func NewMockAIClient() *MockAIClient {
	return &MockAIClient{}
}

func (m *MockAIClient) Summarize(ctx context.Context, messages []*model.Message) *model.SummaryResult {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, messages)
	}

	// Default mock behavior: everything lands in "other"
	result := &model.SummaryResult{
		TotalEmails:     len(messages),
		Categories:      emptyCategories(),
		ImportantEmails: []*model.CategorizedMessage{},
		SummaryText:     "mock summary",
		ProcessedAt:     time.Now(),
	}
	for _, msg := range messages {
		result.Categories[model.CategoryOther] = append(result.Categories[model.CategoryOther], &model.CategorizedMessage{
			Message:   *msg,
			AISummary: "mock summary of " + msg.Subject,
		})
	}
	return result
}

func (m *MockAIClient) GenerateNotificationSummary(ctx context.Context, messages []*model.Message) string {
	if m.GenerateNotificationSummaryFunc != nil {
		return m.GenerateNotificationSummaryFunc(ctx, messages)
	}
	return fallbackNotificationSummary(messages)
}

func (m *MockAIClient) GenerateDailyDigest(ctx context.Context, messages []*model.Message) string {
	if m.GenerateDailyDigestFunc != nil {
		return m.GenerateDailyDigestFunc(ctx, messages)
	}
	return fallbackDigest()
}
