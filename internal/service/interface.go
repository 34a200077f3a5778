package service

import (
	"context"
	"time"

	"mailbot/internal/model"
)

type AuthService interface {
	StoreAuthenticatedUser(ctx context.Context, info *model.UserInfo, accessToken, refreshToken string, tokenExpiry time.Time) (*model.UserRecord, error)
	ResolveToken(ctx context.Context, accessToken string) (*model.UserRecord, error)
}

type EmailService interface {
	FetchEmails(ctx context.Context, accessToken string) ([]*model.Message, error)
	Summarize(ctx context.Context, messages []*model.Message) *model.SummaryResult
	SendNotification(ctx context.Context, emailAddress string, messages []*model.Message) (string, error)
}

type DigestService interface {
	// BuildDigest fetches the last 24 hours of mail and returns the raw
	// digest JSON text (model output or fallback skeleton).
	BuildDigest(ctx context.Context, accessToken string) (string, error)
	// RunForUser executes the full fetch, summarize and notify flow for one
	// stored user.
	RunForUser(ctx context.Context, user *model.UserRecord) error
	UpdatePreferences(ctx context.Context, accessToken string, updates map[string]interface{}) (*model.Preferences, error)
}

// MailClient fetches inbox messages with a user-supplied access token.
type MailClient interface {
	FetchInbox(ctx context.Context, accessToken string, maxResults int64, since *time.Time) ([]*model.Message, error)
}

// AIClient is the summarization pipeline. None of its methods return an
// error: every failure degrades to a well-defined fallback value.
type AIClient interface {
	Summarize(ctx context.Context, messages []*model.Message) *model.SummaryResult
	GenerateNotificationSummary(ctx context.Context, messages []*model.Message) string
	GenerateDailyDigest(ctx context.Context, messages []*model.Message) string
}

// Notifier delivers rendered summaries by email. Send returns the
// provider's delivery receipt id.
type Notifier interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
	SendNotificationSummary(ctx context.Context, to, rawSummary string) (string, error)
	SendDailyDigest(ctx context.Context, to, rawDigest string) (string, error)
	SendImportantNotification(ctx context.Context, to string, important []*model.CategorizedMessage) (string, error)
}

// UserInfoFetcher resolves a raw access token to the provider identity.
type UserInfoFetcher func(ctx context.Context, accessToken string) (*model.UserInfo, error)
