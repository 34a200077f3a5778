package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mailbot/internal/ai"
	"mailbot/internal/gmail"
	"mailbot/internal/logger"
	"mailbot/internal/model"
	"mailbot/internal/notify"
	"mailbot/internal/repository/memory"
	"mailbot/internal/service"
)

func newDigestFixture(t *testing.T) (service.DigestService, *memory.InMemoryUserRepository, *gmail.MockMailClient, *ai.MockAIClient, *notify.MockNotifier) {
	userRepo := memory.NewInMemoryUserRepository()
	mailClient := gmail.NewMockMailClient()
	aiClient := ai.NewMockAIClient()
	notifier := notify.NewMockNotifier()

	info := &model.UserInfo{ID: "g-123", Email: "test@example.com", Name: "Test User"}
	digestService := service.NewDigestService(userRepo, mailClient, aiClient, notifier, staticUserInfo(info, nil), logger.New())
	return digestService, userRepo, mailClient, aiClient, notifier
}

func TestBuildDigestFetchesLast24Hours(t *testing.T) {
	digestService, _, mailClient, aiClient, _ := newDigestFixture(t)

	var capturedSince *time.Time
	mailClient.FetchInboxFunc = func(ctx context.Context, accessToken string, maxResults int64, since *time.Time) ([]*model.Message, error) {
		capturedSince = since
		return []*model.Message{{ID: "m1", Subject: "Standup notes"}}, nil
	}
	aiClient.GenerateDailyDigestFunc = func(ctx context.Context, messages []*model.Message) string {
		assert.Len(t, messages, 1)
		return `{"daily_digest": {}}`
	}

	raw, err := digestService.BuildDigest(context.Background(), "access-token")
	assert.NoError(t, err)
	assert.Equal(t, `{"daily_digest": {}}`, raw)

	assert.NotNil(t, capturedSince)
	assert.WithinDuration(t, time.Now().UTC().Add(-24*time.Hour), *capturedSince, time.Minute)
}

func TestRunForUserDeliversDigest(t *testing.T) {
	digestService, _, _, _, notifier := newDigestFixture(t)

	user := model.NewUserRecord("g-123", "test@example.com", "Test User", "access-token", "refresh", time.Now().Add(time.Hour))
	err := digestService.RunForUser(context.Background(), user)
	assert.NoError(t, err)

	assert.Len(t, notifier.Sent, 1)
	assert.Equal(t, "test@example.com", notifier.Sent[0].To)
	assert.Equal(t, "📊 Your Daily Email Digest", notifier.Sent[0].Subject)
}

func TestUpdatePreferencesMergesOnlySuppliedKeys(t *testing.T) {
	digestService, userRepo, _, _, _ := newDigestFixture(t)
	ctx := context.Background()

	stored := model.NewUserRecord("g-123", "test@example.com", "Test User", "access-token", "refresh", time.Now().Add(time.Hour))
	stored.Preferences.Timezone = "Europe/Berlin"
	assert.NoError(t, userRepo.Put(ctx, stored))

	prefs, err := digestService.UpdatePreferences(ctx, "access-token", map[string]interface{}{
		"digest_time": "06:15",
	})
	assert.NoError(t, err)
	assert.Equal(t, "06:15", prefs.DigestTime)
	// Keys absent from the update keep their stored value
	assert.Equal(t, "Europe/Berlin", prefs.Timezone)
	assert.True(t, prefs.DigestEnabled)

	reloaded, err := userRepo.Get(ctx, "g-123")
	assert.NoError(t, err)
	assert.Equal(t, "06:15", reloaded.Preferences.DigestTime)

	// Disabling the digest leaves the schedule intact
	prefs, err = digestService.UpdatePreferences(ctx, "access-token", map[string]interface{}{
		"digest_enabled": false,
	})
	assert.NoError(t, err)
	assert.False(t, prefs.DigestEnabled)
	assert.Equal(t, "06:15", prefs.DigestTime)
	assert.Equal(t, "Europe/Berlin", prefs.Timezone)
}

func TestUpdatePreferencesValidation(t *testing.T) {
	digestService, userRepo, _, _, _ := newDigestFixture(t)
	ctx := context.Background()

	stored := model.NewUserRecord("g-123", "test@example.com", "Test User", "access-token", "refresh", time.Now().Add(time.Hour))
	assert.NoError(t, userRepo.Put(ctx, stored))

	_, err := digestService.UpdatePreferences(ctx, "access-token", map[string]interface{}{
		"digest_time": "25:99",
	})
	assert.Error(t, err)

	_, err = digestService.UpdatePreferences(ctx, "access-token", map[string]interface{}{
		"timezone": "Mars/Olympus",
	})
	assert.Error(t, err)

	_, err = digestService.UpdatePreferences(ctx, "access-token", map[string]interface{}{
		"digest_enabled": "yes",
	})
	assert.Error(t, err)

	// Failed updates leave the stored record untouched
	reloaded, err := userRepo.Get(ctx, "g-123")
	assert.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), reloaded.Preferences)
}

func TestUpdatePreferencesIgnoresUnknownKeys(t *testing.T) {
	digestService, userRepo, _, _, _ := newDigestFixture(t)
	ctx := context.Background()

	stored := model.NewUserRecord("g-123", "test@example.com", "Test User", "access-token", "refresh", time.Now().Add(time.Hour))
	assert.NoError(t, userRepo.Put(ctx, stored))

	prefs, err := digestService.UpdatePreferences(ctx, "access-token", map[string]interface{}{
		"favorite_color": "green",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), *prefs)
}
