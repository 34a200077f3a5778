package service

import (
	"context"
	"fmt"
	"time"

	"mailbot/internal/logger"
	"mailbot/internal/model"
	"mailbot/internal/repository"
)

const (
	digestLookback   = 24 * time.Hour
	digestMaxEmails  = 100
	perUserTimeout   = 2 * time.Minute
)

type digestService struct {
	userRepo   repository.UserRepository
	mailClient MailClient
	aiClient   AIClient
	notifier   Notifier
	userInfo   UserInfoFetcher
	logger     *logger.Logger
}

func NewDigestService(
	userRepo repository.UserRepository,
	mailClient MailClient,
	aiClient AIClient,
	notifier Notifier,
	userInfo UserInfoFetcher,
	logger *logger.Logger,
) DigestService {
	return &digestService{
		userRepo:   userRepo,
		mailClient: mailClient,
		aiClient:   aiClient,
		notifier:   notifier,
		userInfo:   userInfo,
		logger:     logger,
	}
}

func (s *digestService) BuildDigest(ctx context.Context, accessToken string) (string, error) {
	since := time.Now().UTC().Add(-digestLookback)
	messages, err := s.mailClient.FetchInbox(ctx, accessToken, digestMaxEmails, &since)
	if err != nil {
		return "", fmt.Errorf("failed to fetch emails: %w", err)
	}
	return s.aiClient.GenerateDailyDigest(ctx, messages), nil
}

// RunForUser runs the full digest flow for one stored user under a bounded
// timeout so a hung provider call cannot stall the scheduler sweep.
func (s *digestService) RunForUser(ctx context.Context, user *model.UserRecord) error {
	ctx, cancel := context.WithTimeout(ctx, perUserTimeout)
	defer cancel()

	rawDigest, err := s.BuildDigest(ctx, user.AccessToken)
	if err != nil {
		return err
	}

	if _, err := s.notifier.SendDailyDigest(ctx, user.Email, rawDigest); err != nil {
		return fmt.Errorf("failed to send daily digest: %w", err)
	}

	s.logger.Info("Delivered daily digest to", user.Email)
	return nil
}

// UpdatePreferences merges the supplied keys into the stored preferences
// and rewrites the whole record. Unknown keys are ignored.
func (s *digestService) UpdatePreferences(ctx context.Context, accessToken string, updates map[string]interface{}) (*model.Preferences, error) {
	info, err := s.userInfo(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	record, err := s.userRepo.Get(ctx, info.ID)
	if err != nil {
		return nil, err
	}

	if err := applyPreferenceUpdates(&record.Preferences, updates); err != nil {
		return nil, err
	}
	record.UpdatedAt = time.Now()

	if err := s.userRepo.Put(ctx, record); err != nil {
		return nil, err
	}
	return &record.Preferences, nil
}

func applyPreferenceUpdates(prefs *model.Preferences, updates map[string]interface{}) error {
	for key, value := range updates {
		switch key {
		case "digest_time":
			text, ok := value.(string)
			if !ok {
				return fmt.Errorf("digest_time must be a string")
			}
			if _, err := time.Parse("15:04", text); err != nil {
				return fmt.Errorf("digest_time must be HH:MM: %w", err)
			}
			prefs.DigestTime = text
		case "timezone":
			text, ok := value.(string)
			if !ok {
				return fmt.Errorf("timezone must be a string")
			}
			if _, err := time.LoadLocation(text); err != nil {
				return fmt.Errorf("unknown timezone %q: %w", text, err)
			}
			prefs.Timezone = text
		case "digest_enabled":
			enabled, ok := value.(bool)
			if !ok {
				return fmt.Errorf("digest_enabled must be a boolean")
			}
			prefs.DigestEnabled = enabled
		}
	}
	return nil
}
