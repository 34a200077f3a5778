package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mailbot/internal/logger"
	"mailbot/internal/model"
	"mailbot/internal/repository"
)

type authService struct {
	userRepo repository.UserRepository
	userInfo UserInfoFetcher
	logger   *logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, userInfo UserInfoFetcher, logger *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		userInfo: userInfo,
		logger:   logger,
	}
}

// StoreAuthenticatedUser persists tokens from a completed OAuth exchange.
// An existing record keeps its preferences; only identity and tokens are
// refreshed before the whole record is rewritten.
func (s *authService) StoreAuthenticatedUser(ctx context.Context, info *model.UserInfo, accessToken, refreshToken string, tokenExpiry time.Time) (*model.UserRecord, error) {
	record, err := s.userRepo.Get(ctx, info.ID)
	if errors.Is(err, repository.ErrNotFound) {
		record = model.NewUserRecord(info.ID, info.Email, info.Name, accessToken, refreshToken, tokenExpiry)
		if err := s.userRepo.Put(ctx, record); err != nil {
			s.logger.Error("Failed to store new user:", err)
			return nil, err
		}
		s.logger.Info("Created new user:", record.UserID)
		return record, nil
	}
	if err != nil {
		return nil, err
	}

	record.Email = info.Email
	record.Name = info.Name
	record.AccessToken = accessToken
	if refreshToken != "" {
		record.RefreshToken = refreshToken
	}
	record.TokenExpiry = tokenExpiry
	record.UpdatedAt = time.Now()

	if err := s.userRepo.Put(ctx, record); err != nil {
		s.logger.Error("Failed to update user:", err)
		return nil, err
	}
	s.logger.Info("Updated existing user:", record.UserID)
	return record, nil
}

// ResolveToken maps a raw access token to its stored user record.
func (s *authService) ResolveToken(ctx context.Context, accessToken string) (*model.UserRecord, error) {
	info, err := s.userInfo(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	record, err := s.userRepo.Get(ctx, info.ID)
	if err != nil {
		return nil, err
	}
	return record, nil
}
