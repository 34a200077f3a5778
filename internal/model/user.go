package model

import (
	"time"
)

// Preferences controls when and whether a user's daily digest is delivered.
// DigestTime is local wall-clock "HH:MM" in the user's Timezone (IANA name).
type Preferences struct {
	DigestTime    string `json:"digest_time"`
	Timezone      string `json:"timezone"`
	DigestEnabled bool   `json:"digest_enabled"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		DigestTime:    "00:00",
		Timezone:      "UTC",
		DigestEnabled: true,
	}
}

// UserRecord is the persisted state for one authenticated mail account.
// The access token may be expired at read time; consumers decide what to do.
type UserRecord struct {
	UserID       string      `json:"user_id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenExpiry  time.Time   `json:"token_expiry"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func NewUserRecord(userID, email, name, accessToken, refreshToken string, tokenExpiry time.Time) *UserRecord {
	now := time.Now()
	return &UserRecord{
		UserID:       userID,
		Email:        email,
		Name:         name,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenExpiry:  tokenExpiry,
		Preferences:  DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UserInfo is the identity returned by the provider's userinfo endpoint.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
