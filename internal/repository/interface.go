package repository

import (
	"context"
	"errors"

	"mailbot/internal/model"
)

// ErrNotFound is returned for absent records and for records that fail
// signature verification; callers treat both the same way.
var ErrNotFound = errors.New("user record not found")

// UserRepository persists one signed record per authenticated user.
type UserRepository interface {
	// Put overwrites the full record for record.UserID.
	Put(ctx context.Context, record *model.UserRecord) error
	// Get returns ErrNotFound when the record is absent or unreadable.
	Get(ctx context.Context, userID string) (*model.UserRecord, error)
	// ListDigestEligible returns every record with the digest preference
	// enabled. Order is unspecified.
	ListDigestEligible(ctx context.Context) ([]*model.UserRecord, error)
}
