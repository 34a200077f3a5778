package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mailbot/internal/logger"
	"mailbot/internal/model"
	"mailbot/internal/repository"
)

// FileUserRepository stores one signed record per user under dir as
// <user_id>.enc. Writes go through a temp file plus rename so a reader
// never observes a partially-written record, and writes to the same user
// id are serialized with a per-id mutex.
type FileUserRepository struct {
	dir    string
	codec  *repository.RecordCodec
	logger *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileUserRepository(dir, secret string, logger *logger.Logger) (*FileUserRepository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create credentials dir: %w", err)
	}
	return &FileUserRepository{
		dir:    dir,
		codec:  repository.NewRecordCodec(secret),
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

func (r *FileUserRepository) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, exists := r.locks[userID]
	if !exists {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	return lock
}

func (r *FileUserRepository) recordPath(userID string) string {
	return filepath.Join(r.dir, userID+".enc")
}

func (r *FileUserRepository) Put(ctx context.Context, record *model.UserRecord) error {
	signed, err := r.codec.Encode(record)
	if err != nil {
		return err
	}

	lock := r.userLock(record.UserID)
	lock.Lock()
	defer lock.Unlock()

	path := r.recordPath(record.UserID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(signed), 0o600); err != nil {
		return fmt.Errorf("failed to write user record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace user record: %w", err)
	}
	return nil
}

func (r *FileUserRepository) Get(ctx context.Context, userID string) (*model.UserRecord, error) {
	data, err := os.ReadFile(r.recordPath(userID))
	if os.IsNotExist(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user record: %w", err)
	}

	record, err := r.codec.Decode(string(data))
	if err != nil {
		// Unverifiable records read as absent rather than crashing callers.
		r.logger.Warn("Discarding unverifiable record for user", userID, ":", err)
		return nil, repository.ErrNotFound
	}
	return record, nil
}

func (r *FileUserRepository) ListDigestEligible(ctx context.Context) ([]*model.UserRecord, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials dir: %w", err)
	}

	var users []*model.UserRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".enc") {
			continue
		}
		record, err := r.Get(ctx, strings.TrimSuffix(name, ".enc"))
		if err != nil {
			continue
		}
		if record.Preferences.DigestEnabled {
			users = append(users, record)
		}
	}
	return users, nil
}
