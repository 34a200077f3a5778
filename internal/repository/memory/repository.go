package memory

import (
	"context"
	"sync"

	"mailbot/internal/model"
	"mailbot/internal/repository"
)

// InMemoryUserRepository holds records in a map, used by tests.
type InMemoryUserRepository struct {
	records map[string]*model.UserRecord
	mutex   sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		records: make(map[string]*model.UserRecord),
	}
}

func (r *InMemoryUserRepository) Put(ctx context.Context, record *model.UserRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	copied := *record
	r.records[record.UserID] = &copied
	return nil
}

func (r *InMemoryUserRepository) Get(ctx context.Context, userID string) (*model.UserRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	record, exists := r.records[userID]
	if !exists {
		return nil, repository.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *InMemoryUserRepository) ListDigestEligible(ctx context.Context) ([]*model.UserRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var users []*model.UserRecord
	for _, record := range r.records {
		if record.Preferences.DigestEnabled {
			copied := *record
			users = append(users, &copied)
		}
	}
	return users, nil
}
