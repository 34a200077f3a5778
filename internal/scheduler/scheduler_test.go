package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mailbot/internal/logger"
	"mailbot/internal/model"
	"mailbot/internal/repository/memory"
)

// stubDigestService records which users the scheduler dispatched.
type stubDigestService struct {
	mu         sync.Mutex
	dispatched []string
	failFor    map[string]error
}

func (s *stubDigestService) BuildDigest(ctx context.Context, accessToken string) (string, error) {
	return "{}", nil
}

func (s *stubDigestService) RunForUser(ctx context.Context, user *model.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched = append(s.dispatched, user.UserID)
	if err, ok := s.failFor[user.UserID]; ok {
		return err
	}
	return nil
}

func (s *stubDigestService) UpdatePreferences(ctx context.Context, accessToken string, updates map[string]interface{}) (*model.Preferences, error) {
	return nil, nil
}

func (s *stubDigestService) dispatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dispatched)
}

func newTestJob(t *testing.T, users ...*model.UserRecord) (*DigestJob, *stubDigestService) {
	userRepo := memory.NewInMemoryUserRepository()
	for _, user := range users {
		assert.NoError(t, userRepo.Put(context.Background(), user))
	}
	stub := &stubDigestService{failFor: map[string]error{}}
	return NewDigestJob(userRepo, stub, logger.New()), stub
}

func digestUser(id, tz, digestTime string) *model.UserRecord {
	user := model.NewUserRecord(id, id+"@example.com", "User "+id, "access", "refresh", time.Now().Add(time.Hour))
	user.Preferences.Timezone = tz
	user.Preferences.DigestTime = digestTime
	return user
}

func TestSweepDispatchesAtLocalDigestTime(t *testing.T) {
	user := digestUser("u1", "America/New_York", "09:00")
	job, stub := newTestJob(t, user)

	// 14:00 UTC on an EST date is 09:00 in New York.
	now := time.Date(2026, 1, 15, 14, 0, 30, 0, time.UTC)
	job.RunSweep(now)

	assert.Equal(t, 1, stub.dispatchCount())
	assert.Equal(t, "u1", stub.dispatched[0])
}

func TestSweepSkipsOffMinutes(t *testing.T) {
	user := digestUser("u1", "America/New_York", "09:00")
	job, stub := newTestJob(t, user)

	job.RunSweep(time.Date(2026, 1, 15, 13, 59, 0, 0, time.UTC)) // 08:59 local
	job.RunSweep(time.Date(2026, 1, 15, 14, 1, 0, 0, time.UTC))  // 09:01 local

	assert.Equal(t, 0, stub.dispatchCount())
}

func TestSweepFiresOncePerDay(t *testing.T) {
	user := digestUser("u1", "UTC", "09:00")
	job, stub := newTestJob(t, user)

	due := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	job.RunSweep(due)
	job.RunSweep(due.Add(20 * time.Second))
	assert.Equal(t, 1, stub.dispatchCount())

	// The next day it fires again.
	job.RunSweep(due.Add(24 * time.Hour))
	assert.Equal(t, 2, stub.dispatchCount())
}

func TestSweepUnknownTimezoneFallsBackToUTC(t *testing.T) {
	user := digestUser("u1", "Not/AZone", "14:00")
	job, stub := newTestJob(t, user)

	job.RunSweep(time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, stub.dispatchCount())
}

func TestSweepSkipsInvalidDigestTime(t *testing.T) {
	user := digestUser("u1", "UTC", "nine am")
	job, stub := newTestJob(t, user)

	job.RunSweep(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, 0, stub.dispatchCount())
}

func TestSweepSkipsDisabledUsers(t *testing.T) {
	user := digestUser("u1", "UTC", "09:00")
	user.Preferences.DigestEnabled = false
	job, stub := newTestJob(t, user)

	job.RunSweep(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, 0, stub.dispatchCount())
}

func TestSweepIsolatesPerUserFailures(t *testing.T) {
	failing := digestUser("u-fail", "UTC", "09:00")
	healthy := digestUser("u-ok", "UTC", "09:00")
	job, stub := newTestJob(t, failing, healthy)
	stub.failFor["u-fail"] = errors.New("token expired")

	job.RunSweep(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))

	// Both users are attempted regardless of the failure.
	assert.Equal(t, 2, stub.dispatchCount())
	assert.ElementsMatch(t, []string{"u-fail", "u-ok"}, stub.dispatched)
}
