package scheduler

import (
	"context"
	"sync"
	"time"

	"mailbot/internal/logger"
	"mailbot/internal/model"
	"mailbot/internal/repository"
	"mailbot/internal/service"
)

// The sweep runs at minute granularity; digest times are matched at
// minute resolution, so a finer interval buys nothing.
const sweepInterval = time.Minute

// DigestJob sweeps all digest-eligible users once per minute and triggers
// the digest flow for every user whose local wall-clock time matches their
// configured digest time.
type DigestJob struct {
	userRepo      repository.UserRepository
	digestService service.DigestService
	logger        *logger.Logger
	interval      time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	// lastDispatched maps user id to the local date of the last dispatch,
	// guarding against double-firing on duplicate or jittered ticks.
	mu             sync.Mutex
	lastDispatched map[string]string
}

func NewDigestJob(
	userRepo repository.UserRepository,
	digestService service.DigestService,
	logger *logger.Logger,
) *DigestJob {
	ctx, cancel := context.WithCancel(context.Background())

	return &DigestJob{
		userRepo:       userRepo,
		digestService:  digestService,
		logger:         logger,
		interval:       sweepInterval,
		ctx:            ctx,
		cancel:         cancel,
		lastDispatched: make(map[string]string),
	}
}

// Start runs the sweep loop until Stop is called. Ticks missed while the
// process is down are never made up.
func (j *DigestJob) Start() {
	j.logger.Info("Starting digest scheduler with interval:", j.interval.String())

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			j.RunSweep(now)
		case <-j.ctx.Done():
			j.logger.Info("Digest scheduler stopped")
			return
		}
	}
}

func (j *DigestJob) Stop() {
	j.cancel()
}

// RunSweep examines every digest-eligible user against the given instant.
// Exported so tests can drive ticks directly. A failure for one user never
// aborts processing of the rest.
func (j *DigestJob) RunSweep(now time.Time) {
	users, err := j.userRepo.ListDigestEligible(j.ctx)
	if err != nil {
		j.logger.Error("Failed to list users for digest sweep:", err)
		return
	}

	for _, user := range users {
		localDate, due := j.userDue(user, now)
		if !due {
			continue
		}
		if !j.markDispatched(user.UserID, localDate) {
			j.logger.Info("Digest already dispatched today for user", user.UserID, ", skipping")
			continue
		}

		j.logger.Info("Dispatching daily digest for user", user.UserID)
		if err := j.digestService.RunForUser(j.ctx, user); err != nil {
			j.logger.Error("Failed to process digest for user", user.Email, ":", err)
		}
	}
}

// userDue reports whether now, seen in the user's timezone, matches their
// digest time at minute resolution, and returns the local date when it does.
func (j *DigestJob) userDue(user *model.UserRecord, now time.Time) (string, bool) {
	loc, err := time.LoadLocation(user.Preferences.Timezone)
	if err != nil {
		j.logger.Warn("Unknown timezone for user", user.UserID, ":", user.Preferences.Timezone, ", falling back to UTC")
		loc = time.UTC
	}

	due, err := time.Parse("15:04", user.Preferences.DigestTime)
	if err != nil {
		j.logger.Warn("Invalid digest time for user", user.UserID, ":", user.Preferences.DigestTime)
		return "", false
	}

	local := now.In(loc)
	if local.Hour() != due.Hour() || local.Minute() != due.Minute() {
		return "", false
	}
	return local.Format("2006-01-02"), true
}

// markDispatched records the dispatch and reports false when the user has
// already been dispatched on that local date.
func (j *DigestJob) markDispatched(userID, localDate string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.lastDispatched[userID] == localDate {
		return false
	}
	j.lastDispatched[userID] = localDate
	return true
}

func (j *DigestJob) GetInterval() time.Duration {
	return j.interval
}
