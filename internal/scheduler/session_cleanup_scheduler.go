package scheduler

import (
	"time"

	"github.com/ikkim/wishwall-backend/internal/app/repository"
	"github.com/ikkim/wishwall-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// SessionCleanupScheduler purges anonymous sessions that have been idle past
// the retention window and never posted or supported anything. Sessions with
// a wish or a support are kept forever, since they anchor an identity.
type SessionCleanupScheduler struct {
	cron        *cron.Cron
	sessionRepo repository.SessionRepository
	retention   time.Duration
}

func NewSessionCleanupScheduler(sessionRepo repository.SessionRepository, retention time.Duration) *SessionCleanupScheduler {
	return &SessionCleanupScheduler{
		cron:        cron.New(),
		sessionRepo: sessionRepo,
		retention:   retention,
	}
}

// Start schedules the nightly cleanup (daily at 4:00 AM).
func (s *SessionCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 4 * * *", s.runCleanup)
	if err != nil {
		logger.Error("Failed to add cron job for session cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Session cleanup scheduler started (daily at 4:00 AM)", map[string]interface{}{
		"retention": s.retention.String(),
	})
	return nil
}

// Stop halts the scheduler; a running cleanup finishes first.
func (s *SessionCleanupScheduler) Stop() {
	logger.Info("Stopping session cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Session cleanup scheduler stopped", nil)
}

func (s *SessionCleanupScheduler) runCleanup() {
	cutoff := time.Now().Add(-s.retention)
	logger.Info("Starting scheduled session cleanup", map[string]interface{}{
		"cutoff": cutoff.Format(time.RFC3339),
	})

	removed, err := s.sessionRepo.DeleteIdleBefore(cutoff)
	if err != nil {
		logger.Error("Failed to clean up idle sessions", err)
		return
	}

	logger.Info("Session cleanup finished", map[string]interface{}{
		"removed": removed,
	})
}
