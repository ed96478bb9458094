package service

import (
	"context"
	"time"

	"catalogbot/internal/repository"

	"go.uber.org/zap"
)

// CleanupService purges idle sessions
type CleanupService struct {
	sessionRepo repository.SessionRepository
	idleTTL     time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(sessionRepo repository.SessionRepository, idleTTL time.Duration, logger *zap.Logger) *CleanupService {
	return &CleanupService{
		sessionRepo: sessionRepo,
		idleTTL:     idleTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// PurgeIdleSessions removes sessions untouched for longer than the idle TTL
func (s *CleanupService) PurgeIdleSessions(ctx context.Context) error {
	if s.idleTTL <= 0 {
		return nil
	}

	before := s.now().Add(-s.idleTTL)
	s.logger.Info("Starting cleanup of idle sessions", zap.Time("before", before))

	n, err := s.sessionRepo.DeleteIdle(ctx, before)
	if err != nil {
		s.logger.Error("Failed to cleanup idle sessions", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully", zap.Int64("removed", n))
	return nil
}
