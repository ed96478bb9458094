package service

import (
	"context"
	"sync"
	"time"

	"catalogbot/internal/domain"
	"catalogbot/internal/repository"

	"go.uber.org/zap"
)

// SessionService wraps the session repository with per-user locking
// and pending-flow expiry
type SessionService struct {
	repo    repository.SessionRepository
	flowTTL time.Duration
	logger  *zap.Logger
	now     func() time.Time

	locksMu sync.Mutex
	locks   map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessionService creates a session service. A zero flowTTL disables expiry.
func NewSessionService(repo repository.SessionRepository, flowTTL time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		repo:    repo,
		flowTTL: flowTTL,
		logger:  logger,
		now:     time.Now,
		locks:   make(map[int64]*userLock),
	}
}

// Lock serializes work for one chat user and returns the unlock func.
// Entries are reference counted so idle users do not pin memory.
func (s *SessionService) Lock(chatUserID int64) func() {
	s.locksMu.Lock()
	l, ok := s.locks[chatUserID]
	if !ok {
		l = &userLock{}
		s.locks[chatUserID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, chatUserID)
		}
		s.locksMu.Unlock()
	}
}

// Load returns the user's session. A pending flow older than the TTL is
// dropped and persisted, and expired is reported as true.
func (s *SessionService) Load(ctx context.Context, chatUserID int64) (sess domain.Session, expired bool, err error) {
	sess, err = s.repo.Get(ctx, chatUserID)
	if err != nil {
		return domain.Session{}, false, err
	}

	if sess.Flow.Expired(s.now(), s.flowTTL) {
		s.logger.Info("Pending flow expired",
			zap.Int64("user_id", chatUserID),
			zap.String("flow", string(sess.ActiveFlow())),
		)
		sess.ClearFlow()
		if err := s.Save(ctx, chatUserID, &sess); err != nil {
			return domain.Session{}, false, err
		}
		return sess, true, nil
	}

	return sess, false, nil
}

// Replace overwrites the whole session record
func (s *SessionService) Replace(ctx context.Context, chatUserID int64, sess domain.Session) error {
	return s.Save(ctx, chatUserID, &sess)
}

// Delete drops the session record, so the next load starts from zero
func (s *SessionService) Delete(ctx context.Context, chatUserID int64) error {
	return s.repo.Delete(ctx, chatUserID)
}

// Save stores the loaded session after in-place changes, stamping UpdatedAt
func (s *SessionService) Save(ctx context.Context, chatUserID int64, sess *domain.Session) error {
	sess.UpdatedAt = s.now()
	return s.repo.Set(ctx, chatUserID, *sess)
}

// Now returns the service clock
func (s *SessionService) Now() time.Time {
	return s.now()
}
