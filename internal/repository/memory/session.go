package memory

import (
	"context"
	"sync"
	"time"

	"catalogbot/internal/domain"
)

// SessionRepo implements repository.SessionRepository in process memory.
// Sessions are stored by value so callers never share a record.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[int64]domain.Session
}

// NewSessionRepo creates an empty in-memory session repository
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[int64]domain.Session)}
}

// Get returns the session for a user or a zero session
func (r *SessionRepo) Get(_ context.Context, chatUserID int64) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneSession(r.sessions[chatUserID]), nil
}

// Set overwrites the session for a user
func (r *SessionRepo) Set(_ context.Context, chatUserID int64, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[chatUserID] = cloneSession(session)
	return nil
}

// Delete removes the session for a user
func (r *SessionRepo) Delete(_ context.Context, chatUserID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, chatUserID)
	return nil
}

// DeleteIdle removes sessions not updated since before
func (r *SessionRepo) DeleteIdle(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.sessions {
		if s.UpdatedAt.Before(before) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func cloneSession(s domain.Session) domain.Session {
	if s.Flow != nil {
		flow := *s.Flow
		s.Flow = &flow
	}
	return s
}
