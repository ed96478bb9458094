package domain

import "time"

// FlowKind identifies a multi-step input flow
type FlowKind string

const (
	FlowCreatingUser     FlowKind = "creating_user"
	FlowUpdatingUser     FlowKind = "updating_user"
	FlowCreatingItem     FlowKind = "creating_item"
	FlowUpdatingItem     FlowKind = "updating_item"
	FlowCreatingCategory FlowKind = "creating_category"
)

// PendingFlow is the flow a user is currently inside.
// TargetID is set for update flows only.
type PendingFlow struct {
	Kind      FlowKind  `json:"kind"`
	TargetID  int       `json:"target_id,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Expired reports whether the flow is older than ttl. A zero ttl never expires.
func (f *PendingFlow) Expired(now time.Time, ttl time.Duration) bool {
	if f == nil || ttl <= 0 {
		return false
	}
	return now.Sub(f.StartedAt) > ttl
}

// Session is the per-chat-user conversation record
type Session struct {
	LoggedIn        bool         `json:"logged_in"`
	WaitingForLogin bool         `json:"waiting_for_login"`
	Username        string       `json:"username,omitempty"`
	UserID          int          `json:"user_id,omitempty"`
	Role            Role         `json:"role,omitempty"`
	Token           string       `json:"token,omitempty"`
	Flow            *PendingFlow `json:"flow,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// StartFlow sets the pending flow, replacing any previous one
func (s *Session) StartFlow(kind FlowKind, targetID int, now time.Time) {
	s.Flow = &PendingFlow{Kind: kind, TargetID: targetID, StartedAt: now}
}

// ClearFlow drops the pending flow and its target
func (s *Session) ClearFlow() {
	s.Flow = nil
}

// ActiveFlow returns the pending flow kind, or an empty kind
func (s Session) ActiveFlow() FlowKind {
	if s.Flow == nil {
		return ""
	}
	return s.Flow.Kind
}
