package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalogbot/internal/domain"
)

// SessionRepo implements repository.SessionRepository on PostgreSQL.
// The session record is stored as JSONB so new fields need no migration.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Get loads a session, returning a zero session when the user has none
func (r *SessionRepo) Get(ctx context.Context, chatUserID int64) (domain.Session, error) {
	var data []byte
	query := `SELECT data FROM bot_sessions WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, chatUserID).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return s, nil
}

// Set upserts a session
func (r *SessionRepo) Set(ctx context.Context, chatUserID int64, session domain.Session) error {
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	query := `
		INSERT INTO bot_sessions (user_id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, chatUserID, data, session.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a user's session
func (r *SessionRepo) Delete(ctx context.Context, chatUserID int64) error {
	query := `DELETE FROM bot_sessions WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, chatUserID)
	return err
}

// DeleteIdle removes sessions last updated before the given time
func (r *SessionRepo) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM bot_sessions WHERE updated_at < $1`
	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
