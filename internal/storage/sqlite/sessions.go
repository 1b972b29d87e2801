package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	"github.com/widgetlabs/widget-api/sessions"
)

// SessionRepo implements sessions.Repo over the shared store.
type SessionRepo struct {
	store *Store
}

var _ sessions.Repo = (*SessionRepo)(nil)

func NewSessionRepo(store *Store) *SessionRepo {
	return &SessionRepo{store: store}
}

func (r *SessionRepo) Upsert(ctx context.Context, session *sessions.Session) error {
	_, err := r.store.sqlDB.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id,
			expires_at = excluded.expires_at
	`, session.ID, session.UserID, toMillis(session.CreatedAt), toMillis(session.ExpiresAt))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*sessions.Session, error) {
	var session sessions.Session
	var createdAt, expiresAt int64
	err := r.store.sqlDB.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE id = ?
	`, sessionID).Scan(&session.ID, &session.UserID, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sessions.NotFoundErr
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = fromMillis(createdAt)
	session.ExpiresAt = fromMillis(expiresAt)
	return &session, nil
}

func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.store.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
