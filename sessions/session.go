// Package sessions manages server-side browser sessions. A session binds a
// user id to a cookie-backed identifier; the cookie itself carries only a
// signed session id, never identity data.
package sessions

import (
	"context"
	"errors"
	"time"
)

// NotFoundErr is returned when no session matches the given id.
var NotFoundErr = errors.New("session not found")

// CookieName is the browser cookie holding the signed session id.
const CookieName = "session_id"

// Session is the server-side state for one logged-in browser.
type Session struct {
	ID        string // UUID, referenced by the signed cookie
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Repo interface {
	Upsert(ctx context.Context, session *Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
