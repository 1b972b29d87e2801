package sessions

import (
	"context"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager creates, resolves and ends sessions. The cookie value handed to the
// browser is an HS256-signed JWT carrying the session id, so a tampered
// cookie is rejected before any storage lookup.
type Manager struct {
	repo     Repo
	secret   []byte
	lifetime time.Duration
}

func NewManager(repo Repo, secret string, lifetime time.Duration) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[sessions.NewManager] repo is required")
	}
	if secret == "" {
		return nil, errors.New("[sessions.NewManager] signing secret is required")
	}
	if lifetime <= 0 {
		return nil, errors.New("[sessions.NewManager] lifetime must be positive")
	}
	return &Manager{repo: repo, secret: []byte(secret), lifetime: lifetime}, nil
}

// Start opens a session for the user and returns it with the signed cookie
// value.
func (m *Manager) Start(ctx context.Context, userID int64) (*Session, string, error) {
	now := NowTimeFunc().UTC()
	session := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.lifetime),
	}
	if err := m.repo.Upsert(ctx, session); err != nil {
		return nil, "", errors.Wrap(err, "[Manager.Start] Upsert")
	}

	claims := jwtlib.MapClaims{
		"sid": session.ID,
		"iat": now.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, "", errors.Wrap(err, "[Manager.Start] SignedString")
	}
	return session, signed, nil
}

// Resolve verifies a cookie value and loads the referenced session. Any
// tampered, expired or unknown cookie yields NotFoundErr.
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (*Session, error) {
	sessionID, err := m.sessionID(cookieValue)
	if err != nil {
		return nil, NotFoundErr
	}
	session, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if NowTimeFunc().UTC().After(session.ExpiresAt) {
		_ = m.repo.Delete(ctx, sessionID)
		return nil, NotFoundErr
	}
	return session, nil
}

// End destroys the session referenced by the cookie value. Ending an unknown
// session is a no-op.
func (m *Manager) End(ctx context.Context, cookieValue string) error {
	sessionID, err := m.sessionID(cookieValue)
	if err != nil {
		return nil
	}
	return m.repo.Delete(ctx, sessionID)
}

func (m *Manager) sessionID(cookieValue string) (string, error) {
	if cookieValue == "" {
		return "", errors.New("[Manager.sessionID] empty cookie")
	}
	parsed, err := jwtlib.Parse(cookieValue, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc().UTC() }))
	if err != nil || !parsed.Valid {
		return "", errors.Wrap(err, "[Manager.sessionID] parse")
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return "", errors.New("[Manager.sessionID] unexpected claims type")
	}
	sessionID, _ := claims["sid"].(string)
	if sessionID == "" {
		return "", errors.New("[Manager.sessionID] missing sid claim")
	}
	return sessionID, nil
}
