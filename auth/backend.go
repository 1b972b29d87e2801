package auth

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/widgetlabs/widget-api/sessions"
	"github.com/widgetlabs/widget-api/token"
	"github.com/widgetlabs/widget-api/users"
)

// InvalidTokenErr means a presented bearer token is unknown, revoked or
// expired. Bearer failures are surfaced to the caller, never silently
// downgraded to anonymous.
var InvalidTokenErr = errors.New("invalid bearer token")

const bearerScheme = "Bearer"

// Backend performs per-request credential resolution. Resolution order is
// fixed: session cookie first, then Authorization header, else anonymous —
// only one mode applies per request.
type Backend struct {
	sessionManager *sessions.Manager
	userRepo       users.Repo
	tokenManager   *token.Manager
}

func NewBackend(sessionManager *sessions.Manager, userRepo users.Repo, tokenManager *token.Manager) (*Backend, error) {
	if sessionManager == nil {
		return nil, errors.New("[auth.NewBackend] session manager is required")
	}
	if userRepo == nil {
		return nil, errors.New("[auth.NewBackend] user repo is required")
	}
	if tokenManager == nil {
		return nil, errors.New("[auth.NewBackend] token manager is required")
	}
	return &Backend{
		sessionManager: sessionManager,
		userRepo:       userRepo,
		tokenManager:   tokenManager,
	}, nil
}

// Authenticate resolves the request's credentials. A missing or malformed
// Authorization header is treated as absent; a present-but-invalid bearer
// token fails with InvalidTokenErr.
func (b *Backend) Authenticate(r *http.Request) (*Credentials, error) {
	if creds, ok := b.authenticateSession(r); ok {
		return creds, nil
	}

	bearer, ok := bearerToken(r)
	if !ok {
		return Anonymous(), nil
	}
	return b.authenticateBearer(r, bearer)
}

func (b *Backend) authenticateSession(r *http.Request) (*Credentials, bool) {
	cookie, err := r.Cookie(sessions.CookieName)
	if err != nil {
		return nil, false
	}
	session, err := b.sessionManager.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return nil, false
	}

	user, err := b.userRepo.GetByID(r.Context(), session.UserID)
	if err != nil {
		// User deleted since login: treat as anonymous, not a failure.
		return Anonymous(), true
	}
	return &Credentials{
		Scopes: []string{ScopeAppAuth},
		User:   user,
	}, true
}

func (b *Backend) authenticateBearer(r *http.Request, bearer string) (*Credentials, error) {
	stored, err := b.tokenManager.GetByAccessToken(r.Context(), bearer)
	if err != nil {
		if errors.Is(err, token.NotFoundErr) {
			return nil, InvalidTokenErr
		}
		return nil, errors.Wrap(err, "[Backend.authenticateBearer] GetByAccessToken")
	}
	if b.tokenManager.Validate(stored) != token.StatusValid {
		return nil, InvalidTokenErr
	}
	return &Credentials{
		Scopes: []string{ScopeAPIAuth},
		Token:  stored,
	}, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme match is case-sensitive; anything else reads as no
// header at all.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
