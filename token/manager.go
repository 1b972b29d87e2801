package token

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/widgetlabs/widget-api/clients"
	"github.com/widgetlabs/widget-api/internal/secrets"
	"github.com/widgetlabs/widget-api/oauth2"
	"github.com/widgetlabs/widget-api/users"
)

const tokenGenerationBytes = 32

// CreateParameters carry the credentials presented at the token endpoint.
type CreateParameters struct {
	GrantType    oauth2.GrantType
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// Manager issues, refreshes, revokes and validates access/refresh token
// pairs. Expiry is checked lazily at validation time; expired and revoked
// rows stay stored until an external retention job purges them.
type Manager struct {
	repo            Repo
	clientRegistry  *clients.Registry
	userRepo        users.Repo
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	nowFunc         func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithLifetimes overrides the configured access and refresh lifetimes.
func WithLifetimes(accessLifetime, refreshLifetime time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessLifetime = accessLifetime
		m.refreshLifetime = refreshLifetime
	}
}

// New creates a token Manager.
func New(repo Repo, clientRegistry *clients.Registry, userRepo users.Repo, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[token.New] repo is required")
	}
	if clientRegistry == nil {
		return nil, errors.New("[token.New] client registry is required")
	}
	if userRepo == nil {
		return nil, errors.New("[token.New] user repo is required")
	}

	m := &Manager{
		repo:            repo,
		clientRegistry:  clientRegistry,
		userRepo:        userRepo,
		accessLifetime:  time.Hour,
		refreshLifetime: 24 * time.Hour,
		nowFunc:         time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Create validates the presented credentials and mints a new token pair.
// Unknown client or secret mismatch fails with InvalidClientErr; bad user
// credentials or an unsupported grant fail with InvalidGrantErr.
func (m *Manager) Create(ctx context.Context, params CreateParameters) (*Token, error) {
	client, err := m.clientRegistry.GetByClientID(ctx, params.ClientID)
	if err != nil {
		if errors.Is(err, clients.NotFoundErr) {
			return nil, InvalidClientErr
		}
		return nil, errors.Wrap(err, "[Manager.Create] GetByClientID")
	}
	if !client.CompareSecret(params.ClientSecret) {
		return nil, InvalidClientErr
	}

	var userID *int64
	switch params.GrantType {
	case oauth2.PasswordGrant:
		user, err := m.userRepo.GetByEmail(ctx, params.Username)
		if err != nil {
			if errors.Is(err, users.NotFoundErr) {
				return nil, InvalidGrantErr
			}
			return nil, errors.Wrap(err, "[Manager.Create] GetByEmail")
		}
		if !users.CheckPasswordHash(params.Password, user.PasswordHash) {
			return nil, InvalidGrantErr
		}
		userID = &user.ID
	case oauth2.ClientCredentialsGrant:
		ownerID := client.UserID
		userID = &ownerID
	default:
		return nil, InvalidGrantErr
	}

	return m.mint(ctx, client.ID, userID)
}

// Refresh rotates the pair behind a refresh token. The old token is consumed
// atomically, so a concurrent refresh of the same value has exactly one
// winner; the loser, like any unknown, revoked or expired token, gets
// InvalidGrantErr.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	if refreshToken == "" {
		return nil, InvalidGrantErr
	}

	consumed, err := m.repo.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, NotFoundErr) {
			return nil, InvalidGrantErr
		}
		return nil, errors.Wrap(err, "[Manager.Refresh] ConsumeRefreshToken")
	}
	if m.nowFunc().UTC().After(consumed.RefreshExpiresAt) {
		return nil, InvalidGrantErr
	}

	return m.mint(ctx, consumed.ClientID, consumed.UserID)
}

// GetByAccessToken returns the stored record for an access token value.
func (m *Manager) GetByAccessToken(ctx context.Context, accessToken string) (*Token, error) {
	return m.repo.GetByAccessToken(ctx, accessToken)
}

// Validate reports whether a token grants API access. A token is valid up to
// and including its access expiry instant, strictly after it is expired.
// Revoked wins over expired.
func (m *Manager) Validate(t *Token) Status {
	if t.Revoked {
		return StatusRevoked
	}
	if m.nowFunc().UTC().After(t.AccessExpiresAt) {
		return StatusExpired
	}
	return StatusValid
}

// Revoke marks the token holding this access value as revoked.
func (m *Manager) Revoke(ctx context.Context, accessToken string) error {
	return m.repo.RevokeByAccessToken(ctx, accessToken)
}

// ResponseData serializes the externally visible token shape.
func (m *Manager) ResponseData(t *Token) oauth2.TokenResponse {
	expiresIn := int(t.AccessExpiresAt.Sub(m.nowFunc().UTC()) / time.Second)
	if expiresIn < 0 {
		expiresIn = 0
	}
	return oauth2.TokenResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    oauth2.BearerTokenType,
		ExpiresIn:    expiresIn,
	}
}

func (m *Manager) mint(ctx context.Context, clientID int64, userID *int64) (*Token, error) {
	now := m.nowFunc().UTC()
	minted := &Token{
		AccessToken:      secrets.Generate(tokenGenerationBytes),
		RefreshToken:     secrets.Generate(tokenGenerationBytes),
		AccessExpiresAt:  now.Add(m.accessLifetime),
		RefreshExpiresAt: now.Add(m.refreshLifetime),
		ClientID:         clientID,
		UserID:           userID,
	}

	stored, err := m.repo.Insert(ctx, minted)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.mint] Insert")
	}
	return stored, nil
}
