package token

import "context"

// Repo persists issued tokens. Tokens are never physically deleted except via
// the owner/client cascade; revocation flips the Revoked flag.
type Repo interface {
	Insert(ctx context.Context, token *Token) (*Token, error)
	GetByAccessToken(ctx context.Context, accessToken string) (*Token, error)

	// ConsumeRefreshToken atomically marks the token holding this refresh
	// value as revoked and returns it. When the token is unknown or was
	// already consumed it returns NotFoundErr; under concurrent refresh of
	// the same value exactly one caller receives the token.
	ConsumeRefreshToken(ctx context.Context, refreshToken string) (*Token, error)

	RevokeByAccessToken(ctx context.Context, accessToken string) error
}
