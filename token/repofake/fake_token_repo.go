package faketokenrepo

import (
	"context"
	"sync"

	"github.com/widgetlabs/widget-api/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo is an in-memory token repository for tests. Consumption is
// serialized under the lock, matching the single-winner guarantee of the SQL
// store.
type FakeTokenRepo struct {
	lock   sync.Mutex
	nextID int64
	tokens map[int64]*token.Token
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{tokens: make(map[int64]*token.Token)}
}

func (r *FakeTokenRepo) Insert(ctx context.Context, t *token.Token) (*token.Token, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.nextID++
	stored := *t
	stored.ID = r.nextID
	r.tokens[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *FakeTokenRepo) GetByAccessToken(ctx context.Context, accessToken string) (*token.Token, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, t := range r.tokens {
		if t.AccessToken == accessToken {
			copied := *t
			return &copied, nil
		}
	}
	return nil, token.NotFoundErr
}

func (r *FakeTokenRepo) ConsumeRefreshToken(ctx context.Context, refreshToken string) (*token.Token, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, t := range r.tokens {
		if t.RefreshToken == refreshToken && !t.Revoked {
			t.Revoked = true
			copied := *t
			return &copied, nil
		}
	}
	return nil, token.NotFoundErr
}

func (r *FakeTokenRepo) RevokeByAccessToken(ctx context.Context, accessToken string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, t := range r.tokens {
		if t.AccessToken == accessToken {
			t.Revoked = true
			return nil
		}
	}
	return token.NotFoundErr
}
