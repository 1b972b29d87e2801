package sessions

import (
	"context"
	"sync"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is an in-memory session repository, used in tests and
// single-process deployments.
type InMemoryRepo struct {
	lock     sync.RWMutex
	sessions map[string]Session
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{sessions: make(map[string]Session)}
}

func (r *InMemoryRepo) Upsert(ctx context.Context, session *Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

func (r *InMemoryRepo) Get(ctx context.Context, sessionID string) (*Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, NotFoundErr
	}
	copied := session
	return &copied, nil
}

func (r *InMemoryRepo) Delete(ctx context.Context, sessionID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
