package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	"github.com/widgetlabs/widget-api/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory user repository for tests.
type FakeUserRepo struct {
	lock   sync.RWMutex
	nextID int64
	users  map[int64]*users.User
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{users: make(map[int64]*users.User)}
}

func (r *FakeUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.nextID++
	stored := *user
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.users[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *FakeUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, users.NotFoundErr
	}
	copied := *user
	return &copied, nil
}

func (r *FakeUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, users.NotFoundErr
}

func (r *FakeUserRepo) Delete(ctx context.Context, id int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.users, id)
	return nil
}
