package fakeclientrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/widgetlabs/widget-api/clients"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

// FakeClientRepo is an in-memory client repository for tests. It enforces the
// same uniqueness rules as the SQL store.
type FakeClientRepo struct {
	lock    sync.RWMutex
	nextID  int64
	clients map[int64]*clients.Client
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{clients: make(map[int64]*clients.Client)}
}

func (r *FakeClientRepo) Insert(ctx context.Context, client *clients.Client) (*clients.Client, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.clients {
		if existing.ClientID == client.ClientID || existing.ClientSecret == client.ClientSecret {
			return nil, clients.DuplicateClientErr
		}
		if existing.UserID == client.UserID && existing.Name == client.Name {
			return nil, clients.DuplicateClientErr
		}
	}
	r.nextID++
	stored := *client
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.clients[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *FakeClientRepo) GetByClientID(ctx context.Context, clientID string) (*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, client := range r.clients {
		if client.ClientID == clientID {
			copied := *client
			return &copied, nil
		}
	}
	return nil, clients.NotFoundErr
}

func (r *FakeClientRepo) GetForUser(ctx context.Context, userID int64, clientID string) (*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, client := range r.clients {
		if client.ClientID == clientID && client.UserID == userID {
			copied := *client
			return &copied, nil
		}
	}
	return nil, clients.NotFoundErr
}

func (r *FakeClientRepo) ListForUser(ctx context.Context, userID int64) ([]*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	owned := make([]*clients.Client, 0)
	for _, client := range r.clients {
		if client.UserID == userID {
			copied := *client
			owned = append(owned, &copied)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })
	return owned, nil
}

func (r *FakeClientRepo) DeleteForUser(ctx context.Context, userID int64, clientID string) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for id, client := range r.clients {
		if client.ClientID == clientID && client.UserID == userID {
			delete(r.clients, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeClientRepo) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, client := range r.clients {
		if client.UserID == userID && client.Name == name {
			return true, nil
		}
	}
	return false, nil
}
