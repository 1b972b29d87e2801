package clients

import (
	"context"
	"errors"
)

var (
	// NotFoundErr is returned by repo lookups when no client matches.
	NotFoundErr = errors.New("client not found")
	// DuplicateClientErr indicates a uniqueness constraint was violated on
	// insert: a (name, user) pair already registered, or a generated
	// client_id/client_secret collision.
	DuplicateClientErr = errors.New("duplicate client")
)

type Repo interface {
	Insert(ctx context.Context, client *Client) (*Client, error)
	GetByClientID(ctx context.Context, clientID string) (*Client, error)
	GetForUser(ctx context.Context, userID int64, clientID string) (*Client, error)
	ListForUser(ctx context.Context, userID int64) ([]*Client, error)
	DeleteForUser(ctx context.Context, userID int64, clientID string) (bool, error)
	ExistsByName(ctx context.Context, userID int64, name string) (bool, error)
}
