package users

import (
	"context"
	"errors"
)

// NotFoundErr is returned by repo lookups when no user matches.
var NotFoundErr = errors.New("user not found")

type Repo interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Delete(ctx context.Context, id int64) error
}
