package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/widgetlabs/widget-api/users"
)

// UserRepo implements users.Repo over the shared store.
type UserRepo struct {
	store *Store
}

var _ users.Repo = (*UserRepo)(nil)

func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.store.sqlDB.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, created_at)
		VALUES (?, ?, ?)
	`, user.Email, user.PasswordHash, toMillis(createdAt))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user id: %w", err)
	}

	stored := *user
	stored.ID = id
	stored.CreatedAt = fromMillis(toMillis(createdAt))
	return &stored, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	row := r.store.sqlDB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE id = ?
	`, id)
	return scanUser(row)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	row := r.store.sqlDB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = ?
	`, email)
	return scanUser(row)
}

// Delete removes the user; owned clients and their tokens cascade.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.store.sqlDB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (*users.User, error) {
	var user users.User
	var createdAt int64
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.NotFoundErr
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)
	return &user, nil
}
