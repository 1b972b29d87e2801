package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/widgetlabs/widget-api/clients"
)

// ClientRepo implements clients.Repo over the shared store.
type ClientRepo struct {
	store *Store
}

var _ clients.Repo = (*ClientRepo)(nil)

func NewClientRepo(store *Store) *ClientRepo {
	return &ClientRepo{store: store}
}

const clientColumns = "id, name, client_id, client_secret, created_at, secret_expires_at, user_id"

func (r *ClientRepo) Insert(ctx context.Context, client *clients.Client) (*clients.Client, error) {
	createdAt := client.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var secretExpiresAt *int64
	if client.SecretExpiresAt != nil {
		millis := toMillis(*client.SecretExpiresAt)
		secretExpiresAt = &millis
	}

	result, err := r.store.sqlDB.ExecContext(ctx, `
		INSERT INTO oauth2_clients (name, client_id, client_secret, created_at, secret_expires_at, user_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, client.Name, client.ClientID, client.ClientSecret, toMillis(createdAt), secretExpiresAt, client.UserID)
	if err != nil {
		if isConstraintError(err) {
			return nil, clients.DuplicateClientErr
		}
		return nil, fmt.Errorf("insert client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert client id: %w", err)
	}

	stored := *client
	stored.ID = id
	stored.CreatedAt = fromMillis(toMillis(createdAt))
	return &stored, nil
}

func (r *ClientRepo) GetByClientID(ctx context.Context, clientID string) (*clients.Client, error) {
	row := r.store.sqlDB.QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM oauth2_clients
		WHERE client_id = ?
	`, clientID)
	return scanClient(row)
}

func (r *ClientRepo) GetForUser(ctx context.Context, userID int64, clientID string) (*clients.Client, error) {
	row := r.store.sqlDB.QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM oauth2_clients
		WHERE client_id = ? AND user_id = ?
	`, clientID, userID)
	return scanClient(row)
}

func (r *ClientRepo) ListForUser(ctx context.Context, userID int64) ([]*clients.Client, error) {
	rows, err := r.store.sqlDB.QueryContext(ctx, `
		SELECT `+clientColumns+`
		FROM oauth2_clients
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	listed := make([]*clients.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		listed = append(listed, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients rows: %w", err)
	}
	return listed, nil
}

func (r *ClientRepo) DeleteForUser(ctx context.Context, userID int64, clientID string) (bool, error) {
	result, err := r.store.sqlDB.ExecContext(ctx, `
		DELETE FROM oauth2_clients
		WHERE client_id = ? AND user_id = ?
	`, clientID, userID)
	if err != nil {
		return false, fmt.Errorf("delete client: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete client rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *ClientRepo) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	var exists int
	err := r.store.sqlDB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM oauth2_clients WHERE name = ? AND user_id = ?
		)
	`, name, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("client exists by name: %w", err)
	}
	return exists == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*clients.Client, error) {
	var client clients.Client
	var createdAt int64
	var secretExpiresAt sql.NullInt64
	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.ClientID,
		&client.ClientSecret,
		&createdAt,
		&secretExpiresAt,
		&client.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, clients.NotFoundErr
		}
		return nil, fmt.Errorf("scan client: %w", err)
	}
	client.CreatedAt = fromMillis(createdAt)
	if secretExpiresAt.Valid {
		expires := fromMillis(secretExpiresAt.Int64)
		client.SecretExpiresAt = &expires
	}
	return &client, nil
}
