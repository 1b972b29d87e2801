package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	"github.com/widgetlabs/widget-api/token"
)

// TokenRepo implements token.Repo over the shared store.
type TokenRepo struct {
	store *Store
}

var _ token.Repo = (*TokenRepo)(nil)

func NewTokenRepo(store *Store) *TokenRepo {
	return &TokenRepo{store: store}
}

const tokenColumns = "id, access_token, refresh_token, access_expires_at, refresh_expires_at, revoked, client_id, user_id"

func (r *TokenRepo) Insert(ctx context.Context, t *token.Token) (*token.Token, error) {
	result, err := r.store.sqlDB.ExecContext(ctx, `
		INSERT INTO tokens (access_token, refresh_token, access_expires_at, refresh_expires_at, revoked, client_id, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		t.AccessToken,
		t.RefreshToken,
		toMillis(t.AccessExpiresAt),
		toMillis(t.RefreshExpiresAt),
		boolToInt(t.Revoked),
		t.ClientID,
		t.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert token id: %w", err)
	}

	stored := *t
	stored.ID = id
	stored.AccessExpiresAt = fromMillis(toMillis(t.AccessExpiresAt))
	stored.RefreshExpiresAt = fromMillis(toMillis(t.RefreshExpiresAt))
	return &stored, nil
}

func (r *TokenRepo) GetByAccessToken(ctx context.Context, accessToken string) (*token.Token, error) {
	row := r.store.sqlDB.QueryRowContext(ctx, `
		SELECT `+tokenColumns+`
		FROM tokens
		WHERE access_token = ?
	`, accessToken)
	return scanToken(row)
}

// ConsumeRefreshToken revokes the row holding this refresh value with a
// single conditional UPDATE, so concurrent refresh attempts on the same
// value have exactly one winner.
func (r *TokenRepo) ConsumeRefreshToken(ctx context.Context, refreshToken string) (*token.Token, error) {
	var consumed *token.Token
	err := r.store.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE tokens SET revoked = 1
			WHERE refresh_token = ? AND revoked = 0
		`, refreshToken)
		if err != nil {
			return fmt.Errorf("consume refresh token: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("consume refresh token rows affected: %w", err)
		}
		if affected == 0 {
			return token.NotFoundErr
		}

		row := tx.QueryRowContext(ctx, `
			SELECT `+tokenColumns+`
			FROM tokens
			WHERE refresh_token = ?
		`, refreshToken)
		consumed, err = scanToken(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return consumed, nil
}

func (r *TokenRepo) RevokeByAccessToken(ctx context.Context, accessToken string) error {
	result, err := r.store.sqlDB.ExecContext(ctx, `
		UPDATE tokens SET revoked = 1
		WHERE access_token = ?
	`, accessToken)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke token rows affected: %w", err)
	}
	if affected == 0 {
		return token.NotFoundErr
	}
	return nil
}

func scanToken(row rowScanner) (*token.Token, error) {
	var t token.Token
	var accessExpiresAt, refreshExpiresAt int64
	var revoked int
	var userID sql.NullInt64
	err := row.Scan(
		&t.ID,
		&t.AccessToken,
		&t.RefreshToken,
		&accessExpiresAt,
		&refreshExpiresAt,
		&revoked,
		&t.ClientID,
		&userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, token.NotFoundErr
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}
	t.AccessExpiresAt = fromMillis(accessExpiresAt)
	t.RefreshExpiresAt = fromMillis(refreshExpiresAt)
	t.Revoked = revoked == 1
	if userID.Valid {
		id := userID.Int64
		t.UserID = &id
	}
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
