package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/widgetlabs/widget-api/clients"
	"github.com/widgetlabs/widget-api/internal/storage/sqlite"
	"github.com/widgetlabs/widget-api/sessions"
	"github.com/widgetlabs/widget-api/token"
	"github.com/widgetlabs/widget-api/users"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createUser(t *testing.T, store *sqlite.Store, email string) *users.User {
	t.Helper()
	user, err := sqlite.NewUserRepo(store).Create(context.Background(), &users.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
	})
	require.NoError(t, err)
	return user
}

func createClient(t *testing.T, store *sqlite.Store, userID int64, name, clientID, secret string) *clients.Client {
	t.Helper()
	client, err := sqlite.NewClientRepo(store).Insert(context.Background(), &clients.Client{
		Name:         name,
		ClientID:     clientID,
		ClientSecret: secret,
		UserID:       userID,
	})
	require.NoError(t, err)
	return client
}

func TestClientUniqueConstraints(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	repo := sqlite.NewClientRepo(store)

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")
	createClient(t, store, alice.ID, "Primary", "client-a", "secret-a")

	t.Run("duplicate name same user", func(t *testing.T) {
		_, err := repo.Insert(ctx, &clients.Client{
			Name: "Primary", ClientID: "client-b", ClientSecret: "secret-b", UserID: alice.ID,
		})
		require.ErrorIs(t, err, clients.DuplicateClientErr)
	})

	t.Run("duplicate client_id", func(t *testing.T) {
		_, err := repo.Insert(ctx, &clients.Client{
			Name: "Other", ClientID: "client-a", ClientSecret: "secret-c", UserID: alice.ID,
		})
		require.ErrorIs(t, err, clients.DuplicateClientErr)
	})

	t.Run("duplicate secret", func(t *testing.T) {
		_, err := repo.Insert(ctx, &clients.Client{
			Name: "Other", ClientID: "client-d", ClientSecret: "secret-a", UserID: alice.ID,
		})
		require.ErrorIs(t, err, clients.DuplicateClientErr)
	})

	t.Run("same name different user", func(t *testing.T) {
		_, err := repo.Insert(ctx, &clients.Client{
			Name: "Primary", ClientID: "client-e", ClientSecret: "secret-e", UserID: bob.ID,
		})
		require.NoError(t, err)
	})
}

func TestClientOwnerScoping(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	repo := sqlite.NewClientRepo(store)

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")
	client := createClient(t, store, alice.ID, "Primary", "client-a", "secret-a")

	_, err := repo.GetForUser(ctx, bob.ID, client.ClientID)
	require.ErrorIs(t, err, clients.NotFoundErr)

	found, err := repo.GetByClientID(ctx, client.ClientID)
	require.NoError(t, err)
	require.Equal(t, alice.ID, found.UserID)

	deleted, err := repo.DeleteForUser(ctx, bob.ID, client.ClientID)
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = repo.DeleteForUser(ctx, alice.ID, client.ClientID)
	require.NoError(t, err)
	require.True(t, deleted)
}

func TestClientListStableOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	repo := sqlite.NewClientRepo(store)

	alice := createUser(t, store, "alice@example.com")
	createClient(t, store, alice.ID, "A", "client-a", "secret-a")
	createClient(t, store, alice.ID, "B", "client-b", "secret-b")
	createClient(t, store, alice.ID, "C", "client-c", "secret-c")

	listed, err := repo.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, "A", listed[0].Name)
	require.Equal(t, "B", listed[1].Name)
	require.Equal(t, "C", listed[2].Name)
}

func TestUserCascadeDeletesClientsAndTokens(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	client := createClient(t, store, alice.ID, "Primary", "client-a", "secret-a")

	tokenRepo := sqlite.NewTokenRepo(store)
	now := time.Now().UTC()
	issued, err := tokenRepo.Insert(ctx, &token.Token{
		AccessToken:      "access-1",
		RefreshToken:     "refresh-1",
		AccessExpiresAt:  now.Add(time.Hour),
		RefreshExpiresAt: now.Add(24 * time.Hour),
		ClientID:         client.ID,
		UserID:           &alice.ID,
	})
	require.NoError(t, err)

	require.NoError(t, sqlite.NewUserRepo(store).Delete(ctx, alice.ID))

	_, err = sqlite.NewClientRepo(store).GetByClientID(ctx, client.ClientID)
	require.ErrorIs(t, err, clients.NotFoundErr)

	_, err = tokenRepo.GetByAccessToken(ctx, issued.AccessToken)
	require.ErrorIs(t, err, token.NotFoundErr)
}

func TestTokenRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	client := createClient(t, store, alice.ID, "Primary", "client-a", "secret-a")

	repo := sqlite.NewTokenRepo(store)
	now := time.Now().UTC().Truncate(time.Millisecond)
	issued, err := repo.Insert(ctx, &token.Token{
		AccessToken:      "access-1",
		RefreshToken:     "refresh-1",
		AccessExpiresAt:  now.Add(time.Hour),
		RefreshExpiresAt: now.Add(24 * time.Hour),
		ClientID:         client.ID,
		UserID:           &alice.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, issued.ID)

	found, err := repo.GetByAccessToken(ctx, "access-1")
	require.NoError(t, err)
	require.Equal(t, issued.ID, found.ID)
	require.Equal(t, now.Add(time.Hour), found.AccessExpiresAt)
	require.False(t, found.Revoked)
	require.NotNil(t, found.UserID)
	require.Equal(t, alice.ID, *found.UserID)

	_, err = repo.GetByAccessToken(ctx, "missing")
	require.ErrorIs(t, err, token.NotFoundErr)
}

func TestRevokeByAccessToken(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	client := createClient(t, store, alice.ID, "Primary", "client-a", "secret-a")

	repo := sqlite.NewTokenRepo(store)
	now := time.Now().UTC()
	_, err := repo.Insert(ctx, &token.Token{
		AccessToken:      "access-1",
		RefreshToken:     "refresh-1",
		AccessExpiresAt:  now.Add(time.Hour),
		RefreshExpiresAt: now.Add(24 * time.Hour),
		ClientID:         client.ID,
	})
	require.NoError(t, err)

	require.NoError(t, repo.RevokeByAccessToken(ctx, "access-1"))
	found, err := repo.GetByAccessToken(ctx, "access-1")
	require.NoError(t, err)
	require.True(t, found.Revoked)

	require.ErrorIs(t, repo.RevokeByAccessToken(ctx, "missing"), token.NotFoundErr)
}

func TestConsumeRefreshToken(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	client := createClient(t, store, alice.ID, "Primary", "client-a", "secret-a")

	repo := sqlite.NewTokenRepo(store)
	now := time.Now().UTC()
	_, err := repo.Insert(ctx, &token.Token{
		AccessToken:      "access-1",
		RefreshToken:     "refresh-1",
		AccessExpiresAt:  now.Add(time.Hour),
		RefreshExpiresAt: now.Add(24 * time.Hour),
		ClientID:         client.ID,
	})
	require.NoError(t, err)

	consumed, err := repo.ConsumeRefreshToken(ctx, "refresh-1")
	require.NoError(t, err)
	require.True(t, consumed.Revoked)

	_, err = repo.ConsumeRefreshToken(ctx, "refresh-1")
	require.ErrorIs(t, err, token.NotFoundErr)

	_, err = repo.ConsumeRefreshToken(ctx, "never-issued")
	require.ErrorIs(t, err, token.NotFoundErr)
}

func TestConsumeRefreshTokenConcurrentSingleWinner(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	client := createClient(t, store, alice.ID, "Primary", "client-a", "secret-a")

	repo := sqlite.NewTokenRepo(store)
	now := time.Now().UTC()
	_, err := repo.Insert(ctx, &token.Token{
		AccessToken:      "access-1",
		RefreshToken:     "refresh-1",
		AccessExpiresAt:  now.Add(time.Hour),
		RefreshExpiresAt: now.Add(24 * time.Hour),
		ClientID:         client.ID,
	})
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	outcomes := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ConsumeRefreshToken(ctx, "refresh-1")
			outcomes <- err
		}()
	}
	wg.Wait()
	close(outcomes)

	var wins int
	for err := range outcomes {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, token.NotFoundErr)
		}
	}
	require.Equal(t, 1, wins)
}

func TestSessionRepo(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	repo := sqlite.NewSessionRepo(store)

	now := time.Now().UTC().Truncate(time.Millisecond)
	session := &sessions.Session{
		ID:        "session-1",
		UserID:    42,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, repo.Upsert(ctx, session))

	found, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, int64(42), found.UserID)
	require.Equal(t, now.Add(time.Hour), found.ExpiresAt)

	session.ExpiresAt = now.Add(2 * time.Hour)
	require.NoError(t, repo.Upsert(ctx, session))
	found, err = repo.Get(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, now.Add(2*time.Hour), found.ExpiresAt)

	require.NoError(t, repo.Delete(ctx, "session-1"))
	_, err = repo.Get(ctx, "session-1")
	require.ErrorIs(t, err, sessions.NotFoundErr)
}

func TestUserRepo(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	repo := sqlite.NewUserRepo(store)

	created, err := repo.Create(ctx, &users.User{Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, users.NotFoundErr)
}
