package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/widgetlabs/widget-api/sessions"
)

func newManager(t *testing.T) *sessions.Manager {
	t.Helper()
	manager, err := sessions.NewManager(sessions.NewInMemoryRepo(), "test-secret", time.Hour)
	require.NoError(t, err)
	return manager
}

func TestStartAndResolve(t *testing.T) {
	manager := newManager(t)
	ctx := context.Background()

	session, cookie, err := manager.Start(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, cookie)

	resolved, err := manager.Resolve(ctx, cookie)
	require.NoError(t, err)
	require.Equal(t, session.ID, resolved.ID)
	require.Equal(t, int64(42), resolved.UserID)
}

func TestResolveTamperedCookie(t *testing.T) {
	manager := newManager(t)
	ctx := context.Background()

	_, cookie, err := manager.Start(ctx, 42)
	require.NoError(t, err)

	tampered := cookie[:len(cookie)-2] + "xx"
	_, err = manager.Resolve(ctx, tampered)
	require.ErrorIs(t, err, sessions.NotFoundErr)

	_, err = manager.Resolve(ctx, "not-a-jwt")
	require.ErrorIs(t, err, sessions.NotFoundErr)

	_, err = manager.Resolve(ctx, "")
	require.ErrorIs(t, err, sessions.NotFoundErr)
}

func TestResolveWrongSecret(t *testing.T) {
	ctx := context.Background()
	repo := sessions.NewInMemoryRepo()

	signer, err := sessions.NewManager(repo, "secret-one", time.Hour)
	require.NoError(t, err)
	verifier, err := sessions.NewManager(repo, "secret-two", time.Hour)
	require.NoError(t, err)

	_, cookie, err := signer.Start(ctx, 1)
	require.NoError(t, err)

	_, err = verifier.Resolve(ctx, cookie)
	require.ErrorIs(t, err, sessions.NotFoundErr)
}

func TestResolveExpiredSession(t *testing.T) {
	manager := newManager(t)
	ctx := context.Background()

	_, cookie, err := manager.Start(ctx, 42)
	require.NoError(t, err)

	sessions.NowTimeFunc = func() time.Time { return time.Now().Add(2 * time.Hour) }
	defer func() { sessions.NowTimeFunc = time.Now }()

	_, err = manager.Resolve(ctx, cookie)
	require.ErrorIs(t, err, sessions.NotFoundErr)
}

func TestEnd(t *testing.T) {
	manager := newManager(t)
	ctx := context.Background()

	_, cookie, err := manager.Start(ctx, 42)
	require.NoError(t, err)

	require.NoError(t, manager.End(ctx, cookie))
	_, err = manager.Resolve(ctx, cookie)
	require.ErrorIs(t, err, sessions.NotFoundErr)

	// Ending again, or ending garbage, is a no-op.
	require.NoError(t, manager.End(ctx, cookie))
	require.NoError(t, manager.End(ctx, "garbage"))
}
