package clients_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/widgetlabs/widget-api/clients"
	fakeclientrepo "github.com/widgetlabs/widget-api/clients/fakerepo"
)

const (
	clientIDBytes     = 16
	clientSecretBytes = 32
)

func newRegistry(t *testing.T) *clients.Registry {
	t.Helper()
	registry, err := clients.NewRegistry(fakeclientrepo.NewFakeClientRepo(), clientIDBytes, clientSecretBytes)
	require.NoError(t, err)
	return registry
}

func TestCreateGeneratesCredentials(t *testing.T) {
	registry := newRegistry(t)
	ctx := context.Background()

	client, err := registry.Create(ctx, clients.CreateProperties{}, 1)
	require.NoError(t, err)
	require.Equal(t, clients.DefaultName, client.Name)
	require.NotEmpty(t, client.ClientID)
	require.NotEmpty(t, client.ClientSecret)
	require.NotEqual(t, client.ClientID, client.ClientSecret)
	require.Equal(t, int64(1), client.UserID)
	require.NotZero(t, client.ID)
}

func TestCreateKeepsSuppliedCredentials(t *testing.T) {
	registry := newRegistry(t)
	ctx := context.Background()

	client, err := registry.Create(ctx, clients.CreateProperties{
		Name:         "CI",
		ClientID:     "supplied-id",
		ClientSecret: "supplied-secret",
	}, 1)
	require.NoError(t, err)
	require.Equal(t, "supplied-id", client.ClientID)
	require.Equal(t, "supplied-secret", client.ClientSecret)
}

func TestCreateDuplicateNameSameUserFails(t *testing.T) {
	registry := newRegistry(t)
	ctx := context.Background()

	_, err := registry.Create(ctx, clients.CreateProperties{Name: "CI"}, 1)
	require.NoError(t, err)

	_, err = registry.Create(ctx, clients.CreateProperties{Name: "CI"}, 1)
	require.ErrorIs(t, err, clients.DuplicateClientErr)
}

func TestCreateDuplicateNameDifferentUserSucceeds(t *testing.T) {
	registry := newRegistry(t)
	ctx := context.Background()

	_, err := registry.Create(ctx, clients.CreateProperties{Name: "CI"}, 1)
	require.NoError(t, err)

	_, err = registry.Create(ctx, clients.CreateProperties{Name: "CI"}, 2)
	require.NoError(t, err)
}

func TestGetForUserDoesNotLeakOtherOwners(t *testing.T) {
	registry := newRegistry(t)
	ctx := context.Background()

	client, err := registry.Create(ctx, clients.CreateProperties{}, 1)
	require.NoError(t, err)

	_, err = registry.GetForUser(ctx, 2, client.ClientID)
	require.ErrorIs(t, err, clients.NotFoundErr)

	found, err := registry.GetForUser(ctx, 1, client.ClientID)
	require.NoError(t, err)
	require.Equal(t, client.ClientID, found.ClientID)
}

func TestGetByClientIDIsGlobal(t *testing.T) {
	registry := newRegistry(t)
	ctx := context.Background()

	client, err := registry.Create(ctx, clients.CreateProperties{}, 7)
	require.NoError(t, err)

	found, err := registry.GetByClientID(ctx, client.ClientID)
	require.NoError(t, err)
	require.Equal(t, int64(7), found.UserID)
}

func TestListForUserStableOrder(t *testing.T) {
	registry := newRegistry(t)
	ctx := context.Background()

	first, err := registry.Create(ctx, clients.CreateProperties{Name: "A"}, 1)
	require.NoError(t, err)
	second, err := registry.Create(ctx, clients.CreateProperties{Name: "B"}, 1)
	require.NoError(t, err)
	_, err = registry.Create(ctx, clients.CreateProperties{Name: "C"}, 2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		listed, err := registry.ListForUser(ctx, 1)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		require.Equal(t, first.ClientID, listed[0].ClientID)
		require.Equal(t, second.ClientID, listed[1].ClientID)
	}
}

func TestDeleteForUser(t *testing.T) {
	registry := newRegistry(t)
	ctx := context.Background()

	client, err := registry.Create(ctx, clients.CreateProperties{}, 1)
	require.NoError(t, err)

	deleted, err := registry.DeleteForUser(ctx, 2, client.ClientID)
	require.NoError(t, err)
	require.False(t, deleted, "delete by non-owner must be a no-op")

	deleted, err = registry.DeleteForUser(ctx, 1, client.ClientID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = registry.DeleteForUser(ctx, 1, client.ClientID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestCompareSecret(t *testing.T) {
	client := &clients.Client{ClientSecret: "correct-secret"}
	require.True(t, client.CompareSecret("correct-secret"))
	require.False(t, client.CompareSecret("wrong-secret"))
	require.False(t, client.CompareSecret(""))
	require.False(t, client.CompareSecret("correct-secret-longer"))
}

// Statistical check that CompareSecret does not short-circuit on the first
// mismatched byte. Early and late mismatches should take comparable time.
func TestCompareSecretTimingIndependence(t *testing.T) {
	if testing.Short() {
		t.Skip("timing measurement")
	}

	secret := make([]byte, 4096)
	for i := range secret {
		secret[i] = 'a'
	}
	client := &clients.Client{ClientSecret: string(secret)}

	earlyMismatch := append([]byte{'z'}, secret[1:]...)
	lateMismatch := append(append([]byte{}, secret[:len(secret)-1]...), 'z')

	const rounds = 2000
	measure := func(candidate string) time.Duration {
		start := time.Now()
		for i := 0; i < rounds; i++ {
			client.CompareSecret(candidate)
		}
		return time.Since(start)
	}

	// Warm up to stabilize caches.
	measure(string(earlyMismatch))
	measure(string(lateMismatch))

	early := measure(string(earlyMismatch))
	late := measure(string(lateMismatch))

	ratio := float64(early) / float64(late)
	require.InDelta(t, 1.0, ratio, 0.5, "early mismatch %v vs late mismatch %v", early, late)
}
