package secrets_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/widgetlabs/widget-api/internal/secrets"
)

func TestGenerateEntropyLength(t *testing.T) {
	token := secrets.Generate(32)
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	require.Len(t, decoded, 32)
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token := secrets.Generate(24)
		_, dup := seen[token]
		require.False(t, dup, "generated token repeated")
		seen[token] = struct{}{}
	}
}

func TestGenerateInvalidLengthPanics(t *testing.T) {
	require.Panics(t, func() { secrets.Generate(0) })
	require.Panics(t, func() { secrets.Generate(-1) })
}
