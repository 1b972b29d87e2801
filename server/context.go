package server

import (
	"context"

	"github.com/widgetlabs/widget-api/auth"
)

type contextKey string

const credentialsContextKey contextKey = "credentials"

func withCredentials(ctx context.Context, creds *auth.Credentials) context.Context {
	return context.WithValue(ctx, credentialsContextKey, creds)
}

// credentialsFromContext never returns nil; a request that skipped the auth
// middleware reads as anonymous.
func credentialsFromContext(ctx context.Context) *auth.Credentials {
	if creds, ok := ctx.Value(credentialsContextKey).(*auth.Credentials); ok && creds != nil {
		return creds
	}
	return auth.Anonymous()
}
