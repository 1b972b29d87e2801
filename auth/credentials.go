// Package auth resolves per-request identity into a scope set consumed by
// route authorization.
package auth

import (
	"github.com/widgetlabs/widget-api/token"
	"github.com/widgetlabs/widget-api/users"
)

// Scope tags granted by the authentication backend.
const (
	// ScopeAppAuth marks a browser session identity.
	ScopeAppAuth = "app_auth"
	// ScopeAPIAuth marks a bearer-token identity.
	ScopeAPIAuth = "api_auth"
)

// Credentials are the result of authenticating one request: the granted
// scopes plus the resolved user and/or token. They live for the duration of
// the request only.
type Credentials struct {
	Scopes []string
	User   *users.User  // Set for session identities
	Token  *token.Token // Set for bearer identities
}

// Anonymous credentials grant no scopes.
func Anonymous() *Credentials {
	return &Credentials{}
}

// HasScopes reports whether every required scope was granted.
func (c *Credentials) HasScopes(required ...string) bool {
	if c == nil {
		return len(required) == 0
	}
	for _, want := range required {
		found := false
		for _, granted := range c.Scopes {
			if granted == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
