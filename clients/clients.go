package clients

import (
	"crypto/subtle"
	"time"
)

// DefaultName is used when a client is registered without a display name.
const DefaultName = "Primary"

// Client is an application registered by a user to obtain tokens.
// client_id and client_secret are globally unique random tokens; the
// (name, user) pair is unique per owning user.
type Client struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	ClientID        string     `json:"client_id"`
	ClientSecret    string     `json:"client_secret,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	SecretExpiresAt *time.Time `json:"secret_expires_at,omitempty"`
	UserID          int64      `json:"user_id"`
}

// CompareSecret reports whether candidate matches the stored secret. The
// comparison is constant time, so a mismatch reveals nothing about where the
// secrets diverge.
func (c *Client) CompareSecret(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(c.ClientSecret), []byte(candidate)) == 1
}
