package token

import (
	"time"
)

// Token is an issued access/refresh credential pair. Tokens are opaque random
// strings; validity is decided by the stored record, never by the string itself.
type Token struct {
	ID               int64
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	Revoked          bool
	ClientID         int64  // Row id of the owning oauth2 client
	UserID           *int64 // Resource owner, nil for pure client grants
}

// Status is the outcome of validating a token. Expired and Revoked both deny
// access; the distinction exists for diagnostics only.
type Status int

const (
	StatusValid Status = iota
	StatusExpired
	StatusRevoked
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	case StatusRevoked:
		return "revoked"
	}
	return "unknown"
}
