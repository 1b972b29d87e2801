package token

import "errors"

var (
	// InvalidClientErr covers both an unknown client_id and a secret
	// mismatch. Callers must not be able to tell which.
	InvalidClientErr = errors.New("invalid client")
	// InvalidGrantErr covers bad user credentials and unknown, revoked,
	// expired or already-consumed refresh tokens.
	InvalidGrantErr = errors.New("invalid grant")
	// NotFoundErr is returned by repo lookups when no token matches.
	NotFoundErr = errors.New("token not found")
)
