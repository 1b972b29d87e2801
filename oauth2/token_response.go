package oauth2

// TokenResponse is the externally visible shape of an issued token pair, as
// defined in RFC 6749. It never carries client secrets or internal row ids.
type TokenResponse struct {
	// AccessToken is the opaque token used to access protected resources.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// RefreshToken is an opaque token used to obtain new access tokens.
	// Usage: Send to /token-refresh; rotates on each use.
	RefreshToken string `json:"refresh_token"`

	// TokenType indicates how to use the access token (always "Bearer").
	TokenType string `json:"token_type"`

	// ExpiresIn is the remaining lifetime of the access token in seconds.
	ExpiresIn int `json:"expires_in"`
}
