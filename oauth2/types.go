package oauth2

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// PasswordGrant exchanges resource-owner credentials for tokens.
	// Token request includes: username, password, client_id, client_secret
	// Returns: access_token and refresh_token bound to the user
	PasswordGrant GrantType = "password"

	// ClientCredentialsGrant allows machine-to-machine authentication.
	// Token request includes: client_id, client_secret
	// Returns: access_token and refresh_token bound to the client's owner
	ClientCredentialsGrant GrantType = "client_credentials"

	// RefreshTokenGrant exchanges a refresh token for a new token pair.
	// Token request includes: refresh_token
	// Returns: new access_token and a rotated refresh_token
	RefreshTokenGrant GrantType = "refresh_token"
)

// BearerTokenType is the token_type value returned for all issued tokens.
const BearerTokenType = "Bearer"
