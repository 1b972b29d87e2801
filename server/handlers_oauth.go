package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/widgetlabs/widget-api/oauth2"
	"github.com/widgetlabs/widget-api/token"
)

// TokenHandler exchanges client (and optionally user) credentials for a token
// pair. Parameters arrive as form data per the OAuth2 token endpoint shape.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, "invalid_request", "failed to parse form data", http.StatusBadRequest)
			return
		}

		created, err := s.tokenManager.Create(r.Context(), token.CreateParameters{
			GrantType:    oauth2.GrantType(r.FormValue("grant_type")),
			ClientID:     r.FormValue("client_id"),
			ClientSecret: r.FormValue("client_secret"),
			Username:     r.FormValue("username"),
			Password:     r.FormValue("password"),
		})
		if err != nil {
			writeTokenError(w, r, err)
			return
		}
		writeTokenResponse(w, s.tokenManager.ResponseData(created))
	}
}

// TokenRefreshHandler rotates a refresh token into a new token pair.
func (s *Server) TokenRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, "invalid_request", "failed to parse form data", http.StatusBadRequest)
			return
		}

		refreshed, err := s.tokenManager.Refresh(r.Context(), r.FormValue("refresh_token"))
		if err != nil {
			writeTokenError(w, r, err)
			return
		}
		writeTokenResponse(w, s.tokenManager.ResponseData(refreshed))
	}
}

func writeTokenError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, token.InvalidClientErr):
		writeJSONError(w, "invalid_client", "client authentication failed", http.StatusUnauthorized)
	case errors.Is(err, token.InvalidGrantErr):
		writeJSONError(w, "invalid_grant", "the provided grant is invalid", http.StatusBadRequest)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("token endpoint failed")
		writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
	}
}

func writeTokenResponse(w http.ResponseWriter, resp oauth2.TokenResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSONError writes an OAuth2-style error response
func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
