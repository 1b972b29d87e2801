package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/widgetlabs/widget-api/sessions"
	"github.com/widgetlabs/widget-api/users"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler verifies email+password and opens a cookie session.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "invalid_request", "failed to parse JSON body", http.StatusBadRequest)
			return
		}

		user, err := s.userRepo.GetByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, users.NotFoundErr) {
				writeJSONError(w, "invalid_credentials", "email or password is incorrect", http.StatusUnauthorized)
				return
			}
			log.Error().Err(err).Msg("login lookup failed")
			writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
			return
		}
		if !users.CheckPasswordHash(req.Password, user.PasswordHash) {
			writeJSONError(w, "invalid_credentials", "email or password is incorrect", http.StatusUnauthorized)
			return
		}

		session, cookieValue, err := s.sessionManager.Start(r.Context(), user.ID)
		if err != nil {
			log.Error().Err(err).Msg("session start failed")
			writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessions.CookieName,
			Value:    cookieValue,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, map[string]string{"text": "logged in"})
	}
}

// LogoutHandler ends the cookie session. Logging out without one is a no-op.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessions.CookieName); err == nil {
			if err := s.sessionManager.End(r.Context(), cookie.Value); err != nil {
				log.Error().Err(err).Msg("session end failed")
				writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
				return
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessions.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, map[string]string{"text": "logged out"})
	}
}
