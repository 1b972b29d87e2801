package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/widgetlabs/widget-api/auth"
)

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// APIMiddleware is the standard chain for JSON endpoints. Authentication runs
// on every request; extra middleware (scope gates) runs after it.
func (s *Server) APIMiddleware(mw ...func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	chainedMiddleWare := []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.AuthMiddleware,
	}
	chainedMiddleWare = append(chainedMiddleWare, mw...)
	return chainedMiddleWare
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.env != "DEV" {
			next(w, r)
			return
		}
		logRoute(r.Method, r.URL.Path)
		next(w, r)
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

// AuthMiddleware resolves the request's credentials and stores them in the
// request context. A present-but-invalid bearer token is rejected here with
// 403 invalid_token, it never reaches the handler as anonymous.
func (s *Server) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := s.backend.Authenticate(r)
		if err != nil {
			if errors.Is(err, auth.InvalidTokenErr) {
				writeJSONError(w, "invalid_token", "bearer token is invalid", http.StatusForbidden)
				return
			}
			log.Error().Err(err).Str("path", r.URL.Path).Msg("authentication failed")
			writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
			return
		}
		next(w, r.WithContext(withCredentials(r.Context(), creds)))
	}
}

// RequireScopes short-circuits with status unless every listed scope was
// granted. It assumes AuthMiddleware already ran.
func RequireScopes(status int, scopes ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			creds := credentialsFromContext(r.Context())
			if !creds.HasScopes(scopes...) {
				writeJSONError(w, "access_denied", "insufficient scope", status)
				return
			}
			next(w, r)
		}
	}
}
