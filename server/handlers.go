package server

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// Profile is the payload accepted by the user profile endpoint.
type Profile struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func (p Profile) validate() map[string]string {
	problems := map[string]string{}
	if nameLen := utf8.RuneCountInString(p.Name); nameLen < 2 || nameLen > 40 {
		problems["name"] = "must be between 2 and 40 characters"
	}
	if p.Age < 1 || p.Age > 149 {
		problems["age"] = "must be between 1 and 149"
	}
	return problems
}

// UserProfileHandler accepts a profile submission from a logged-in user.
// Validation runs before anything else touches the payload.
func (s *Server) UserProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var profile Profile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			writeJSONError(w, "invalid_request", "failed to parse JSON body", http.StatusUnprocessableEntity)
			return
		}
		if problems := profile.validate(); len(problems) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "validation_error",
				"details": problems,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"text": "it works"})
	}
}

// WidgetHandler is the bearer-protected sample resource.
func (s *Server) WidgetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"foo": "bar"})
	}
}

// AuthorizeHandler is a stub. The authorization-code flow is not implemented;
// requests are logged and turned away.
func (s *Server) AuthorizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().
			Str("client_id", r.URL.Query().Get("client_id")).
			Str("response_type", r.URL.Query().Get("response_type")).
			Msg("authorize endpoint called")
		writeJSONError(w, "unsupported_response_type", "authorization flow is not implemented", http.StatusNotImplemented)
	}
}
