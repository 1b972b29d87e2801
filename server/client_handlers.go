package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/widgetlabs/widget-api/clients"
)

type createAppRequest struct {
	Name string `json:"name"`
}

// appView is the list/detail shape for registered clients. The secret is only
// returned once, from the create response.
type appView struct {
	Name      string `json:"name"`
	ClientID  string `json:"client_id"`
	CreatedAt string `json:"created_at"`
}

func toAppView(client *clients.Client) appView {
	return appView{
		Name:      client.Name,
		ClientID:  client.ClientID,
		CreatedAt: client.CreatedAt.Format(time.RFC3339),
	}
}

// AppsListHandler lists the caller's registered clients.
func (s *Server) AppsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds := credentialsFromContext(r.Context())

		listed, err := s.clientRegistry.ListForUser(r.Context(), creds.User.ID)
		if err != nil {
			log.Error().Err(err).Msg("list clients failed")
			writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
			return
		}

		views := make([]appView, 0, len(listed))
		for _, client := range listed {
			views = append(views, toAppView(client))
		}
		writeJSON(w, http.StatusOK, map[string]any{"apps": views})
	}
}

// AppsCreateHandler registers a new client for the caller. This is the only
// response that includes the client secret.
func (s *Server) AppsCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds := credentialsFromContext(r.Context())

		var req createAppRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "invalid_request", "failed to parse JSON body", http.StatusBadRequest)
			return
		}

		created, err := s.clientRegistry.Create(r.Context(), clients.CreateProperties{Name: req.Name}, creds.User.ID)
		if err != nil {
			if errors.Is(err, clients.DuplicateClientErr) {
				writeJSONError(w, "duplicate_client", "a client with this name already exists", http.StatusConflict)
				return
			}
			log.Error().Err(err).Msg("create client failed")
			writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"name":          created.Name,
			"client_id":     created.ClientID,
			"client_secret": created.ClientSecret,
		})
	}
}

// AppDeleteHandler removes one of the caller's clients. A client belonging to
// another user reads as not found.
func (s *Server) AppDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds := credentialsFromContext(r.Context())
		clientID := r.PathValue("client_id")

		deleted, err := s.clientRegistry.DeleteForUser(r.Context(), creds.User.ID, clientID)
		if err != nil {
			log.Error().Err(err).Msg("delete client failed")
			writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
			return
		}
		if !deleted {
			writeJSONError(w, "not_found", "no such client", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
