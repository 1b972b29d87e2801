package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/widgetlabs/widget-api/auth"
	"github.com/widgetlabs/widget-api/clients"
	"github.com/widgetlabs/widget-api/internal/config"
	"github.com/widgetlabs/widget-api/sessions"
	"github.com/widgetlabs/widget-api/token"
	"github.com/widgetlabs/widget-api/users"
)

// Server is the route dispatcher. It wires the authentication backend and
// the domain managers in front of the HTTP handlers.
type Server struct {
	env            string
	mux            *http.ServeMux
	routes         []string
	config         *config.Config
	backend        *auth.Backend
	clientRegistry *clients.Registry
	tokenManager   *token.Manager
	sessionManager *sessions.Manager
	userRepo       users.Repo
}

// Repos holds the repository dependencies for the Server.
type Repos struct {
	Users    users.Repo
	Clients  clients.Repo
	Tokens   token.Repo
	Sessions sessions.Repo
}

func New(cfg *config.Config, repos Repos) (*Server, error) {
	clientRegistry, err := clients.NewRegistry(repos.Clients, cfg.ClientIDBytes, cfg.ClientSecretBytes)
	if err != nil {
		return nil, fmt.Errorf("[server.New] NewRegistry: %w", err)
	}

	tokenManager, err := token.New(
		repos.Tokens,
		clientRegistry,
		repos.Users,
		token.WithLifetimes(cfg.AccessTokenLifetime(), cfg.RefreshTokenLifetime()),
	)
	if err != nil {
		return nil, fmt.Errorf("[server.New] token.New: %w", err)
	}

	sessionManager, err := sessions.NewManager(repos.Sessions, cfg.SessionSecret, cfg.SessionLifetime())
	if err != nil {
		return nil, fmt.Errorf("[server.New] sessions.NewManager: %w", err)
	}

	backend, err := auth.NewBackend(sessionManager, repos.Users, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("[server.New] auth.NewBackend: %w", err)
	}

	s := &Server{
		env:            cfg.Env,
		mux:            http.NewServeMux(),
		config:         cfg,
		backend:        backend,
		clientRegistry: clientRegistry,
		tokenManager:   tokenManager,
		sessionManager: sessionManager,
		userRepo:       repos.Users,
	}
	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
