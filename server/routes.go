package server

import (
	"net/http"

	"github.com/widgetlabs/widget-api/auth"
)

func (s *Server) initRoutes() {
	// OAuth2 token endpoints
	s.RegisterRouteHandler("POST "+RouteToken, ChainMiddleware(s.TokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTokenRefresh, ChainMiddleware(s.TokenRefreshHandler(), s.APIMiddleware()...))

	// Session login/logout
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Session-scoped routes
	s.RegisterRouteHandler("POST "+RouteUser, ChainMiddleware(s.UserProfileHandler(),
		s.APIMiddleware(RequireScopes(http.StatusForbidden, auth.ScopeAppAuth))...))
	s.RegisterRouteHandler("GET "+RouteApps, ChainMiddleware(s.AppsListHandler(),
		s.APIMiddleware(RequireScopes(http.StatusForbidden, auth.ScopeAppAuth))...))
	s.RegisterRouteHandler("POST "+RouteApps, ChainMiddleware(s.AppsCreateHandler(),
		s.APIMiddleware(RequireScopes(http.StatusForbidden, auth.ScopeAppAuth))...))
	s.RegisterRouteHandler("DELETE "+RouteAppsByID, ChainMiddleware(s.AppDeleteHandler(),
		s.APIMiddleware(RequireScopes(http.StatusForbidden, auth.ScopeAppAuth))...))

	// Bearer-scoped routes
	s.RegisterRouteHandler("GET "+RouteWidget, ChainMiddleware(s.WidgetHandler(),
		s.APIMiddleware(RequireScopes(http.StatusForbidden, auth.ScopeAPIAuth))...))

	// Authorization-code flow is not implemented
	s.RegisterRouteHandler("GET "+RouteAuth, ChainMiddleware(s.AuthorizeHandler(), s.APIMiddleware()...))
}
