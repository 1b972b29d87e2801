package server

const (
	RouteToken        = "/token"
	RouteTokenRefresh = "/token-refresh"
	RouteUser         = "/user"
	RouteWidget       = "/widget"
	RouteAuth         = "/auth"
	RouteLogin        = "/login"
	RouteLogout       = "/logout"
	RouteApps         = "/apps"
	RouteAppsByID     = "/apps/{client_id}"
)
