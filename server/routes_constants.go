package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteLanding   = "/"
	RouteDashboard = "/dashboard"

	// Auth Routes
	RouteLogin    = "/auth/login"
	RouteStart    = "/auth/start"
	RouteCallback = "/auth/callback"
	RouteLogout   = "/auth/logout"

	// Static Asset Routes
	RouteStaticPrefix = "/static/"
)
