package server

// Gateway-only routes. Page paths live in the router package.
const (
	RouteAPI    = "/api/"
	RouteHealth = "/healthz"
	RouteRoutes = "/routes"
)
