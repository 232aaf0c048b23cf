package server

import (
	"net/http"
	"sort"

	"github.com/jrsteele09/wepark-client/router"
)

func (s *Server) initRoutes() {
	handlers := s.pageHandlers()

	paths := s.table.Paths()
	sort.Strings(paths)
	for _, path := range paths {
		h, ok := handlers[path]
		if !ok {
			h = s.RouteInfoHandler()
		}
		pattern := path
		if path == router.RouteHome {
			pattern = "/{$}"
		}
		s.RegisterRouteFunc("GET "+pattern, ChainMiddleware(h, s.PageMiddleware(s.GuardMiddleware)...))
	}

	s.RegisterRouteFunc(RouteAPI, ChainMiddleware(s.proxy.ServeHTTP, s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteFunc("GET "+RouteRoutes, ChainMiddleware(s.RoutesHandler(), s.PageMiddleware()...))

	// Anything else still passes the guard so unknown paths behave the same
	// signed in or not.
	s.RegisterRouteFunc("/", ChainMiddleware(s.NotFoundHandler(), s.PageMiddleware(s.GuardMiddleware)...))
}

func (s *Server) pageHandlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		router.RouteHome:           s.IndexHandler(),
		router.RouteLogin:          s.LoginPageHandler(),
		router.RouteSignup:         s.SignupPageHandler(),
		router.RouteDashboard:      s.DashboardHandler(),
		router.RouteAdminSummary:   s.AdminSummaryHandler(),
		router.RouteAdminLot:       s.AdminLotsHandler(),
		router.RouteAdminUsers:     s.AdminUsersHandler(),
		router.RouteAdminPayment:   s.AdminPaymentsHandler(),
		router.RouteUserSummary:    s.UserSummaryHandler(),
		router.RouteAvailableLots:  s.AvailableLotsHandler(),
		router.RouteParkingHistory: s.ParkingHistoryHandler(),
		router.RouteNotification:   s.NotificationsHandler(),
	}
}
