// Package router holds the client route table and the navigation guard.
package router

import (
	"strings"

	"github.com/jrsteele09/wepark-client/sessions"
)

// Route path constants
const (
	RouteHome   = "/"
	RouteLogin  = "/login"
	RouteSignup = "/signup"

	RouteDashboard = "/dashboard"

	// Admin routes
	RouteAdminSummary = "/dashboard/admin-summary"
	RouteAdminLot     = "/dashboard/lot"
	RouteAdminUsers   = "/dashboard/users"
	RouteAdminPayment = "/dashboard/payment"

	// User routes
	RouteUserSummary    = "/dashboard/user-summary"
	RouteAvailableLots  = "/dashboard/available_lots"
	RouteParkingHistory = "/dashboard/parking-history"
	RouteNotification   = "/dashboard/notification"
)

// Meta carries the guard requirements of a route.
type Meta struct {
	RequireAuth bool
	Role        string // Required role, "" for any authenticated role
}

// Route is a node of the route table. Child paths are relative to the parent.
type Route struct {
	Path     string
	Name     string
	Meta     Meta
	Children []Route
}

// Table is a flattened route table keyed by absolute path.
type Table map[string]Route

func PublicRoutes() []Route {
	return []Route{
		{Path: RouteHome, Name: "home"},
		{Path: RouteLogin, Name: "login"},
		{Path: RouteSignup, Name: "signup"},
	}
}

func AdminRoutes() []Route {
	admin := Meta{RequireAuth: true, Role: sessions.RoleAdmin}
	return []Route{
		{Path: "admin-summary", Name: "admin-summary", Meta: admin},
		{Path: "lot", Name: "lot", Meta: admin},
		{Path: "users", Name: "users", Meta: admin},
		{Path: "payment", Name: "payment", Meta: admin},
	}
}

func UserRoutes() []Route {
	user := Meta{RequireAuth: true, Role: sessions.RoleUser}
	return []Route{
		{Path: "user-summary", Name: "user-summary", Meta: user},
		{Path: "available_lots", Name: "available-lots", Meta: user},
		{Path: "parking-history", Name: "parking-history", Meta: user},
		{Path: "notification", Name: "notification", Meta: user},
	}
}

// DefaultRoutes is the application's route tree.
func DefaultRoutes() []Route {
	return append(PublicRoutes(), Route{
		Path:     RouteDashboard,
		Name:     "dashboard",
		Meta:     Meta{RequireAuth: true},
		Children: append(AdminRoutes(), UserRoutes()...),
	})
}

// Flatten resolves child paths against their parents. A child inherits
// RequireAuth from its parent and keeps its own Role.
func Flatten(routes []Route) Table {
	t := Table{}
	flatten(t, "", Meta{}, routes)
	return t
}

func flatten(t Table, prefix string, parent Meta, routes []Route) {
	for _, r := range routes {
		path := joinPath(prefix, r.Path)
		meta := r.Meta
		meta.RequireAuth = meta.RequireAuth || parent.RequireAuth
		if meta.Role == "" {
			meta.Role = parent.Role
		}
		t[path] = Route{Path: path, Name: r.Name, Meta: meta}
		flatten(t, path, meta, r.Children)
	}
}

func joinPath(prefix, p string) string {
	if strings.HasPrefix(p, "/") || prefix == "" {
		return p
	}
	return strings.TrimRight(prefix, "/") + "/" + p
}

// Match returns the route for path, ignoring a trailing slash and query.
func (t Table) Match(path string) (Route, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	r, ok := t[path]
	return r, ok
}

// Paths lists every absolute path in the table.
func (t Table) Paths() []string {
	paths := make([]string, 0, len(t))
	for p := range t {
		paths = append(paths, p)
	}
	return paths
}

// DashboardFor is the landing page for role.
func DashboardFor(role string) string {
	if role == sessions.RoleAdmin {
		return RouteAdminSummary
	}
	return RouteUserSummary
}
