package router_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/wepark-client/cookies"
	"github.com/jrsteele09/wepark-client/router"
	"github.com/jrsteele09/wepark-client/sessions"
	"github.com/jrsteele09/wepark-client/token"
	"github.com/stretchr/testify/require"
)

func tokenCookie(t *testing.T, role string) cookies.String {
	t.Helper()
	raw, err := token.NewCreator("secret", time.Hour).CreateAccessToken("dana", role, "4")
	require.NoError(t, err)
	return cookies.String("access_token_cookie=" + raw)
}

func TestGuard_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		cookies  cookies.String
		role     string // pre-resolved role in the store
		path     string
		expected router.Decision
	}{
		{name: "public home", path: router.RouteHome, expected: router.Decision{Allow: true}},
		{name: "public login", path: router.RouteLogin, expected: router.Decision{Allow: true}},
		{name: "unknown path is public", path: "/nowhere", expected: router.Decision{Allow: true}},
		{name: "unauthenticated protected", path: router.RouteUserSummary, expected: router.Decision{Redirect: router.RouteLogin}},
		{name: "unauthenticated dashboard root", path: router.RouteDashboard, expected: router.Decision{Redirect: router.RouteLogin}},
		{name: "garbage token", cookies: "access_token_cookie=x.y", path: router.RouteAdminLot, expected: router.Decision{Redirect: router.RouteLogin}},
		{name: "user on admin route", role: sessions.RoleUser, path: router.RouteAdminSummary, expected: router.Decision{Redirect: router.RouteUserSummary}},
		{name: "admin on user route", role: sessions.RoleAdmin, path: router.RouteAvailableLots, expected: router.Decision{Redirect: router.RouteAdminSummary}},
		{name: "admin on admin route", role: sessions.RoleAdmin, path: router.RouteAdminLot, expected: router.Decision{Allow: true}},
		{name: "user on user route", role: sessions.RoleUser, path: router.RouteParkingHistory, expected: router.Decision{Allow: true}},
		{name: "any role on dashboard root", role: sessions.RoleUser, path: router.RouteDashboard, expected: router.Decision{Allow: true}},
		{name: "trailing slash and query", role: sessions.RoleUser, path: router.RouteNotification + "/?page=2", expected: router.Decision{Allow: true}},
		{name: "unknown role defaults to user dashboard", role: "auditor", path: router.RouteAdminUsers, expected: router.Decision{Redirect: router.RouteUserSummary}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := sessions.NewInMemoryStore()
			store.UpdateRole(tc.role)
			g := router.NewGuard(store, tc.cookies)
			require.Equal(t, tc.expected, g.Evaluate(tc.path))
		})
	}
}

func TestGuard_ResolvesFromCookie(t *testing.T) {
	t.Run("admin token admits admin route and populates store", func(t *testing.T) {
		store := sessions.NewInMemoryStore()
		g := router.NewGuard(store, tokenCookie(t, sessions.RoleAdmin))

		require.Equal(t, router.Decision{Allow: true}, g.Evaluate(router.RouteAdminSummary))
		require.Equal(t, sessions.Session{Username: "dana", Role: sessions.RoleAdmin, ID: "4"}, store.Get())
	})

	t.Run("user token redirected from admin route", func(t *testing.T) {
		store := sessions.NewInMemoryStore()
		g := router.NewGuard(store, tokenCookie(t, sessions.RoleUser))
		require.Equal(t, router.Decision{Redirect: router.RouteUserSummary}, g.Evaluate(router.RouteAdminPayment))
	})

	t.Run("store role takes precedence over cookie", func(t *testing.T) {
		store := sessions.NewInMemoryStore()
		store.UpdateRole(sessions.RoleUser)
		g := router.NewGuard(store, tokenCookie(t, sessions.RoleAdmin))

		require.Equal(t, router.Decision{Redirect: router.RouteUserSummary}, g.Evaluate(router.RouteAdminSummary))
		require.Empty(t, store.Get().Username)
	})

	t.Run("public navigation still resolves session", func(t *testing.T) {
		store := sessions.NewInMemoryStore()
		g := router.NewGuard(store, tokenCookie(t, sessions.RoleUser))
		require.True(t, g.Evaluate(router.RouteHome).Allow)
		require.Equal(t, sessions.RoleUser, store.Get().Role)
	})

	t.Run("idempotent", func(t *testing.T) {
		store := sessions.NewInMemoryStore()
		g := router.NewGuard(store, tokenCookie(t, sessions.RoleUser))
		first := g.Evaluate(router.RouteAdminLot)
		require.Equal(t, first, g.Evaluate(router.RouteAdminLot))
	})
}

func TestFlatten(t *testing.T) {
	table := router.Flatten(router.DefaultRoutes())
	require.Len(t, table, 12)

	r, ok := table.Match(router.RouteAdminUsers)
	require.True(t, ok)
	require.True(t, r.Meta.RequireAuth)
	require.Equal(t, sessions.RoleAdmin, r.Meta.Role)

	r, ok = table.Match(router.RouteSignup)
	require.True(t, ok)
	require.False(t, r.Meta.RequireAuth)

	require.Equal(t, router.RouteAdminSummary, router.DashboardFor(sessions.RoleAdmin))
	require.Equal(t, router.RouteUserSummary, router.DashboardFor(sessions.RoleUser))
}
