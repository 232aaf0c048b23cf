package router

import (
	"github.com/jrsteele09/wepark-client/cookies"
	"github.com/jrsteele09/wepark-client/sessions"
	"github.com/rs/zerolog/log"
)

// Decision is the outcome of a navigation check. When Allow is false,
// Redirect names the path to navigate to instead.
type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(path string) Decision { return Decision{Redirect: path} }

// Guard decides whether a navigation may proceed. It holds no state of its
// own: the only side effect is populating the session store from the token
// cookie when no role is known yet.
type Guard struct {
	routes   Table
	store    sessions.Store
	resolver *sessions.Resolver
	cookies  cookies.Source
}

// GuardOption defines a function type to modify the Guard instance.
type GuardOption func(*Guard)

// WithRoutes replaces the default route table.
func WithRoutes(routes []Route) GuardOption {
	return func(g *Guard) {
		g.routes = Flatten(routes)
	}
}

// WithResolver replaces the default token cookie resolver.
func WithResolver(r *sessions.Resolver) GuardOption {
	return func(g *Guard) {
		g.resolver = r
	}
}

// NewGuard creates a guard over store that resolves sessions from src.
func NewGuard(store sessions.Store, src cookies.Source, opts ...GuardOption) *Guard {
	g := &Guard{
		routes:   Flatten(DefaultRoutes()),
		store:    store,
		resolver: sessions.NewResolver(""),
		cookies:  src,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Routes returns the guard's flattened route table.
func (g *Guard) Routes() Table {
	return g.routes
}

// Evaluate runs the guard for a navigation to path.
func (g *Guard) Evaluate(path string) Decision {
	role := g.store.Get().Role
	if role == "" && g.cookies != nil {
		if s, ok := g.resolver.Resolve(g.cookies); ok {
			g.store.UpdateRole(s.Role)
			g.store.UpdateUsername(s.Username)
			g.store.UpdateID(s.ID)
			role = s.Role
		}
	}

	route, ok := g.routes.Match(path)
	if !ok || !route.Meta.RequireAuth {
		return allow()
	}

	if role == "" {
		log.Debug().Str("path", path).Msg("guard: unauthenticated, redirecting to login")
		return redirect(RouteLogin)
	}

	if route.Meta.Role != "" && route.Meta.Role != role {
		log.Debug().Str("path", path).Str("role", role).Msg("guard: role mismatch")
		return redirect(DashboardFor(role))
	}

	return allow()
}
