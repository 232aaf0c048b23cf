package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/wepark-client/cookies"
	"github.com/jrsteele09/wepark-client/router"
	"github.com/jrsteele09/wepark-client/sessions"
	"github.com/rs/zerolog/log"
)

const ContextKeySession ContextKey = "session"

// GuardMiddleware runs the route guard for page requests. Each request gets
// its own session store seeded from the request's cookies, so nothing is
// shared between browsers.
func (s *Server) GuardMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := sessions.NewInMemoryStore()
		src := cookies.String(cookies.FromRequest(r))
		guard := router.NewGuard(store, src, router.WithRoutes(s.pages), router.WithResolver(s.resolver))

		decision := guard.Evaluate(r.URL.Path)
		if !decision.Allow {
			log.Debug().
				Str("request_id", RequestID(r.Context())).
				Str("path", r.URL.Path).
				Str("redirect", decision.Redirect).
				Msg("guard redirect")
			http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeySession, store.Get())
		next(w, r.WithContext(ctx))
	}
}

// SessionFromContext returns the session resolved by GuardMiddleware.
func SessionFromContext(ctx context.Context) sessions.Session {
	s, _ := ctx.Value(ContextKeySession).(sessions.Session)
	return s
}
