// Package auth signs users in and out and answers identity questions from the
// session store.
package auth

import (
	"context"
	"net/http"

	"github.com/jrsteele09/wepark-client/apiclient"
	"github.com/jrsteele09/wepark-client/cookies"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/jrsteele09/wepark-client/router"
	"github.com/jrsteele09/wepark-client/sessions"
	"github.com/rs/zerolog/log"
)

const (
	loginEndpoint  = "login"
	signupEndpoint = "signup"
	logoutEndpoint = "logout"
)

// cookieRemover is implemented by cookie sources that can drop a cookie,
// such as cookies.Jar.
type cookieRemover interface {
	Remove(key string)
}

// Service wraps the auth endpoints and the session store.
type Service struct {
	utils.OpState

	api       apiclient.Caller
	store     sessions.Store
	resolver  *sessions.Resolver
	cookies   cookies.Source // Where the backend's token cookie lands, optional
	validator *Validator
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithCookieSource lets Login pick up the user id from the token cookie.
func WithCookieSource(src cookies.Source) ServiceOption {
	return func(s *Service) {
		s.cookies = src
	}
}

func WithResolver(r *sessions.Resolver) ServiceOption {
	return func(s *Service) {
		s.resolver = r
	}
}

// New creates an auth service over api that records identity in store.
func New(api apiclient.Caller, store sessions.Store, opts ...ServiceOption) *Service {
	s := &Service{
		api:       api,
		store:     store,
		resolver:  sessions.NewResolver(""),
		validator: NewValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewForClient wires the service to the client's own cookie jar.
func NewForClient(c *apiclient.Client, store sessions.Store, opts ...ServiceOption) *Service {
	return New(c, store, append([]ServiceOption{WithCookieSource(c.Cookies())}, opts...)...)
}

// Login authenticates and stores the returned role and username. When a
// cookie source is configured the token is decoded as well to fill in the
// user id.
func (s *Service) Login(ctx context.Context, c Credentials) (*LoginResult, error) {
	const fallback = "Login failed"

	done := s.Begin()
	defer done()

	if err := s.validator.ValidateCredentials(c); err != nil {
		return nil, s.Fail(err)
	}

	resp := s.api.Call(ctx, loginEndpoint, http.MethodPost, c)
	if err := resp.Err(fallback); err != nil {
		log.Info().Str("user", c.UserOrMail).Int("status", resp.Status).Msg("Login failed")
		return nil, s.Fail(err)
	}

	var result LoginResult
	if err := resp.Decode(&result); err != nil {
		return nil, s.Fail(errors.Wrapf(err, fallback))
	}

	s.store.UpdateRole(result.Role)
	s.store.UpdateUsername(result.Username)
	if s.cookies != nil {
		if session, ok := s.resolver.Resolve(s.cookies); ok {
			s.store.UpdateID(session.ID)
		}
	}
	return &result, nil
}

// Signup registers an account. The session is not changed.
func (s *Service) Signup(ctx context.Context, r SignupRequest) (string, error) {
	done := s.Begin()
	defer done()

	if err := s.validator.ValidateSignup(r); err != nil {
		return "", s.Fail(err)
	}

	resp := s.api.Call(ctx, signupEndpoint, http.MethodPost, r)
	if err := resp.Err("Signup failed"); err != nil {
		return "", s.Fail(err)
	}
	return resp.Message(""), nil
}

// Logout ends the session and returns the path to navigate to. The local
// session is cleared even when the backend call fails.
func (s *Service) Logout(ctx context.Context) (string, error) {
	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, logoutEndpoint, http.MethodPost, nil)

	s.store.Clear()
	if r, ok := s.cookies.(cookieRemover); ok {
		r.Remove(s.resolver.CookieName())
	}

	if err := resp.Err("Logout failed"); err != nil {
		log.Warn().Err(err).Msg("Logout request failed")
		return router.RouteHome, s.Fail(err)
	}
	return router.RouteHome, nil
}

func (s *Service) IsAuthenticated() bool {
	return s.store.Get().Username != ""
}

func (s *Service) CurrentUser() sessions.Session {
	return s.store.Get()
}

func (s *Service) HasRole(role string) bool {
	return s.store.Get().Role == role
}

func (s *Service) IsAdmin() bool {
	return s.HasRole(sessions.RoleAdmin)
}

func (s *Service) IsUser() bool {
	return s.HasRole(sessions.RoleUser)
}

// RequireAuth returns the login path when nobody is signed in.
func (s *Service) RequireAuth() (bool, string) {
	if !s.IsAuthenticated() {
		return false, router.RouteLogin
	}
	return true, ""
}

// RequireRole is RequireAuth plus a role check that sends mismatches home.
func (s *Service) RequireRole(role string) (bool, string) {
	if ok, redirect := s.RequireAuth(); !ok {
		return false, redirect
	}
	if !s.HasRole(role) {
		return false, router.RouteHome
	}
	return true, ""
}
