// Package server is the gateway in front of the parking backend. It serves
// the page routes behind the route guard as JSON view-models and proxies
// /api/ to the backend.
package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/wepark-client/apiclient"
	"github.com/jrsteele09/wepark-client/internal/config"
	"github.com/jrsteele09/wepark-client/router"
	"github.com/jrsteele09/wepark-client/sessions"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	pages    []router.Route
	table    router.Table
	resolver *sessions.Resolver
	proxy    http.Handler

	backendURL string
	apiBaseURL string
	transport  http.RoundTripper
	nowTime    func() time.Time
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// WithBackendURL overrides the configured backend origin.
func WithBackendURL(u string) ServerOption {
	return func(s *Server) {
		s.backendURL = strings.TrimRight(u, "/")
	}
}

// WithTransport sets the transport used to reach the backend.
func WithTransport(rt http.RoundTripper) ServerOption {
	return func(s *Server) {
		s.transport = rt
	}
}

// WithPages replaces the guarded route tree.
func WithPages(routes []router.Route) ServerOption {
	return func(s *Server) {
		s.pages = routes
	}
}

func New(c config.Config, opts ...ServerOption) (*Server, error) {
	s := &Server{
		env:        c.GetEnv(),
		mux:        http.NewServeMux(),
		config:     c,
		pages:      router.DefaultRoutes(),
		resolver:   sessions.NewResolver(c.GetAccessTokenCookie()),
		backendURL: c.GetBackendURL(),
		nowTime:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.backendURL == "" {
		return nil, fmt.Errorf("[Server New] no backend URL configured")
	}
	target, err := url.Parse(s.backendURL)
	if err != nil {
		return nil, fmt.Errorf("[Server New] invalid backend URL %q: %w", s.backendURL, err)
	}
	s.apiBaseURL = s.backendURL + "/" + strings.Trim(c.GetAPIBasePath(), "/")
	s.table = router.Flatten(s.pages)
	s.proxy = s.newProxy(target)

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

// apiClient builds a backend client that carries the caller's cookies.
func (s *Server) apiClient(r *http.Request) (*apiclient.Client, error) {
	opts := []apiclient.ClientOption{
		apiclient.WithCookies(r.Cookies()),
		apiclient.WithTimeout(s.config.GetRequestTimeout()),
	}
	if s.transport != nil {
		opts = append(opts, apiclient.WithHTTPClient(&http.Client{Transport: s.transport}))
	}
	return apiclient.New(s.apiBaseURL, opts...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
