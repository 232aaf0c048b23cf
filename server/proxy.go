package server

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/rs/zerolog/log"
)

// newProxy forwards /api/ requests to target unchanged, cookies included.
func (s *Server) newProxy(target *url.URL) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Host = target.Host
		},
		Transport: s.transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Err(err).
				Str("request_id", RequestID(r.Context())).
				Str("path", r.URL.Path).
				Msg("backend unreachable")
			writeError(w, http.StatusBadGateway, "Backend unavailable")
		},
	}
}
