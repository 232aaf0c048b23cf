package sessions

import (
	"github.com/jrsteele09/wepark-client/cookies"
	"github.com/jrsteele09/wepark-client/internal/config"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/token"
	"github.com/rs/zerolog/log"
)

// Resolver derives a session from the access token cookie.
type Resolver struct {
	cookieName string
}

// NewResolver creates a resolver reading cookieName. An empty name uses the
// backend's default cookie.
func NewResolver(cookieName string) *Resolver {
	if cookieName == "" {
		cookieName = config.DefaultAccessTokenCookie
	}
	return &Resolver{cookieName: cookieName}
}

// CookieName is the cookie the resolver reads.
func (r *Resolver) CookieName() string {
	return r.cookieName
}

// Resolve decodes the token cookie found in src. ok is false when the cookie
// is absent or the token cannot be decoded.
func (r *Resolver) Resolve(src cookies.Source) (Session, bool) {
	s, err := r.Lookup(src)
	if err != nil {
		log.Debug().Err(err).Str("cookie", r.cookieName).Msg("no session from token cookie")
		return Session{}, false
	}
	return s, true
}

// Lookup is Resolve with the reason for a miss: ErrNoToken when the cookie
// is absent or empty, ErrInvalidToken when it cannot be decoded.
func (r *Resolver) Lookup(src cookies.Source) (Session, error) {
	raw, ok := cookies.Get(src.String(), r.cookieName)
	if !ok || raw == "" {
		return Session{}, errors.ErrNoToken
	}

	claims, err := token.Decode(raw)
	if err != nil {
		return Session{}, err
	}
	return Session{Username: claims.Sub, Role: claims.Role, ID: claims.ID}, nil
}

// TokenChecker writes the session decoded from src into store and returns
// true. When there is no usable token it returns false and leaves store
// untouched.
func (r *Resolver) TokenChecker(store Writer, src cookies.Source) bool {
	s, ok := r.Resolve(src)
	if !ok {
		return false
	}
	store.UpdateRole(s.Role)
	store.UpdateUsername(s.Username)
	store.UpdateID(s.ID)
	return true
}

// TokenChecker runs the default resolver.
func TokenChecker(store Writer, src cookies.Source) bool {
	return NewResolver("").TokenChecker(store, src)
}
