package cookies

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// Jar exposes the cookies an http.CookieJar holds for one origin as a cookie
// string, so values set by the backend (e.g. on login) can be read back.
type Jar struct {
	jar    http.CookieJar
	origin *url.URL
}

var _ Source = (*Jar)(nil)

// NewJar creates a public-suffix aware jar scoped to origin.
func NewJar(origin *url.URL) (*Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &Jar{jar: jar, origin: origin}, nil
}

// CookieJar returns the underlying jar for use by an http.Client.
func (j *Jar) CookieJar() http.CookieJar {
	return j.jar
}

// Set stores cookies for the jar's origin.
func (j *Jar) Set(cs ...*http.Cookie) {
	j.jar.SetCookies(j.origin, cs)
}

func (j *Jar) String() string {
	return Join(j.jar.Cookies(j.origin))
}

func (j *Jar) Get(key string) (string, bool) {
	return Get(j.String(), key)
}

// Remove expires key in the jar.
func (j *Jar) Remove(key string) {
	j.jar.SetCookies(j.origin, []*http.Cookie{Expired(key)})
}
