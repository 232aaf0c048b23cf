// Package cookies reads and removes named values from a cookie string of the
// form "a=1; b=2", the same shape a browser exposes as document.cookie and
// an HTTP client sends in its Cookie header.
package cookies

import (
	"net/http"
	"strings"
	"time"
)

const (
	pairSeparator  = "; "
	valueSeparator = "="
)

// Get returns the value of the first cookie named key. A value that itself
// contains "=" is returned intact. Values are not URL-decoded.
func Get(cookieString, key string) (string, bool) {
	if cookieString == "" {
		return "", false
	}
	for _, c := range strings.Split(cookieString, pairSeparator) {
		parts := strings.Split(c, valueSeparator)
		if parts[0] == key {
			return strings.Join(parts[1:], valueSeparator), true
		}
	}
	return "", false
}

// Remove returns cookieString without any cookie named key.
func Remove(cookieString, key string) string {
	if cookieString == "" {
		return ""
	}
	kept := make([]string, 0)
	for _, c := range strings.Split(cookieString, pairSeparator) {
		if strings.SplitN(c, valueSeparator, 2)[0] == key {
			continue
		}
		kept = append(kept, c)
	}
	return strings.Join(kept, pairSeparator)
}

// Expired builds a cookie that deletes key for path "/" when written.
func Expired(key string) *http.Cookie {
	return &http.Cookie{
		Name:    key,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0).UTC(),
		MaxAge:  -1,
	}
}

// FromRequest renders the cookie string the request was sent with.
func FromRequest(r *http.Request) string {
	return Join(r.Cookies())
}

// Join renders cookies as a cookie string.
func Join(cs []*http.Cookie) string {
	pairs := make([]string, 0, len(cs))
	for _, c := range cs {
		pairs = append(pairs, c.Name+valueSeparator+c.Value)
	}
	return strings.Join(pairs, pairSeparator)
}

// Source yields the current cookie string.
type Source interface {
	String() string
}

// String is a fixed cookie string.
type String string

func (s String) String() string {
	return string(s)
}
