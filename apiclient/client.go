// Package apiclient is the single HTTP chokepoint between the client and the
// parking REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/jrsteele09/wepark-client/cookies"
	"github.com/rs/zerolog/log"
)

var bodyMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch}

// Caller is what feature services need from the API client.
type Caller interface {
	Call(ctx context.Context, endpoint, method string, data any) Response
}

var _ Caller = (*Client)(nil)

// Client issues JSON requests to {baseURL}/{endpoint} with cookies included.
type Client struct {
	baseURL    string
	httpClient *http.Client
	jar        *cookies.Jar
	forward    []*http.Cookie
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Jar is overwritten
// by the client's own jar.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero leaves the transport defaults.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithCookies forwards cookies on every request, e.g. the cookies of an
// incoming browser request handled by the gateway.
func WithCookies(cs []*http.Cookie) ClientOption {
	return func(c *Client) {
		c.forward = cs
	}
}

// New creates a Client. baseURL is the API root, e.g. "http://localhost:5000/api".
func New(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookies.NewJar(&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"})
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		jar:        jar,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Jar = jar.CookieJar()
	c.jar.Set(c.forward...)
	return c, nil
}

// Cookies exposes the client's cookie jar.
func (c *Client) Cookies() *cookies.Jar {
	return c.jar
}

// Call performs the request and never returns an error: transport failures
// are reported as a 500 Response carrying an {error} body.
func (c *Client) Call(ctx context.Context, endpoint, method string, data any) Response {
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if data != nil && slices.Contains(bodyMethods, method) {
		payload, err := json.Marshal(data)
		if err != nil {
			return failure(method, endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(endpoint, "/"), body)
	if err != nil {
		return failure(method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(method, endpoint, err)
	}

	resData, nonJSON := normalise(resp.Header.Get("Content-Type"), raw)
	return Response{
		OK:      resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:  resp.StatusCode,
		Data:    resData,
		nonJSON: nonJSON,
	}
}

func (c *Client) Get(ctx context.Context, endpoint string) Response {
	return c.Call(ctx, endpoint, http.MethodGet, nil)
}

func (c *Client) Post(ctx context.Context, endpoint string, data any) Response {
	return c.Call(ctx, endpoint, http.MethodPost, data)
}

func (c *Client) Put(ctx context.Context, endpoint string, data any) Response {
	return c.Call(ctx, endpoint, http.MethodPut, data)
}

func (c *Client) Delete(ctx context.Context, endpoint string) Response {
	return c.Call(ctx, endpoint, http.MethodDelete, nil)
}

// WithQuery appends non-empty query values to endpoint.
func WithQuery(endpoint string, params url.Values) string {
	for k, vs := range params {
		if len(vs) == 0 || vs[0] == "" {
			params.Del(k)
		}
	}
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

// normalise keeps a JSON body as is and wraps anything else. The bool
// reports whether the body was wrapped.
func normalise(contentType string, raw []byte) (json.RawMessage, bool) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/json" && json.Valid(raw) {
		return raw, false
	}
	return wrapBody(messageBody{Message: nonJSONMessage, Raw: string(raw)}), true
}

func failure(method, endpoint string, err error) Response {
	log.Err(err).Str("method", method).Str("endpoint", endpoint).Msg("API call failed")
	msg := err.Error()
	if msg == "" {
		msg = fallbackMessage
	}
	return Response{
		OK:           false,
		Status:       http.StatusInternalServerError,
		Data:         wrapBody(messageBody{Error: msg}),
		transportErr: err,
	}
}
