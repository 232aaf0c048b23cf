package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/wepark-client/backendfake"
	"github.com/jrsteele09/wepark-client/internal/config"
	"github.com/jrsteele09/wepark-client/router"
	"github.com/jrsteele09/wepark-client/server"
	"github.com/jrsteele09/wepark-client/token"
	"github.com/stretchr/testify/require"
)

const (
	adminUser     = "admin"
	adminPassword = "admin123"
	driverUser    = "driver"
	driverPass    = "password123"
)

type testFixture struct {
	backend *backendfake.Backend
	server  *server.Server
	gateway *httptest.Server
	client  *http.Client
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	t.Setenv("ENV", "TEST")

	b := backendfake.New(backendfake.WithAdmin(adminUser, adminPassword))
	require.NoError(t, b.AddUser(driverUser, "driver@example.com", driverPass, "user"))
	b.CreateLot("Central", "1 Main Street", "560001", 20, 3)
	backend := httptest.NewServer(b)
	t.Cleanup(backend.Close)

	s, err := server.New(config.New("does-not-exist.env"), server.WithBackendURL(backend.URL))
	require.NoError(t, err)
	gateway := httptest.NewServer(s)
	t.Cleanup(gateway.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testFixture{backend: b, server: s, gateway: gateway, client: client}
}

func (f *testFixture) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.gateway.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var data map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&data)
	return resp, data
}

func (f *testFixture) login(t *testing.T, username, password string) {
	t.Helper()
	resp, data := f.do(t, http.MethodPost, "/api/login", map[string]string{"user_or_mail": username, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, data)
}

func (f *testFixture) setCookie(t *testing.T, c *http.Cookie) {
	t.Helper()
	u, err := url.Parse(f.gateway.URL)
	require.NoError(t, err)
	f.client.Jar.SetCookies(u, []*http.Cookie{c})
}

func TestNew_RequiresBackend(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	_, err := server.New(config.New("does-not-exist.env"))
	require.Error(t, err)
}

func TestGuard(t *testing.T) {
	t.Run("public pages", func(t *testing.T) {
		f := setupTestFixture(t)

		resp, data := f.do(t, http.MethodGet, router.RouteHome, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "WePark", data["app_name"])
		require.Nil(t, data["session"])

		resp, data = f.do(t, http.MethodGet, router.RouteLogin, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "Login", data["title"])
		require.Len(t, data["fields"], 2)
	})

	t.Run("protected pages redirect to login", func(t *testing.T) {
		f := setupTestFixture(t)

		for _, path := range []string{router.RouteDashboard, router.RouteAdminSummary, router.RouteNotification} {
			resp, _ := f.do(t, http.MethodGet, path, nil)
			require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
			require.Equal(t, router.RouteLogin, resp.Header.Get("Location"), path)
		}
	})

	t.Run("unreadable token is treated as signed out", func(t *testing.T) {
		f := setupTestFixture(t)
		f.setCookie(t, &http.Cookie{Name: config.DefaultAccessTokenCookie, Value: "not-a-token", Path: "/"})

		resp, _ := f.do(t, http.MethodGet, router.RouteAdminLot, nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, router.RouteLogin, resp.Header.Get("Location"))
	})

	t.Run("token rejected by the backend", func(t *testing.T) {
		f := setupTestFixture(t)
		raw, err := token.NewCreator("some-other-secret", time.Hour).CreateAccessToken(adminUser, "admin", "1")
		require.NoError(t, err)
		f.setCookie(t, &http.Cookie{Name: config.DefaultAccessTokenCookie, Value: raw, Path: "/"})

		resp, _ := f.do(t, http.MethodGet, router.RouteAdminSummary, nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, router.RouteLogin, resp.Header.Get("Location"))
	})

	t.Run("unknown path", func(t *testing.T) {
		f := setupTestFixture(t)

		resp, data := f.do(t, http.MethodGet, "/no/such/page", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.Equal(t, "Page not found", data["message"])
	})
}

func TestAdminPages(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t, adminUser, adminPassword)

	t.Run("dashboard lands on the admin summary", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodGet, router.RouteDashboard, nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, router.RouteAdminSummary, resp.Header.Get("Location"))
	})

	t.Run("summary", func(t *testing.T) {
		resp, data := f.do(t, http.MethodGet, router.RouteAdminSummary, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.EqualValues(t, 1, data["total_lots"])
		require.EqualValues(t, 3, data["total_spots"])
		require.EqualValues(t, 0, data["occupancy_rate"])
	})

	t.Run("lots with filters", func(t *testing.T) {
		resp, data := f.do(t, http.MethodGet, router.RouteAdminLot+"?pincode=560001", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, data["lots"], 1)

		_, data = f.do(t, http.MethodGet, router.RouteAdminLot+"?pincode=999999", nil)
		require.Len(t, data["lots"], 0)
	})

	t.Run("users", func(t *testing.T) {
		resp, data := f.do(t, http.MethodGet, router.RouteAdminUsers, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.EqualValues(t, 1, data["count"])
	})

	t.Run("user pages send an admin back to their dashboard", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodGet, router.RouteParkingHistory, nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, router.RouteAdminSummary, resp.Header.Get("Location"))
	})
}

func TestUserPages(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t, driverUser, driverPass)

	resp, data := f.do(t, http.MethodGet, router.RouteAvailableLots, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lotList := data["lots"].([]any)
	require.Len(t, lotList, 1)
	spots := lotList[0].(map[string]any)["spots"].([]any)
	spotID := spots[0].(map[string]any)["spot_id"]

	resp, data = f.do(t, http.MethodPost, "/api/spot", map[string]any{"spot_id": spotID})
	require.Equal(t, http.StatusOK, resp.StatusCode, data)

	t.Run("summary shows the active booking", func(t *testing.T) {
		resp, data := f.do(t, http.MethodGet, router.RouteUserSummary, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, data["active_reservations"], 1)
		require.EqualValues(t, 1, data["unread"])
	})

	t.Run("history", func(t *testing.T) {
		_, data := f.do(t, http.MethodGet, router.RouteParkingHistory, nil)
		rows := data["reservations"].([]any)
		require.Len(t, rows, 1)
		row := rows[0].(map[string]any)
		require.Equal(t, "active", row["status"])
		require.NotEmpty(t, row["label"])
		require.NotEmpty(t, row["cost_text"])
	})

	t.Run("notifications", func(t *testing.T) {
		_, data := f.do(t, http.MethodGet, router.RouteNotification, nil)
		rows := data["notifications"].([]any)
		require.Len(t, rows, 1)
		row := rows[0].(map[string]any)
		require.Equal(t, "Just now", row["when"])
		require.NotEmpty(t, row["icon"])
	})

	t.Run("search", func(t *testing.T) {
		_, data := f.do(t, http.MethodGet, router.RouteAvailableLots+"?q=central", nil)
		require.Len(t, data["lots"], 1)

		_, data = f.do(t, http.MethodGet, router.RouteAvailableLots+"?q=harbour", nil)
		require.Len(t, data["lots"], 0)
	})

	t.Run("admin pages are refused", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodGet, router.RouteAdminUsers, nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, router.RouteUserSummary, resp.Header.Get("Location"))
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodPost, "/api/logout", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = f.do(t, http.MethodGet, router.RouteUserSummary, nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, router.RouteLogin, resp.Header.Get("Location"))
	})
}

func TestProxy(t *testing.T) {
	t.Run("backend errors pass through", func(t *testing.T) {
		f := setupTestFixture(t)

		resp, data := f.do(t, http.MethodPost, "/api/login", map[string]string{"user_or_mail": driverUser, "password": "wrong-password"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Invalid credentials!", data["message"])
	})

	t.Run("backend down", func(t *testing.T) {
		backend := httptest.NewServer(http.NotFoundHandler())
		backend.Close()

		s, err := server.New(config.New("does-not-exist.env"), server.WithBackendURL(backend.URL))
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lot", nil))
		require.Equal(t, http.StatusBadGateway, rec.Code)
		require.Contains(t, rec.Body.String(), "Backend unavailable")
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("request id", func(t *testing.T) {
		f := setupTestFixture(t)

		resp, _ := f.do(t, http.MethodGet, server.RouteHealth, nil)
		require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		req := httptest.NewRequest(http.MethodGet, router.RouteLogin, nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		f.server.ServeHTTP(rec, req)
		require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		f := setupTestFixture(t)

		req := httptest.NewRequest(http.MethodOptions, "/api/lot", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		f.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("recover", func(t *testing.T) {
		f := setupTestFixture(t)
		f.server.RegisterRouteFunc("GET /boom", server.ChainMiddleware(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}, f.server.PageMiddleware()...))

		rec := httptest.NewRecorder()
		f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "Something went wrong!")
	})

	t.Run("routes listing", func(t *testing.T) {
		f := setupTestFixture(t)

		resp, data := f.do(t, http.MethodGet, server.RouteRoutes, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, data["routes"], router.RouteAdminLot)
	})
}
