package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/wepark-client/apiclient"
	"github.com/jrsteele09/wepark-client/auth"
	"github.com/jrsteele09/wepark-client/backendfake"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/sessions"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "driver"
	testEmail    = "driver@example.com"
	testPassword = "password123"
)

type testFixture struct {
	server  *httptest.Server
	client  *apiclient.Client
	store   *sessions.InMemoryStore
	service *auth.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	b := backendfake.New(backendfake.WithAdmin("admin", "admin123"))
	require.NoError(t, b.AddUser(testUser, testEmail, testPassword, "user"))
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	c, err := apiclient.New(srv.URL + "/api")
	require.NoError(t, err)
	store := sessions.NewInMemoryStore()

	return &testFixture{
		server:  srv,
		client:  c,
		store:   store,
		service: auth.NewForClient(c, store),
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("user by username", func(t *testing.T) {
		f := setupTestFixture(t)

		result, err := f.service.Login(ctx, auth.Credentials{UserOrMail: testUser, Password: testPassword})
		require.NoError(t, err)
		require.Equal(t, "user", result.Role)
		require.Equal(t, testUser, result.Username)

		require.True(t, f.service.IsAuthenticated())
		require.True(t, f.service.IsUser())
		require.False(t, f.service.IsAdmin())
		require.NotEmpty(t, f.service.CurrentUser().ID)
		require.False(t, f.service.Loading())
		require.NoError(t, f.service.Err())
	})

	t.Run("admin by email", func(t *testing.T) {
		f := setupTestFixture(t)

		_, err := f.service.Login(ctx, auth.Credentials{UserOrMail: "admin@wepark.local", Password: "admin123"})
		require.NoError(t, err)
		require.True(t, f.service.IsAdmin())
		require.True(t, f.service.HasRole(sessions.RoleAdmin))
	})

	t.Run("wrong password", func(t *testing.T) {
		f := setupTestFixture(t)

		_, err := f.service.Login(ctx, auth.Credentials{UserOrMail: testUser, Password: "wrong"})
		require.EqualError(t, err, "Invalid credentials!")
		require.True(t, errors.IsUnauthorized(err))
		require.Equal(t, err, f.service.Err())
		require.False(t, f.service.IsAuthenticated())
	})

	t.Run("empty form is not sent", func(t *testing.T) {
		f := setupTestFixture(t)

		_, err := f.service.Login(ctx, auth.Credentials{})
		require.ErrorIs(t, err, auth.MissingCredentialsErr)
	})

	t.Run("backend down", func(t *testing.T) {
		f := setupTestFixture(t)
		f.server.Close()

		_, err := f.service.Login(ctx, auth.Credentials{UserOrMail: testUser, Password: testPassword})
		var apiErr *errors.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusInternalServerError, apiErr.Status)
		require.True(t, errors.Is(err, errors.ErrRequestFailed))
		require.True(t, errors.Is(f.service.Err(), errors.ErrRequestFailed))
		require.False(t, f.service.IsAuthenticated())
	})
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	req := auth.SignupRequest{
		Email:           "new@example.com",
		Username:        "newbie",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		Address:         "1 Main St",
		Pincode:         "560001",
	}

	msg, err := f.service.Signup(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "User registered successfully!", msg)
	require.False(t, f.service.IsAuthenticated())

	_, err = f.service.Signup(ctx, req)
	require.EqualError(t, err, "User already exists!")

	req.ConfirmPassword = "different"
	_, err = f.service.Signup(ctx, req)
	require.ErrorIs(t, err, auth.UserPasswordsDontMatchErr)

	_, err = f.service.Login(ctx, auth.Credentials{UserOrMail: "newbie", Password: "longenough"})
	require.NoError(t, err)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)

	_, err := f.service.Login(ctx, auth.Credentials{UserOrMail: testUser, Password: testPassword})
	require.NoError(t, err)
	_, ok := f.client.Cookies().Get("access_token_cookie")
	require.True(t, ok)

	redirect, err := f.service.Logout(ctx)
	require.NoError(t, err)
	require.Equal(t, "/", redirect)
	require.False(t, f.service.IsAuthenticated())
	require.Equal(t, sessions.Session{}, f.service.CurrentUser())

	_, ok = f.client.Cookies().Get("access_token_cookie")
	require.False(t, ok)

	resp := f.client.Get(ctx, "lot")
	require.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestRequireAuthAndRole(t *testing.T) {
	store := sessions.NewInMemoryStore()
	svc := auth.New(nil, store)

	ok, redirect := svc.RequireAuth()
	require.False(t, ok)
	require.Equal(t, "/login", redirect)

	ok, redirect = svc.RequireRole(sessions.RoleAdmin)
	require.False(t, ok)
	require.Equal(t, "/login", redirect)

	store.Set(sessions.Session{Username: "driver", Role: sessions.RoleUser})

	ok, _ = svc.RequireAuth()
	require.True(t, ok)

	ok, redirect = svc.RequireRole(sessions.RoleAdmin)
	require.False(t, ok)
	require.Equal(t, "/", redirect)

	ok, redirect = svc.RequireRole(sessions.RoleUser)
	require.True(t, ok)
	require.Empty(t, redirect)
}
