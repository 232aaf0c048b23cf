package sessions_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/wepark-client/cookies"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/sessions"
	"github.com/jrsteele09/wepark-client/token"
	"github.com/stretchr/testify/require"
)

func accessToken(t *testing.T, username, role, id string) string {
	t.Helper()
	raw, err := token.NewCreator("secret", time.Hour).CreateAccessToken(username, role, id)
	require.NoError(t, err)
	return raw
}

func TestTokenChecker(t *testing.T) {
	t.Run("no cookie", func(t *testing.T) {
		store := sessions.NewInMemoryStore()
		store.Set(sessions.Session{Username: "kept", Role: sessions.RoleUser})

		require.False(t, sessions.TokenChecker(store, cookies.String("theme=dark")))
		require.Equal(t, "kept", store.Get().Username)
	})

	t.Run("undecodable token", func(t *testing.T) {
		store := sessions.NewInMemoryStore()
		require.False(t, sessions.TokenChecker(store, cookies.String("access_token_cookie=garbage")))
		require.False(t, store.Get().Resolved())
	})

	t.Run("valid token", func(t *testing.T) {
		store := sessions.NewInMemoryStore()
		src := cookies.String("theme=dark; access_token_cookie=" + accessToken(t, "alice", sessions.RoleAdmin, "3"))

		require.True(t, sessions.TokenChecker(store, src))
		require.Equal(t, sessions.Session{Username: "alice", Role: sessions.RoleAdmin, ID: "3"}, store.Get())
	})

	t.Run("custom cookie name", func(t *testing.T) {
		store := sessions.NewInMemoryStore()
		r := sessions.NewResolver("jwt")
		require.Equal(t, "jwt", r.CookieName())
		require.True(t, r.TokenChecker(store, cookies.String("jwt="+accessToken(t, "bob", sessions.RoleUser, "9"))))
		require.Equal(t, "bob", store.Get().Username)
	})
}

func TestInMemoryStore(t *testing.T) {
	store := sessions.NewInMemoryStore()
	require.False(t, store.Get().Resolved())

	store.UpdateRole(sessions.RoleUser)
	store.UpdateUsername("carol")
	store.UpdateID("5")
	require.Equal(t, sessions.Session{Username: "carol", Role: sessions.RoleUser, ID: "5"}, store.Get())

	store.Clear()
	require.Equal(t, sessions.Session{}, store.Get())
}

func TestLookup(t *testing.T) {
	r := sessions.NewResolver("")

	_, err := r.Lookup(cookies.String("theme=dark"))
	require.ErrorIs(t, err, errors.ErrNoToken)

	_, err = r.Lookup(cookies.String("access_token_cookie="))
	require.ErrorIs(t, err, errors.ErrNoToken)

	_, err = r.Lookup(cookies.String("access_token_cookie=garbage"))
	require.ErrorIs(t, err, errors.ErrInvalidToken)

	s, err := r.Lookup(cookies.String("access_token_cookie=" + accessToken(t, "bob", sessions.RoleUser, "8")))
	require.NoError(t, err)
	require.Equal(t, "bob", s.Username)
}
