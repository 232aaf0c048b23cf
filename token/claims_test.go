package token_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/token"
	"github.com/stretchr/testify/require"
)

func encodeSegment(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestDecode(t *testing.T) {
	t.Run("signed token", func(t *testing.T) {
		raw, err := token.NewCreator("secret", time.Hour).CreateAccessToken("alice", "user", "7")
		require.NoError(t, err)

		claims, err := token.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Sub)
		require.Equal(t, "user", claims.Role)
		require.Equal(t, "7", claims.ID)
		require.NotZero(t, claims.Exp)
	})

	t.Run("unsigned three segment token", func(t *testing.T) {
		raw := encodeSegment(`{"alg":"HS256","typ":"JWT"}`) + "." +
			encodeSegment(`{"sub":"bob","role":"admin","id":12}`) + ".not-a-signature"

		claims, err := token.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, "bob", claims.Sub)
		require.Equal(t, "admin", claims.Role)
		require.Equal(t, "12", claims.ID)
		require.Zero(t, claims.Exp)
		require.False(t, claims.Expired(time.Now()))
	})

	t.Run("expired token still decodes", func(t *testing.T) {
		raw := encodeSegment(`{"alg":"HS256"}`) + "." + encodeSegment(`{"sub":"c","exp":1}`) + ".sig"
		claims, err := token.Decode(raw)
		require.NoError(t, err)
		require.True(t, claims.Expired(time.Now()))
	})

	headers := map[string]string{
		"header without alg": `{"typ":"JWT"}`,
		"unknown alg":        `{"alg":"XYZ","typ":"JWT"}`,
		"header not json":    `not json`,
	}
	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			raw := encodeSegment(header) + "." + encodeSegment(`{"sub":"alice","role":"admin","id":3}`) + ".sig"
			claims, err := token.Decode(raw)
			require.NoError(t, err)
			require.Equal(t, "alice", claims.Sub)
			require.Equal(t, "admin", claims.Role)
			require.Equal(t, "3", claims.ID)
		})
	}

	malformed := map[string]string{
		"empty":          "",
		"one segment":    "abc",
		"two segments":   "abc.def",
		"four segments":  "a.b.c.d",
		"payload array":  encodeSegment(`{"alg":"HS256"}`) + "." + encodeSegment(`[1,2]`) + ".sig",
		"bad base64":     "###.$$$.sig",
		"payload not js": encodeSegment(`{"alg":"HS256"}`) + "." + encodeSegment("not json") + ".sig",
	}
	for name, raw := range malformed {
		t.Run(name, func(t *testing.T) {
			claims, err := token.Decode(raw)
			require.Nil(t, claims)
			require.Error(t, err)
			require.True(t, errors.Is(err, errors.ErrInvalidToken))
		})
	}
}

func TestCreator_Verify(t *testing.T) {
	c := token.NewCreator("secret", time.Hour)
	raw, err := c.CreateAccessToken("alice", "user", "1")
	require.NoError(t, err)

	claims, err := c.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Sub)

	_, err = token.NewCreator("other", time.Hour).Verify(raw)
	require.Error(t, err)
}

func TestHMACSigner(t *testing.T) {
	signer := token.NewHMACSigner("secret")
	require.Equal(t, "HS256", signer.GetSigningMethod().Alg())

	c := token.NewCreatorWithSigner(signer, time.Minute)
	raw, err := c.CreateAccessToken("bob", "admin", "2")
	require.NoError(t, err)

	claims, err := token.NewCreator("secret", time.Hour).Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)

	t.Run("unsigned token is rejected", func(t *testing.T) {
		unsigned := encodeSegment(`{"alg":"none","typ":"JWT"}`) + "." + encodeSegment(`{"sub":"bob","role":"admin"}`) + "."
		_, err := c.Verify(unsigned)
		require.Error(t, err)
	})
}
