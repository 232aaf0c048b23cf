// Package token decodes the bearer token the backend places in the access
// token cookie. Decoding never verifies the signature: the claims are a
// display and routing convenience, and the backend re-validates the token on
// every API call.
package token

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/rs/zerolog/log"
)

// Claims is the subset of the token payload the client uses. Raw keeps every
// claim as decoded.
type Claims struct {
	Sub  string // Username
	Role string // "admin" or "user"
	ID   string // User ID, normalised to a string
	Exp  int64  // Expiry (unix seconds), zero when absent
	Raw  jwtlib.MapClaims
}

// Expired reports whether the exp claim is in the past relative to now.
// Tokens without exp never expire here.
func (c *Claims) Expired(now time.Time) bool {
	return c.Exp != 0 && now.Unix() > c.Exp
}

// Decode parses the payload segment of a three-part dot-separated token. The
// header and signature segments are not inspected.
// Any malformed input yields a nil Claims and an error wrapping ErrInvalidToken.
func Decode(rawToken string) (*Claims, error) {
	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 {
		return nil, invalid(fmt.Errorf("token has %d segments, want 3", len(parts)))
	}

	payload, err := jwtlib.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return nil, invalid(err)
	}

	claims := jwtlib.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, invalid(err)
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	exp, _ := claims["exp"].(float64)

	return &Claims{
		Sub:  sub,
		Role: role,
		ID:   utils.ToString(claims["id"]),
		Exp:  int64(exp),
		Raw:  claims,
	}, nil
}

func invalid(err error) error {
	log.Warn().Err(err).Msg("Failed to decode token")
	return errors.Wrapf(errors.ErrInvalidToken, "decode: %s", err.Error())
}
