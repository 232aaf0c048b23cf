package token

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator signs HS256 access tokens shaped like the ones the backend issues.
// It backs the in-memory backend and tests; the client itself never signs.
type Creator struct {
	signer Signer
	expiry time.Duration
}

// NewCreator creates a token creator.
func NewCreator(secret string, expiry time.Duration) *Creator {
	return NewCreatorWithSigner(NewHMACSigner(secret), expiry)
}

// NewCreatorWithSigner creates a token creator over an existing signer.
func NewCreatorWithSigner(signer Signer, expiry time.Duration) *Creator {
	return &Creator{signer: signer, expiry: expiry}
}

// CreateAccessToken issues a token with sub, role and id claims.
func (c *Creator) CreateAccessToken(username, role, id string) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"sub":  username,
		"role": role,
		"id":   id,
		"iat":  now.Unix(),
		"exp":  now.Add(c.expiry).Unix(),
		"jti":  uuid.New().String(),
		"type": "access",
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("[token CreateAccessToken] sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token signed by this creator.
func (c *Creator) Verify(rawToken string) (*Claims, error) {
	parsed, err := jwtlib.Parse(rawToken, c.signer.GetVerificationKey,
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("[token Verify] invalid token: %w", err)
	}
	return Decode(rawToken)
}
