package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret is returned when the codec is built without a signing key.
	ErrMissingSecret = errors.New("jwt signing secret is not configured")
	// ErrExpiredToken is returned when the token's expiry has passed.
	ErrExpiredToken = errors.New("token has expired")
	// ErrMalformedToken is returned when the token cannot be decoded or its
	// signature does not verify.
	ErrMalformedToken = errors.New("invalid token")
)

// TokenLifetime is fixed; re-issuance is the login flow's concern.
const TokenLifetime = 24 * time.Hour

// Codec issues and verifies signed identity tokens.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec builds a codec around the process-wide signing secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// Issue signs a token for the subject, valid for TokenLifetime.
func (c *Codec) Issue(subject string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the subject. It does not
// re-check that the subject still exists.
func (c *Codec) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformedToken
		}
		return c.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrMalformedToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrMalformedToken
	}

	return claims.Subject, nil
}
