package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// DefaultSessionTTL is how long a session token stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionCodec implements ports.SessionCodec with HS256.
type SessionCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Option configures a SessionCodec.
type Option func(*SessionCodec)

// WithClock replaces time.Now; used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *SessionCodec) { c.now = now }
}

// WithTTL overrides DefaultSessionTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *SessionCodec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func NewSessionCodec(secret []byte, issuer string, opts ...Option) (*SessionCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("session signing secret is empty")
	}
	c := &SessionCodec{
		secret: secret,
		issuer: issuer,
		ttl:    DefaultSessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *SessionCodec) Issue(accountID, username, email string, role domain.Role) (string, error) {
	now := c.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Username: username,
		Email:    email,
		Role:     string(role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify rejects bad signatures, other algorithms, malformed payloads and any
// token whose exp is at or before now. There is no leeway.
func (c *SessionCodec) Verify(tokenString string) (*ports.SessionClaims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, parserOpts...)
	if err != nil {
		return nil, domerrors.ErrInvalidToken.Wrap(err)
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, domerrors.ErrInvalidToken
	}
	out := &ports.SessionClaims{
		Subject:  claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     domain.ParseRole(claims.Role),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

var _ ports.SessionCodec = (*SessionCodec)(nil)
