package ports

import (
	"time"

	"github.com/amirhosseinghanipour/iris/internal/domain"
)

// PasswordHasher hashes and verifies passwords (Argon2id).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// SessionClaims is the verified payload of a session token.
type SessionClaims struct {
	Subject   string
	Username  string
	Email     string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionCodec signs and verifies session tokens.
type SessionCodec interface {
	Issue(accountID, username, email string, role domain.Role) (string, error)
	// Verify returns domerrors.ErrInvalidToken for any bad, malformed or expired token.
	Verify(token string) (*SessionClaims, error)
}
