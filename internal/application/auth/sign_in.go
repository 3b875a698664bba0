package auth

import (
	"context"
	"strings"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

type SignInInput struct {
	Email    string
	Password string
}

// SignIn authenticates an account that has credential material. Federated-only
// accounts have none and always fail here.
type SignIn struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher
	codec    ports.SessionCodec
	lockout  ports.LoginLockoutStore
}

func NewSignIn(accounts ports.AccountRepository, hasher ports.PasswordHasher, codec ports.SessionCodec, lockout ports.LoginLockoutStore) *SignIn {
	return &SignIn{accounts: accounts, hasher: hasher, codec: codec, lockout: lockout}
}

func (uc *SignIn) Execute(ctx context.Context, input SignInInput) (*SessionResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, domerrors.ErrInvalidRequest
	}
	if uc.lockout != nil {
		if locked, _ := uc.lockout.IsLocked(ctx, email); locked {
			return nil, domerrors.ErrAccountLocked
		}
	}
	account, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if account == nil || account.PasswordHash == "" || !uc.hasher.Verify(input.Password, account.PasswordHash) {
		if uc.lockout != nil {
			uc.lockout.RecordFailure(ctx, email)
		}
		return nil, domerrors.ErrInvalidCredentials
	}
	if uc.lockout != nil {
		uc.lockout.RecordSuccess(ctx, email)
	}
	return mintSession(uc.codec, account)
}
