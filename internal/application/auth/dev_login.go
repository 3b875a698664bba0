package auth

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// DevLogin mints a session for an existing account without any credential.
// Only routed in development.
type DevLogin struct {
	accounts ports.AccountRepository
	codec    ports.SessionCodec
}

func NewDevLogin(accounts ports.AccountRepository, codec ports.SessionCodec) *DevLogin {
	return &DevLogin{accounts: accounts, codec: codec}
}

func (uc *DevLogin) Execute(ctx context.Context, accountID string) (*SessionResult, error) {
	id, err := domain.ParseAccountID(accountID)
	if err != nil {
		return nil, domerrors.ErrInvalidID
	}
	account, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if account == nil {
		return nil, domerrors.ErrAccountNotFound
	}
	return mintSession(uc.codec, account)
}
