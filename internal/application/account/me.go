package account

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// Me returns the caller's own public profile.
type Me struct {
	accounts ports.AccountRepository
}

func NewMe(accounts ports.AccountRepository) *Me {
	return &Me{accounts: accounts}
}

func (uc *Me) Execute(ctx context.Context, caller *domain.Identity) (*domain.AccountProfile, error) {
	if caller == nil {
		return nil, domerrors.ErrUnauthenticated
	}
	a, err := uc.accounts.GetByID(ctx, caller.AccountID)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if a == nil {
		return nil, domerrors.ErrAccountGone
	}
	p := a.Profile()
	return &p, nil
}
