package auth

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// ResolveIdentity turns a bearer token into the caller's identity. Role and
// display fields come from the stored account, never from the token, so a
// role change takes effect on the next request.
type ResolveIdentity struct {
	codec    ports.SessionCodec
	accounts ports.AccountRepository
}

// NewResolveIdentity builds the use case.
func NewResolveIdentity(codec ports.SessionCodec, accounts ports.AccountRepository) *ResolveIdentity {
	return &ResolveIdentity{codec: codec, accounts: accounts}
}

// Execute verifies token and loads the account it names.
func (uc *ResolveIdentity) Execute(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domerrors.ErrMissingToken
	}
	claims, err := uc.codec.Verify(token)
	if err != nil {
		return nil, domerrors.ErrInvalidToken.Wrap(err)
	}
	id, err := domain.ParseAccountID(claims.Subject)
	if err != nil {
		return nil, domerrors.ErrMalformedSubject.Wrap(err)
	}
	account, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if account == nil {
		return nil, domerrors.ErrAccountGone
	}
	return domain.IdentityFromAccount(account), nil
}
