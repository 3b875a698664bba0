package account

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// UpdateRole changes an account's role. Sessions already issued pick the new
// role up on their next request.
type UpdateRole struct {
	accounts ports.AccountRepository
}

func NewUpdateRole(accounts ports.AccountRepository) *UpdateRole {
	return &UpdateRole{accounts: accounts}
}

func (uc *UpdateRole) Execute(ctx context.Context, id domain.AccountID, role string) error {
	if role != string(domain.RoleAdmin) && role != string(domain.RoleMember) {
		return domerrors.ErrInvalidRequest
	}
	a, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if a == nil {
		return domerrors.ErrAccountNotFound
	}
	if err := uc.accounts.UpdateRole(ctx, id, domain.Role(role)); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}
