package account

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// DeleteAccount removes an account after pulling it from every project's
// member set, clearing the projects it leads and dropping its join requests.
type DeleteAccount struct {
	accounts ports.AccountRepository
	projects ports.ProjectRepository
	requests ports.JoinRequestRepository
}

func NewDeleteAccount(accounts ports.AccountRepository, projects ports.ProjectRepository, requests ports.JoinRequestRepository) *DeleteAccount {
	return &DeleteAccount{accounts: accounts, projects: projects, requests: requests}
}

func (uc *DeleteAccount) Execute(ctx context.Context, id domain.AccountID) error {
	a, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if a == nil {
		return domerrors.ErrAccountNotFound
	}
	if err := uc.requests.DeleteForUser(ctx, id); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if err := uc.projects.RemoveMemberFromAll(ctx, id); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if err := uc.projects.ClearLead(ctx, id); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if err := uc.accounts.Delete(ctx, id); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}
