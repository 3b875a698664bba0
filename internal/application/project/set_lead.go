package project

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// SetLead assigns (or with a nil lead, clears) the project lead. The lead
// need not be a member.
type SetLead struct {
	projects ports.ProjectRepository
	accounts ports.AccountRepository
}

func NewSetLead(projects ports.ProjectRepository, accounts ports.AccountRepository) *SetLead {
	return &SetLead{projects: projects, accounts: accounts}
}

func (uc *SetLead) Execute(ctx context.Context, projectID domain.ProjectID, leadID *domain.AccountID) error {
	if _, err := requireProject(ctx, uc.projects, projectID); err != nil {
		return err
	}
	if leadID != nil {
		if err := requireAccount(ctx, uc.accounts, *leadID); err != nil {
			return err
		}
	}
	if err := uc.projects.SetLead(ctx, projectID, leadID); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}
