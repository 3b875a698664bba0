package project

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// AssignMember adds an account to a project directly, bypassing join
// requests. Both set writes are idempotent.
type AssignMember struct {
	projects ports.ProjectRepository
	accounts ports.AccountRepository
}

func NewAssignMember(projects ports.ProjectRepository, accounts ports.AccountRepository) *AssignMember {
	return &AssignMember{projects: projects, accounts: accounts}
}

func (uc *AssignMember) Execute(ctx context.Context, projectID domain.ProjectID, accountID domain.AccountID) error {
	if _, err := requireProject(ctx, uc.projects, projectID); err != nil {
		return err
	}
	if err := requireAccount(ctx, uc.accounts, accountID); err != nil {
		return err
	}
	if err := uc.projects.AddMember(ctx, projectID, accountID); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if err := uc.accounts.AddProject(ctx, accountID, projectID); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}

// RemoveMember removes an account from a project. Allowed to the project
// lead and to Admins.
type RemoveMember struct {
	projects ports.ProjectRepository
	accounts ports.AccountRepository
}

func NewRemoveMember(projects ports.ProjectRepository, accounts ports.AccountRepository) *RemoveMember {
	return &RemoveMember{projects: projects, accounts: accounts}
}

func (uc *RemoveMember) Execute(ctx context.Context, caller *domain.Identity, projectID domain.ProjectID, accountID domain.AccountID) error {
	if caller == nil {
		return domerrors.ErrUnauthenticated
	}
	project, err := requireProject(ctx, uc.projects, projectID)
	if err != nil {
		return err
	}
	if !caller.CanManage(project) {
		return domerrors.ErrForbidden
	}
	if err := uc.projects.RemoveMember(ctx, projectID, accountID); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if err := uc.accounts.RemoveProject(ctx, accountID, projectID); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}
