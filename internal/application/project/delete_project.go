package project

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// DeleteProject removes a project, pulls it from every account's membership
// set and drops its join requests.
type DeleteProject struct {
	projects ports.ProjectRepository
	accounts ports.AccountRepository
	requests ports.JoinRequestRepository
}

func NewDeleteProject(projects ports.ProjectRepository, accounts ports.AccountRepository, requests ports.JoinRequestRepository) *DeleteProject {
	return &DeleteProject{projects: projects, accounts: accounts, requests: requests}
}

func (uc *DeleteProject) Execute(ctx context.Context, projectID domain.ProjectID) error {
	if _, err := requireProject(ctx, uc.projects, projectID); err != nil {
		return err
	}
	if err := uc.accounts.RemoveProjectFromAll(ctx, projectID); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if err := uc.requests.DeleteForProject(ctx, projectID); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if err := uc.projects.Delete(ctx, projectID); err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}
