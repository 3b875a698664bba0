package project

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// GetProject loads one project.
type GetProject struct {
	projects ports.ProjectRepository
}

func NewGetProject(projects ports.ProjectRepository) *GetProject {
	return &GetProject{projects: projects}
}

func (uc *GetProject) Execute(ctx context.Context, projectID domain.ProjectID) (*domain.Project, error) {
	return requireProject(ctx, uc.projects, projectID)
}

// ListMemberProjects returns the projects whose member set contains the caller.
type ListMemberProjects struct {
	projects ports.ProjectRepository
}

func NewListMemberProjects(projects ports.ProjectRepository) *ListMemberProjects {
	return &ListMemberProjects{projects: projects}
}

func (uc *ListMemberProjects) Execute(ctx context.Context, caller *domain.Identity) ([]*domain.Project, error) {
	if caller == nil {
		return nil, domerrors.ErrUnauthenticated
	}
	projects, err := uc.projects.ListForMember(ctx, caller.AccountID)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	return projects, nil
}
