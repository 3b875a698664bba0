package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// CreateProjectInput describes a new project. Status takes the request forms
// ("active", "completed", "onhold"); anything else is Active.
type CreateProjectInput struct {
	Name        string
	Description string
	Status      string
	GithubLink  string
	LeadID      *domain.AccountID
}

// CreateProject creates a project with an empty member set.
type CreateProject struct {
	projects ports.ProjectRepository
	accounts ports.AccountRepository
	now      func() time.Time
}

// NewCreateProject builds the use case.
func NewCreateProject(projects ports.ProjectRepository, accounts ports.AccountRepository) *CreateProject {
	return &CreateProject{projects: projects, accounts: accounts, now: time.Now}
}

// Execute creates the project on behalf of caller.
func (uc *CreateProject) Execute(ctx context.Context, caller *domain.Identity, input CreateProjectInput) (*domain.Project, error) {
	if caller == nil {
		return nil, domerrors.ErrUnauthenticated
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domerrors.ErrInvalidRequest
	}
	if input.LeadID != nil {
		if err := requireAccount(ctx, uc.accounts, *input.LeadID); err != nil {
			return nil, err
		}
	}
	now := uc.now()
	project := &domain.Project{
		ID:          domain.NewProjectID(uuid.New()),
		Name:        name,
		Description: input.Description,
		Status:      domain.ParseProjectStatus(input.Status),
		LeadID:      input.LeadID,
		MemberIDs:   []domain.AccountID{},
		GithubLink:  input.GithubLink,
		CreatedBy:   caller.AccountID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.projects.Create(ctx, project); err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	return project, nil
}

func requireAccount(ctx context.Context, accounts ports.AccountRepository, id domain.AccountID) error {
	a, err := accounts.GetByID(ctx, id)
	if err != nil {
		return domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if a == nil {
		return domerrors.ErrAccountNotFound
	}
	return nil
}

func requireProject(ctx context.Context, projects ports.ProjectRepository, id domain.ProjectID) (*domain.Project, error) {
	p, err := projects.GetByID(ctx, id)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if p == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	return p, nil
}
