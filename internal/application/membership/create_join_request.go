package membership

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

type CreateJoinRequestInput struct {
	ProjectID domain.ProjectID
	Message   string
}

// CreateJoinRequest files a pending request for the caller to join a project.
type CreateJoinRequest struct {
	projects ports.ProjectRepository
	requests ports.JoinRequestRepository
	notify   notifier
	now      func() time.Time
}

func NewCreateJoinRequest(projects ports.ProjectRepository, requests ports.JoinRequestRepository, accounts ports.AccountRepository, tasks ports.TaskEnqueuer) *CreateJoinRequest {
	return &CreateJoinRequest{
		projects: projects,
		requests: requests,
		notify:   notifier{accounts: accounts, tasks: tasks},
		now:      time.Now,
	}
}

func (uc *CreateJoinRequest) Execute(ctx context.Context, caller *domain.Identity, input CreateJoinRequestInput) (*domain.JoinRequest, error) {
	if caller == nil {
		return nil, domerrors.ErrUnauthenticated
	}
	project, err := uc.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if project == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	if project.HasMember(caller.AccountID) {
		return nil, domerrors.ErrAlreadyMember
	}
	pending, err := uc.requests.FindPending(ctx, project.ID, caller.AccountID)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if pending != nil {
		return nil, domerrors.ErrDuplicatePending
	}

	now := uc.now()
	req := &domain.JoinRequest{
		ID:        domain.NewJoinRequestID(uuid.New()),
		ProjectID: project.ID,
		UserID:    caller.AccountID,
		Message:   input.Message,
		Status:    domain.JoinRequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// The store's pending uniqueness catches a concurrent create that passed
	// the check above.
	if err := uc.requests.Create(ctx, req); err != nil {
		if errors.Is(err, domerrors.ErrDuplicatePending) {
			return nil, domerrors.ErrDuplicatePending
		}
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	uc.notify.created(ctx, req, project, caller.Username)
	return req, nil
}
