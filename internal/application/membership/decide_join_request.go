package membership

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

type DecideJoinRequestInput struct {
	RequestID domain.JoinRequestID
	Status    string
}

// DecideOptions tunes DecideJoinRequest.
type DecideOptions struct {
	// AllowRedecide lets an already decided request be decided again. Off by
	// default: a decided request is terminal.
	AllowRedecide bool
}

// DecideJoinRequest approves or rejects a join request. Approval adds the
// requester to the project's member set and the project to the requester's
// membership set as two separate idempotent writes; a failure between them is
// not rolled back, and repeating the approval (with AllowRedecide) repairs it.
type DecideJoinRequest struct {
	projects ports.ProjectRepository
	requests ports.JoinRequestRepository
	accounts ports.AccountRepository
	notify   notifier
	opts     DecideOptions
	now      func() time.Time
}

func NewDecideJoinRequest(projects ports.ProjectRepository, requests ports.JoinRequestRepository, accounts ports.AccountRepository, tasks ports.TaskEnqueuer, opts DecideOptions) *DecideJoinRequest {
	return &DecideJoinRequest{
		projects: projects,
		requests: requests,
		accounts: accounts,
		notify:   notifier{accounts: accounts, tasks: tasks},
		opts:     opts,
		now:      time.Now,
	}
}

func (uc *DecideJoinRequest) Execute(ctx context.Context, caller *domain.Identity, input DecideJoinRequestInput) (*domain.JoinRequest, error) {
	if caller == nil {
		return nil, domerrors.ErrUnauthenticated
	}
	req, err := uc.requests.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if req == nil {
		return nil, domerrors.ErrRequestNotFound
	}
	project, err := uc.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if project == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	if !caller.CanManage(project) {
		return nil, domerrors.ErrForbidden
	}
	status, ok := domain.ParseDecision(input.Status)
	if !ok {
		return nil, domerrors.ErrInvalidStatus
	}
	requester, err := uc.accounts.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if requester == nil {
		return nil, domerrors.ErrAccountNotFound
	}

	from := domain.JoinRequestPending
	if uc.opts.AllowRedecide {
		from = ""
	} else if !req.IsPending() {
		return nil, domerrors.ErrAlreadyDecided
	}
	updated, err := uc.requests.UpdateStatus(ctx, req.ID, from, status)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if !updated {
		// Lost a race with another decision, or the request was deleted.
		if uc.opts.AllowRedecide {
			return nil, domerrors.ErrRequestNotFound
		}
		return nil, domerrors.ErrAlreadyDecided
	}
	req.Status = status
	req.UpdatedAt = uc.now()

	if status == domain.JoinRequestApproved {
		if err := uc.projects.AddMember(ctx, project.ID, req.UserID); err != nil {
			return nil, domerrors.ErrStoreUnavailable.Wrap(err)
		}
		if err := uc.accounts.AddProject(ctx, req.UserID, project.ID); err != nil {
			return nil, domerrors.ErrStoreUnavailable.Wrap(err)
		}
	}
	uc.notify.decided(ctx, req, project)
	return req, nil
}
