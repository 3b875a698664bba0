package membership

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// PendingRequest pairs a pending request with its requester's public profile.
type PendingRequest struct {
	Request   *domain.JoinRequest
	Requester domain.AccountProfile
}

// ListJoinRequests returns a project's pending requests to its lead or an Admin.
type ListJoinRequests struct {
	projects ports.ProjectRepository
	requests ports.JoinRequestRepository
	accounts ports.AccountRepository
}

func NewListJoinRequests(projects ports.ProjectRepository, requests ports.JoinRequestRepository, accounts ports.AccountRepository) *ListJoinRequests {
	return &ListJoinRequests{projects: projects, requests: requests, accounts: accounts}
}

func (uc *ListJoinRequests) Execute(ctx context.Context, caller *domain.Identity, projectID domain.ProjectID) ([]PendingRequest, error) {
	if caller == nil {
		return nil, domerrors.ErrUnauthenticated
	}
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if project == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	if !caller.CanManage(project) {
		return nil, domerrors.ErrForbidden
	}
	pending, err := uc.requests.ListPending(ctx, projectID)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	out := make([]PendingRequest, 0, len(pending))
	for _, req := range pending {
		requester, err := uc.accounts.GetByID(ctx, req.UserID)
		if err != nil {
			return nil, domerrors.ErrStoreUnavailable.Wrap(err)
		}
		// Requester deleted since filing.
		if requester == nil {
			continue
		}
		out = append(out, PendingRequest{Request: req, Requester: requester.Profile()})
	}
	return out, nil
}
