package ports

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/domain"
)

// Store adapters report a missing row as (nil, nil) from lookups. Any other
// failure is wrapped as domerrors.ErrStoreUnavailable. Add/remove operations on
// id sets are atomic per record and idempotent; no operation spans records.

// AccountRepository persists accounts.
type AccountRepository interface {
	// Create inserts a new account; returns domerrors.ErrEmailTaken on a
	// uniqueness violation of the email.
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id domain.AccountID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateRole(ctx context.Context, id domain.AccountID, role domain.Role) error
	AddProject(ctx context.Context, id domain.AccountID, projectID domain.ProjectID) error
	RemoveProject(ctx context.Context, id domain.AccountID, projectID domain.ProjectID) error
	// RemoveProjectFromAll pulls projectID from every account's membership set.
	RemoveProjectFromAll(ctx context.Context, projectID domain.ProjectID) error
	Delete(ctx context.Context, id domain.AccountID) error
	Count(ctx context.Context) (int64, error)
}

// ProjectRepository persists projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error)
	ListForMember(ctx context.Context, accountID domain.AccountID) ([]*domain.Project, error)
	SetLead(ctx context.Context, id domain.ProjectID, leadID *domain.AccountID) error
	AddMember(ctx context.Context, id domain.ProjectID, accountID domain.AccountID) error
	RemoveMember(ctx context.Context, id domain.ProjectID, accountID domain.AccountID) error
	// RemoveMemberFromAll pulls accountID from every project's member set.
	RemoveMemberFromAll(ctx context.Context, accountID domain.AccountID) error
	// ClearLead unsets lead_id on every project led by accountID.
	ClearLead(ctx context.Context, accountID domain.AccountID) error
	Delete(ctx context.Context, id domain.ProjectID) error
}

// JoinRequestRepository persists join requests.
type JoinRequestRepository interface {
	// Create inserts a pending request; returns domerrors.ErrDuplicatePending
	// when the store already holds a pending request for the pair.
	Create(ctx context.Context, req *domain.JoinRequest) error
	GetByID(ctx context.Context, id domain.JoinRequestID) (*domain.JoinRequest, error)
	FindPending(ctx context.Context, projectID domain.ProjectID, userID domain.AccountID) (*domain.JoinRequest, error)
	ListPending(ctx context.Context, projectID domain.ProjectID) ([]*domain.JoinRequest, error)
	// UpdateStatus sets status and updated_at. When from is non-empty the write
	// only applies if the current status equals from, and ok reports whether it did.
	UpdateStatus(ctx context.Context, id domain.JoinRequestID, from, to domain.JoinRequestStatus) (ok bool, err error)
	DeleteForProject(ctx context.Context, projectID domain.ProjectID) error
	DeleteForUser(ctx context.Context, userID domain.AccountID) error
}
