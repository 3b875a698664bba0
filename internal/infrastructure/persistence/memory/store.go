// Package memory is an in-process implementation of the store ports. It gives
// the same per-record atomicity the Postgres adapter gives (one mutex guards
// every record) and is used for development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// Store holds accounts, projects and join requests.
type Store struct {
	mu       sync.RWMutex
	accounts map[domain.AccountID]*domain.Account
	projects map[domain.ProjectID]*domain.Project
	requests map[domain.JoinRequestID]*domain.JoinRequest
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[domain.AccountID]*domain.Account),
		projects: make(map[domain.ProjectID]*domain.Project),
		requests: make(map[domain.JoinRequestID]*domain.JoinRequest),
		now:      time.Now,
	}
}

// Accounts returns the store as a ports.AccountRepository.
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{s: s} }

// Projects returns the store as a ports.ProjectRepository.
func (s *Store) Projects() *ProjectRepository { return &ProjectRepository{s: s} }

// JoinRequests returns the store as a ports.JoinRequestRepository.
func (s *Store) JoinRequests() *JoinRequestRepository { return &JoinRequestRepository{s: s} }

type AccountRepository struct{ s *Store }

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return domerrors.ErrEmailTaken
		}
	}
	r.s.accounts[a.ID] = copyAccount(a)
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return copyAccount(a), nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.accounts {
		if strings.EqualFold(a.Email, email) {
			return copyAccount(a), nil
		}
	}
	return nil, nil
}

func (r *AccountRepository) UpdateRole(ctx context.Context, id domain.AccountID, role domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.accounts[id]; ok {
		a.Role = role
		a.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *AccountRepository) AddProject(ctx context.Context, id domain.AccountID, projectID domain.ProjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.accounts[id]; ok && !a.InProject(projectID) {
		a.ProjectIDs = append(a.ProjectIDs, projectID)
		a.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *AccountRepository) RemoveProject(ctx context.Context, id domain.AccountID, projectID domain.ProjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.accounts[id]; ok {
		a.ProjectIDs = pullProject(a.ProjectIDs, projectID)
		a.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *AccountRepository) RemoveProjectFromAll(ctx context.Context, projectID domain.ProjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		a.ProjectIDs = pullProject(a.ProjectIDs, projectID)
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id domain.AccountID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.accounts, id)
	return nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.accounts)), nil
}

type ProjectRepository struct{ s *Store }

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.projects[p.ID] = copyProject(p)
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	return copyProject(p), nil
}

func (r *ProjectRepository) ListForMember(ctx context.Context, accountID domain.AccountID) ([]*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Project
	for _, p := range r.s.projects {
		if p.HasMember(accountID) {
			out = append(out, copyProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ProjectRepository) SetLead(ctx context.Context, id domain.ProjectID, leadID *domain.AccountID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.projects[id]; ok {
		if leadID == nil {
			p.LeadID = nil
		} else {
			l := *leadID
			p.LeadID = &l
		}
		p.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *ProjectRepository) AddMember(ctx context.Context, id domain.ProjectID, accountID domain.AccountID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.projects[id]; ok && !p.HasMember(accountID) {
		p.MemberIDs = append(p.MemberIDs, accountID)
		p.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, id domain.ProjectID, accountID domain.AccountID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.projects[id]; ok {
		p.MemberIDs = pullAccount(p.MemberIDs, accountID)
		p.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *ProjectRepository) RemoveMemberFromAll(ctx context.Context, accountID domain.AccountID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.projects {
		p.MemberIDs = pullAccount(p.MemberIDs, accountID)
	}
	return nil
}

func (r *ProjectRepository) ClearLead(ctx context.Context, accountID domain.AccountID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.projects {
		if p.IsLead(accountID) {
			p.LeadID = nil
			p.UpdatedAt = r.s.now()
		}
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id domain.ProjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.projects, id)
	return nil
}

type JoinRequestRepository struct{ s *Store }

func (r *JoinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req.IsPending() {
		for _, existing := range r.s.requests {
			if existing.IsPending() && existing.ProjectID == req.ProjectID && existing.UserID == req.UserID {
				return domerrors.ErrDuplicatePending
			}
		}
	}
	c := *req
	r.s.requests[req.ID] = &c
	return nil
}

func (r *JoinRequestRepository) GetByID(ctx context.Context, id domain.JoinRequestID) (*domain.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	c := *req
	return &c, nil
}

func (r *JoinRequestRepository) FindPending(ctx context.Context, projectID domain.ProjectID, userID domain.AccountID) (*domain.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, req := range r.s.requests {
		if req.IsPending() && req.ProjectID == projectID && req.UserID == userID {
			c := *req
			return &c, nil
		}
	}
	return nil, nil
}

func (r *JoinRequestRepository) ListPending(ctx context.Context, projectID domain.ProjectID) ([]*domain.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.JoinRequest
	for _, req := range r.s.requests {
		if req.IsPending() && req.ProjectID == projectID {
			c := *req
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *JoinRequestRepository) UpdateStatus(ctx context.Context, id domain.JoinRequestID, from, to domain.JoinRequestStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return false, nil
	}
	if from != "" && req.Status != from {
		return false, nil
	}
	req.Status = to
	req.UpdatedAt = r.s.now()
	return true, nil
}

func (r *JoinRequestRepository) DeleteForProject(ctx context.Context, projectID domain.ProjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, req := range r.s.requests {
		if req.ProjectID == projectID {
			delete(r.s.requests, id)
		}
	}
	return nil
}

func (r *JoinRequestRepository) DeleteForUser(ctx context.Context, userID domain.AccountID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, req := range r.s.requests {
		if req.UserID == userID {
			delete(r.s.requests, id)
		}
	}
	return nil
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	c.ProjectIDs = append([]domain.ProjectID(nil), a.ProjectIDs...)
	return &c
}

func copyProject(p *domain.Project) *domain.Project {
	c := *p
	c.MemberIDs = append([]domain.AccountID(nil), p.MemberIDs...)
	if p.LeadID != nil {
		l := *p.LeadID
		c.LeadID = &l
	}
	return &c
}

func pullProject(ids []domain.ProjectID, id domain.ProjectID) []domain.ProjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func pullAccount(ids []domain.AccountID, id domain.AccountID) []domain.AccountID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

var (
	_ ports.AccountRepository     = (*AccountRepository)(nil)
	_ ports.ProjectRepository     = (*ProjectRepository)(nil)
	_ ports.JoinRequestRepository = (*JoinRequestRepository)(nil)
)
