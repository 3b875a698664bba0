package membership

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/persistence/memory"
)

type recordingEnqueuer struct {
	mu      sync.Mutex
	created []ports.JoinRequestNotice
	decided []ports.JoinRequestNotice
}

func (r *recordingEnqueuer) EnqueueJoinRequestCreated(ctx context.Context, n ports.JoinRequestNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, n)
	return nil
}

func (r *recordingEnqueuer) EnqueueJoinRequestDecided(ctx context.Context, n ports.JoinRequestNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decided = append(r.decided, n)
	return nil
}

func (r *recordingEnqueuer) EnqueueWebhook(ctx context.Context, event string, payload interface{}) error {
	return nil
}

type fixture struct {
	store   *memory.Store
	tasks   *recordingEnqueuer
	create  *CreateJoinRequest
	list    *ListJoinRequests
	decide  *DecideJoinRequest
	admin   *domain.Identity
	lead    *domain.Identity
	member  *domain.Identity
	project *domain.Project
}

func newFixture(t *testing.T, opts DecideOptions) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.NewStore(), tasks: &recordingEnqueuer{}}

	mk := func(name string, role domain.Role, source domain.EmailSource) *domain.Identity {
		a := &domain.Account{
			ID:          domain.NewAccountID(uuid.New()),
			Username:    name,
			FullName:    name,
			Email:       name + "@example.com",
			EmailSource: source,
			Role:        role,
			CreatedAt:   time.Now(),
		}
		require.NoError(t, f.store.Accounts().Create(ctx, a))
		return domain.IdentityFromAccount(a)
	}
	f.admin = mk("admin", domain.RoleAdmin, domain.EmailDeclared)
	f.lead = mk("lead", domain.RoleMember, domain.EmailDeclared)
	f.member = mk("member", domain.RoleMember, domain.EmailSynthesized)

	leadID := f.lead.AccountID
	f.project = &domain.Project{
		ID:        domain.NewProjectID(uuid.New()),
		Name:      "iris",
		Status:    domain.ProjectActive,
		LeadID:    &leadID,
		MemberIDs: []domain.AccountID{},
		CreatedBy: f.admin.AccountID,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.store.Projects().Create(ctx, f.project))

	accounts, projects, requests := f.store.Accounts(), f.store.Projects(), f.store.JoinRequests()
	f.create = NewCreateJoinRequest(projects, requests, accounts, f.tasks)
	f.list = NewListJoinRequests(projects, requests, accounts)
	f.decide = NewDecideJoinRequest(projects, requests, accounts, f.tasks, opts)
	return f
}

func (f *fixture) memberSets(t *testing.T, id domain.AccountID) (projectHas, accountHas bool) {
	t.Helper()
	ctx := context.Background()
	p, err := f.store.Projects().GetByID(ctx, f.project.ID)
	require.NoError(t, err)
	a, err := f.store.Accounts().GetByID(ctx, id)
	require.NoError(t, err)
	return p.HasMember(id), a.InProject(f.project.ID)
}

func TestApproveScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{})

	req, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID, Message: "let me in"})
	require.NoError(t, err)
	assert.Equal(t, domain.JoinRequestPending, req.Status)

	pending, err := f.list.Execute(ctx, f.lead, f.project.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req.ID, pending[0].Request.ID)
	assert.Equal(t, "member", pending[0].Requester.Username)

	decided, err := f.decide.Execute(ctx, f.lead, DecideJoinRequestInput{RequestID: req.ID, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, domain.JoinRequestApproved, decided.Status)

	projectHas, accountHas := f.memberSets(t, f.member.AccountID)
	assert.True(t, projectHas)
	assert.True(t, accountHas)

	pending, err = f.list.Execute(ctx, f.lead, f.project.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	assert.ErrorIs(t, err, domerrors.ErrAlreadyMember)
}

func TestRejectThenRecreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{})

	req, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	require.NoError(t, err)
	_, err = f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	assert.ErrorIs(t, err, domerrors.ErrDuplicatePending)

	_, err = f.decide.Execute(ctx, f.admin, DecideJoinRequestInput{RequestID: req.ID, Status: "rejected"})
	require.NoError(t, err)

	projectHas, accountHas := f.memberSets(t, f.member.AccountID)
	assert.False(t, projectHas)
	assert.False(t, accountHas)

	again, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	require.NoError(t, err)
	assert.NotEqual(t, req.ID, again.ID)
}

func TestCreateUnknownProject(t *testing.T) {
	f := newFixture(t, DecideOptions{})
	_, err := f.create.Execute(context.Background(), f.member, CreateJoinRequestInput{ProjectID: domain.NewProjectID(uuid.New())})
	assert.ErrorIs(t, err, domerrors.ErrProjectNotFound)
}

func TestOnlyLeadOrAdminManages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{})
	req, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	require.NoError(t, err)

	_, err = f.list.Execute(ctx, f.member, f.project.ID)
	assert.ErrorIs(t, err, domerrors.ErrForbidden)
	_, err = f.decide.Execute(ctx, f.member, DecideJoinRequestInput{RequestID: req.ID, Status: "approved"})
	assert.ErrorIs(t, err, domerrors.ErrForbidden)

	_, err = f.list.Execute(ctx, f.admin, f.project.ID)
	assert.NoError(t, err)

	projectHas, _ := f.memberSets(t, f.member.AccountID)
	assert.False(t, projectHas)
}

func TestDecideValidatesBeforeMutating(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{})
	req, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	require.NoError(t, err)

	for _, status := range []string{"", "pending", "Approved", "accept"} {
		_, err = f.decide.Execute(ctx, f.lead, DecideJoinRequestInput{RequestID: req.ID, Status: status})
		assert.ErrorIs(t, err, domerrors.ErrInvalidStatus, status)
	}
	stored, err := f.store.JoinRequests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JoinRequestPending, stored.Status)

	_, err = f.decide.Execute(ctx, f.lead, DecideJoinRequestInput{RequestID: domain.NewJoinRequestID(uuid.New()), Status: "approved"})
	assert.ErrorIs(t, err, domerrors.ErrRequestNotFound)
}

func TestDecidedRequestIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{})
	req, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	require.NoError(t, err)

	_, err = f.decide.Execute(ctx, f.lead, DecideJoinRequestInput{RequestID: req.ID, Status: "rejected"})
	require.NoError(t, err)
	_, err = f.decide.Execute(ctx, f.lead, DecideJoinRequestInput{RequestID: req.ID, Status: "approved"})
	assert.ErrorIs(t, err, domerrors.ErrAlreadyDecided)

	projectHas, accountHas := f.memberSets(t, f.member.AccountID)
	assert.False(t, projectHas)
	assert.False(t, accountHas)
}

func TestRedecideWhenAllowedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{AllowRedecide: true})
	req, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = f.decide.Execute(ctx, f.lead, DecideJoinRequestInput{RequestID: req.ID, Status: "approved"})
		require.NoError(t, err)
	}
	p, err := f.store.Projects().GetByID(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Len(t, p.MemberIDs, 1)
	a, err := f.store.Accounts().GetByID(ctx, f.member.AccountID)
	require.NoError(t, err)
	assert.Len(t, a.ProjectIDs, 1)
}

func TestConcurrentDecisionsApplyOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{})
	req, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.decide.Execute(ctx, f.lead, DecideJoinRequestInput{RequestID: req.ID, Status: "approved"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domerrors.ErrAlreadyDecided)
	}
	assert.Equal(t, 1, succeeded)
}

func TestListSkipsVanishedRequester(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{})
	_, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	require.NoError(t, err)
	require.NoError(t, f.store.Accounts().Delete(ctx, f.member.AccountID))

	pending, err := f.list.Execute(ctx, f.lead, f.project.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDecideForVanishedRequesterLeavesSetsUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{})
	req, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	require.NoError(t, err)
	require.NoError(t, f.store.Accounts().Delete(ctx, f.member.AccountID))

	_, err = f.decide.Execute(ctx, f.lead, DecideJoinRequestInput{RequestID: req.ID, Status: "approved"})
	assert.ErrorIs(t, err, domerrors.ErrAccountNotFound)

	p, err := f.store.Projects().GetByID(ctx, f.project.ID)
	require.NoError(t, err)
	assert.False(t, p.HasMember(f.member.AccountID))
	stored, err := f.store.JoinRequests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JoinRequestPending, stored.Status)
	assert.Empty(t, f.tasks.decided)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{})
	req, err := f.create.Execute(ctx, f.member, CreateJoinRequestInput{ProjectID: f.project.ID})
	require.NoError(t, err)

	require.Len(t, f.tasks.created, 1)
	assert.Equal(t, "lead@example.com", f.tasks.created[0].Recipient)
	assert.Equal(t, "member", f.tasks.created[0].Requester)
	assert.False(t, f.tasks.created[0].RecipientSynthesized)

	_, err = f.decide.Execute(ctx, f.lead, DecideJoinRequestInput{RequestID: req.ID, Status: "approved"})
	require.NoError(t, err)
	require.Len(t, f.tasks.decided, 1)
	assert.Equal(t, "approved", f.tasks.decided[0].Status)
	assert.True(t, f.tasks.decided[0].RecipientSynthesized)
}

func TestUnauthenticatedCaller(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DecideOptions{})
	_, err := f.create.Execute(ctx, nil, CreateJoinRequestInput{ProjectID: f.project.ID})
	assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)
	_, err = f.list.Execute(ctx, nil, f.project.ID)
	assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)
}
