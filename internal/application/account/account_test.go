package account

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/persistence/memory"
)

type prefixHasher struct{}

func (prefixHasher) Hash(pw string) (string, error) { return "h:" + pw, nil }
func (prefixHasher) Verify(pw, hash string) bool    { return hash == "h:"+pw }

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := NewCreateAccount(store.Accounts(), prefixHasher{})

	a, err := uc.Execute(ctx, CreateAccountInput{Username: "carol", Email: "carol@example.com", Password: "pw", Role: "Admin"})
	require.NoError(t, err)
	assert.Equal(t, "carol", a.FullName)
	assert.Equal(t, "h:pw", a.PasswordHash)
	assert.Equal(t, domain.RoleAdmin, a.Role)

	b, err := uc.Execute(ctx, CreateAccountInput{Username: "dan", Email: "dan@example.com", Role: "superuser"})
	require.NoError(t, err)
	assert.Empty(t, b.PasswordHash)
	assert.Equal(t, domain.RoleMember, b.Role)

	_, err = uc.Execute(ctx, CreateAccountInput{Username: "carol2", Email: "carol@example.com"})
	assert.ErrorIs(t, err, domerrors.ErrEmailTaken)

	_, err = uc.Execute(ctx, CreateAccountInput{Username: "", Email: "x@example.com"})
	assert.ErrorIs(t, err, domerrors.ErrInvalidRequest)
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a, err := NewCreateAccount(store.Accounts(), prefixHasher{}).Execute(ctx, CreateAccountInput{Username: "e", Email: "e@example.com"})
	require.NoError(t, err)
	uc := NewUpdateRole(store.Accounts())

	require.NoError(t, uc.Execute(ctx, a.ID, "Admin"))
	got, err := store.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	assert.ErrorIs(t, uc.Execute(ctx, a.ID, "root"), domerrors.ErrInvalidRequest)
	assert.ErrorIs(t, uc.Execute(ctx, domain.NewAccountID(uuid.New()), "Member"), domerrors.ErrAccountNotFound)
}

func TestDeleteAccountPullsFromProjects(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a, err := NewCreateAccount(store.Accounts(), prefixHasher{}).Execute(ctx, CreateAccountInput{Username: "f", Email: "f@example.com"})
	require.NoError(t, err)
	lead := a.ID
	p := &domain.Project{ID: domain.NewProjectID(uuid.New()), Name: "p", LeadID: &lead, MemberIDs: []domain.AccountID{a.ID}}
	require.NoError(t, store.Projects().Create(ctx, p))
	other := &domain.Project{ID: domain.NewProjectID(uuid.New()), Name: "q", MemberIDs: []domain.AccountID{}}
	require.NoError(t, store.Projects().Create(ctx, other))
	req := &domain.JoinRequest{
		ID:        domain.NewJoinRequestID(uuid.New()),
		ProjectID: other.ID,
		UserID:    a.ID,
		Status:    domain.JoinRequestPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.JoinRequests().Create(ctx, req))

	deleteAccount := NewDeleteAccount(store.Accounts(), store.Projects(), store.JoinRequests())
	require.NoError(t, deleteAccount.Execute(ctx, a.ID))

	got, err := store.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.MemberIDs)
	assert.Nil(t, got.LeadID)
	pending, err := store.JoinRequests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Nil(t, pending)
	gone, err := store.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, deleteAccount.Execute(ctx, a.ID), domerrors.ErrAccountNotFound)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a, err := NewCreateAccount(store.Accounts(), prefixHasher{}).Execute(ctx, CreateAccountInput{Username: "g", Email: "g@example.com", Password: "pw"})
	require.NoError(t, err)

	p, err := NewMe(store.Accounts()).Execute(ctx, domain.IdentityFromAccount(a))
	require.NoError(t, err)
	assert.Equal(t, a.ID, p.ID)
	assert.Equal(t, "g@example.com", p.Email)

	_, err = NewMe(store.Accounts()).Execute(ctx, nil)
	assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)
}
