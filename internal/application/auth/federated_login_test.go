package auth

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/persistence/memory"
)

func callback(code string) FederatedLoginInput {
	return FederatedLoginInput{Code: code, State: "s1", ExpectedState: "s1"}
}

func TestFederatedLoginCreatesMember(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := &mockProvider{}
	p.On("Exchange", mock.Anything, "code").Return("gh-token", nil)
	p.On("FetchProfile", mock.Anything, "gh-token").Return(&ports.RemoteProfile{ID: "1", Login: "octo", Name: "Octo Cat", Email: "octo@example.com"}, nil)

	res, err := NewFederatedLogin(p, store.Accounts(), stubCodec{}).Execute(ctx, callback("code"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "octo", res.Account.Username)
	assert.Equal(t, "Octo Cat", res.Account.FullName)
	assert.Equal(t, domain.RoleMember, res.Account.Role)
	assert.Equal(t, 0, res.Account.Coins)

	stored, err := store.Accounts().GetByEmail(ctx, "octo@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.EmailDeclared, stored.EmailSource)
	assert.Empty(t, stored.ProjectIDs)
	p.AssertNotCalled(t, "FetchEmails", mock.Anything, mock.Anything)
}

func TestFederatedLoginReusesExistingAccount(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	existing := seedAccount(t, store, domain.RoleAdmin)
	p := &mockProvider{}
	p.On("Exchange", mock.Anything, "code").Return("gh-token", nil)
	p.On("FetchProfile", mock.Anything, "gh-token").Return(&ports.RemoteProfile{Login: "alice-gh", Email: existing.Email}, nil)

	res, err := NewFederatedLogin(p, store.Accounts(), stubCodec{}).Execute(ctx, callback("code"))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, res.Account.ID)
	assert.Equal(t, domain.RoleAdmin, res.Account.Role)

	n, err := store.Accounts().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFederatedLoginEmailSelection(t *testing.T) {
	tests := []struct {
		name       string
		emails     []ports.RemoteEmail
		emailsErr  error
		wantEmail  string
		wantSource domain.EmailSource
	}{
		{
			name:       "primary wins",
			emails:     []ports.RemoteEmail{{Email: "other@example.com"}, {Email: "main@example.com", Primary: true}},
			wantEmail:  "main@example.com",
			wantSource: domain.EmailDeclared,
		},
		{
			name:       "first when no primary",
			emails:     []ports.RemoteEmail{{Email: "first@example.com"}, {Email: "second@example.com"}},
			wantEmail:  "first@example.com",
			wantSource: domain.EmailDeclared,
		},
		{
			name:       "empty list synthesizes",
			wantEmail:  "octo@github.com",
			wantSource: domain.EmailSynthesized,
		},
		{
			name:       "list failure synthesizes",
			emailsErr:  errors.New("403"),
			wantEmail:  "octo@github.com",
			wantSource: domain.EmailSynthesized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewStore()
			p := &mockProvider{}
			p.On("Exchange", mock.Anything, "code").Return("gh-token", nil)
			p.On("FetchProfile", mock.Anything, "gh-token").Return(&ports.RemoteProfile{Login: "octo"}, nil)
			p.On("FetchEmails", mock.Anything, "gh-token").Return(tt.emails, tt.emailsErr)

			res, err := NewFederatedLogin(p, store.Accounts(), stubCodec{}).Execute(ctx, callback("code"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, res.Account.Email)
			assert.Equal(t, "octo", res.Account.FullName)

			stored, err := store.Accounts().GetByEmail(ctx, tt.wantEmail)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, tt.wantSource, stored.EmailSource)
		})
	}
}

func TestFederatedLoginStepFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("state mismatch", func(t *testing.T) {
		p := &mockProvider{}
		_, err := NewFederatedLogin(p, memory.NewStore().Accounts(), stubCodec{}).
			Execute(ctx, FederatedLoginInput{Code: "code", State: "a", ExpectedState: "b"})
		assert.ErrorIs(t, err, domerrors.ErrStateMismatch)
		p.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
	})

	t.Run("missing expected state", func(t *testing.T) {
		_, err := NewFederatedLogin(&mockProvider{}, memory.NewStore().Accounts(), stubCodec{}).
			Execute(ctx, FederatedLoginInput{Code: "code"})
		assert.ErrorIs(t, err, domerrors.ErrStateMismatch)
	})

	t.Run("exchange", func(t *testing.T) {
		p := &mockProvider{}
		p.On("Exchange", mock.Anything, "code").Return("", errors.New("bad_verification_code")).Once()
		_, err := NewFederatedLogin(p, memory.NewStore().Accounts(), stubCodec{}).Execute(ctx, callback("code"))
		assert.ErrorIs(t, err, domerrors.ErrExchangeFailed)
		p.AssertNumberOfCalls(t, "Exchange", 1)
	})

	t.Run("profile", func(t *testing.T) {
		p := &mockProvider{}
		p.On("Exchange", mock.Anything, "code").Return("gh-token", nil)
		p.On("FetchProfile", mock.Anything, "gh-token").Return(nil, errors.New("502"))
		_, err := NewFederatedLogin(p, memory.NewStore().Accounts(), stubCodec{}).Execute(ctx, callback("code"))
		assert.ErrorIs(t, err, domerrors.ErrProfileFetchFailed)
	})

	t.Run("mint", func(t *testing.T) {
		store := memory.NewStore()
		p := &mockProvider{}
		p.On("Exchange", mock.Anything, "code").Return("gh-token", nil)
		p.On("FetchProfile", mock.Anything, "gh-token").Return(&ports.RemoteProfile{Login: "octo", Email: "o@example.com"}, nil)
		_, err := NewFederatedLogin(p, store.Accounts(), stubCodec{issueErr: errors.New("boom")}).Execute(ctx, callback("code"))
		assert.ErrorIs(t, err, domerrors.ErrSessionMint)
	})
}

func TestFederatedLoginRetriesLookupOnEmailRace(t *testing.T) {
	ctx := context.Background()
	winner := &domain.Account{Username: "octo", Email: "octo@example.com", Role: domain.RoleMember}

	accounts := &mockAccounts{}
	accounts.On("GetByEmail", mock.Anything, "octo@example.com").Return(nil, nil).Once()
	accounts.On("Create", mock.Anything, mock.Anything).Return(domerrors.ErrEmailTaken).Once()
	accounts.On("GetByEmail", mock.Anything, "octo@example.com").Return(winner, nil).Once()

	p := &mockProvider{}
	p.On("Exchange", mock.Anything, "code").Return("gh-token", nil)
	p.On("FetchProfile", mock.Anything, "gh-token").Return(&ports.RemoteProfile{Login: "octo", Email: "octo@example.com"}, nil)

	res, err := NewFederatedLogin(p, accounts, stubCodec{}).Execute(ctx, callback("code"))
	require.NoError(t, err)
	assert.Equal(t, winner.ID, res.Account.ID)
	accounts.AssertExpectations(t)
}

func TestFederatedLoginLogsEmailListFailure(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	store := memory.NewStore()
	p := &mockProvider{}
	p.On("Exchange", mock.Anything, "code").Return("gh-token", nil)
	p.On("FetchProfile", mock.Anything, "gh-token").Return(&ports.RemoteProfile{Login: "octo"}, nil)
	p.On("FetchEmails", mock.Anything, "gh-token").Return(nil, errors.New("403 forbidden"))

	res, err := NewFederatedLogin(p, store.Accounts(), stubCodec{}).Execute(ctx, callback("code"))
	require.NoError(t, err)
	assert.Equal(t, "octo@github.com", res.Account.Email)
	assert.Contains(t, buf.String(), "email list unavailable")
	assert.Contains(t, buf.String(), "403 forbidden")
	assert.Contains(t, buf.String(), `"provider":"github"`)
}
