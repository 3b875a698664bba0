package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
)

type mockProvider struct{ mock.Mock }

func (m *mockProvider) Name() string   { return "github" }
func (m *mockProvider) Domain() string { return "github.com" }

func (m *mockProvider) AuthURL(state string) (string, error) {
	return "https://github.example/authorize?state=" + state, nil
}

func (m *mockProvider) Exchange(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) FetchProfile(ctx context.Context, accessToken string) (*ports.RemoteProfile, error) {
	args := m.Called(ctx, accessToken)
	p, _ := args.Get(0).(*ports.RemoteProfile)
	return p, args.Error(1)
}

func (m *mockProvider) FetchEmails(ctx context.Context, accessToken string) ([]ports.RemoteEmail, error) {
	args := m.Called(ctx, accessToken)
	e, _ := args.Get(0).([]ports.RemoteEmail)
	return e, args.Error(1)
}

type mockAccounts struct {
	mock.Mock
	ports.AccountRepository
}

func (m *mockAccounts) Create(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAccounts) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *mockAccounts) GetByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

// stubCodec encodes claims as "sub|username|email|role" and rejects anything
// that does not start with "ok:".
type stubCodec struct{ issueErr error }

func (c stubCodec) Issue(accountID, username, email string, role domain.Role) (string, error) {
	if c.issueErr != nil {
		return "", c.issueErr
	}
	return fmt.Sprintf("ok:%s|%s|%s|%s", accountID, username, email, role), nil
}

func (c stubCodec) Verify(token string) (*ports.SessionClaims, error) {
	if !strings.HasPrefix(token, "ok:") {
		return nil, errors.New("bad token")
	}
	parts := strings.Split(strings.TrimPrefix(token, "ok:"), "|")
	if len(parts) != 4 {
		return nil, errors.New("bad token")
	}
	return &ports.SessionClaims{Subject: parts[0], Username: parts[1], Email: parts[2], Role: domain.Role(parts[3])}, nil
}
