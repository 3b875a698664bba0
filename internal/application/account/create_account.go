package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// CreateAccountInput is an admin-created account. Password is optional;
// without one the account can only log in through the identity provider.
type CreateAccountInput struct {
	Username string
	FullName string
	Email    string
	Password string
	Role     string
}

// CreateAccount registers an account on an Admin's behalf.
type CreateAccount struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher
	now      func() time.Time
}

func NewCreateAccount(accounts ports.AccountRepository, hasher ports.PasswordHasher) *CreateAccount {
	return &CreateAccount{accounts: accounts, hasher: hasher, now: time.Now}
}

func (uc *CreateAccount) Execute(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	email := strings.TrimSpace(input.Email)
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" {
		return nil, domerrors.ErrInvalidRequest
	}
	var hash string
	if input.Password != "" {
		h, err := uc.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	fullName := input.FullName
	if fullName == "" {
		fullName = username
	}
	now := uc.now()
	account := &domain.Account{
		ID:           domain.NewAccountID(uuid.New()),
		Username:     username,
		FullName:     fullName,
		Email:        email,
		EmailSource:  domain.EmailDeclared,
		PasswordHash: hash,
		Role:         domain.ParseRole(input.Role),
		ProjectIDs:   []domain.ProjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domerrors.ErrEmailTaken) {
			return nil, domerrors.ErrEmailTaken
		}
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	return account, nil
}
