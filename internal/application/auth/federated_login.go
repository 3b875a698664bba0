package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// FederatedLoginInput is the callback query plus the state kept in the
// caller's cookie session.
type FederatedLoginInput struct {
	Code          string
	State         string
	ExpectedState string
}

// FederatedLogin signs a user in through an external identity provider,
// creating a Member account on first login.
type FederatedLogin struct {
	provider ports.IdentityProvider
	accounts ports.AccountRepository
	codec    ports.SessionCodec
	now      func() time.Time
}

// NewFederatedLogin builds the use case.
func NewFederatedLogin(provider ports.IdentityProvider, accounts ports.AccountRepository, codec ports.SessionCodec) *FederatedLogin {
	return &FederatedLogin{provider: provider, accounts: accounts, codec: codec, now: time.Now}
}

// Provider returns the provider name, e.g. "github".
func (uc *FederatedLogin) Provider() string { return uc.provider.Name() }

// AuthURL returns the provider authorization URL bound to state.
func (uc *FederatedLogin) AuthURL(state string) (string, error) {
	return uc.provider.AuthURL(state)
}

// Execute completes the authorization-code flow and mints a session.
func (uc *FederatedLogin) Execute(ctx context.Context, input FederatedLoginInput) (*SessionResult, error) {
	if input.ExpectedState == "" || subtle.ConstantTimeCompare([]byte(input.State), []byte(input.ExpectedState)) != 1 {
		return nil, domerrors.ErrStateMismatch
	}
	if input.Code == "" {
		return nil, domerrors.ErrInvalidRequest
	}
	accessToken, err := uc.provider.Exchange(ctx, input.Code)
	if err != nil {
		return nil, domerrors.ErrExchangeFailed.Wrap(err)
	}
	profile, err := uc.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, domerrors.ErrProfileFetchFailed.Wrap(err)
	}
	if profile.Login == "" {
		return nil, domerrors.ErrProfileFetchFailed.Wrap(errors.New("profile has no login"))
	}

	email, source := profile.Email, domain.EmailDeclared
	if email == "" {
		// A failed email list is treated the same as an empty one.
		emails, listErr := uc.provider.FetchEmails(ctx, accessToken)
		if listErr != nil {
			zerolog.Ctx(ctx).Debug().Err(listErr).Str("provider", uc.provider.Name()).Msg("email list unavailable")
		}
		email = chooseEmail(emails)
	}
	if email == "" {
		email = profile.Login + "@" + uc.provider.Domain()
		source = domain.EmailSynthesized
	}

	account, err := uc.materialize(ctx, profile, email, source)
	if err != nil {
		return nil, err
	}
	return mintSession(uc.codec, account)
}

// materialize returns the account for email, creating it when absent. A
// concurrent first login for the same email loses the insert and picks up the
// winner's row.
func (uc *FederatedLogin) materialize(ctx context.Context, profile *ports.RemoteProfile, email string, source domain.EmailSource) (*domain.Account, error) {
	existing, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, domerrors.ErrStoreUnavailable.Wrap(err)
	}
	if existing != nil {
		return existing, nil
	}
	fullName := profile.Name
	if fullName == "" {
		fullName = profile.Login
	}
	now := uc.now()
	account := &domain.Account{
		ID:          domain.NewAccountID(uuid.New()),
		Username:    profile.Login,
		FullName:    fullName,
		Email:       email,
		EmailSource: source,
		Role:        domain.RoleMember,
		Coins:       0,
		ProjectIDs:  []domain.ProjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.accounts.Create(ctx, account)
	if errors.Is(err, domerrors.ErrEmailTaken) {
		existing, lookupErr := uc.accounts.GetByEmail(ctx, email)
		if lookupErr != nil {
			return nil, domerrors.ErrStoreUnavailable.Wrap(lookupErr)
		}
		if existing == nil {
			return nil, domerrors.ErrAccountCreate.Wrap(err)
		}
		return existing, nil
	}
	if err != nil {
		return nil, domerrors.ErrAccountCreate.Wrap(err)
	}
	return account, nil
}

// chooseEmail picks the primary entry, else the first, else none.
func chooseEmail(emails []ports.RemoteEmail) string {
	for _, e := range emails {
		if e.Primary && e.Email != "" {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Email != "" {
			return e.Email
		}
	}
	return ""
}
