package auth

import (
	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// SessionResult is what every login path returns: a session token and the
// public view of the account it was minted for.
type SessionResult struct {
	Token   string
	Account domain.AccountProfile
}

func mintSession(codec ports.SessionCodec, account *domain.Account) (*SessionResult, error) {
	token, err := codec.Issue(account.ID.String(), account.Username, account.Email, account.Role)
	if err != nil {
		return nil, domerrors.ErrSessionMint.Wrap(err)
	}
	return &SessionResult{Token: token, Account: account.Profile()}, nil
}
