package ports

import "context"

// RemoteProfile is the subset of a provider profile used to materialize an account.
type RemoteProfile struct {
	ID    string
	Login string
	Name  string
	Email string
}

// RemoteEmail is one entry of the provider's email list.
type RemoteEmail struct {
	Email    string
	Primary  bool
	Verified bool
}

// IdentityProvider wraps the external OAuth provider calls.
type IdentityProvider interface {
	Name() string
	// Domain is used to synthesize a placeholder email (<login>@<domain>).
	Domain() string
	AuthURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (accessToken string, err error)
	FetchProfile(ctx context.Context, accessToken string) (*RemoteProfile, error)
	FetchEmails(ctx context.Context, accessToken string) ([]RemoteEmail, error)
}
