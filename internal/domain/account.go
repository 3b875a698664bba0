package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountID is a value object for account identity.
type AccountID struct{ uuid.UUID }

// NewAccountID creates a new AccountID from uuid.
func NewAccountID(id uuid.UUID) AccountID { return AccountID{UUID: id} }

// ParseAccountID parses the canonical string form.
func ParseAccountID(s string) (AccountID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return AccountID{}, err
	}
	return AccountID{UUID: id}, nil
}

// String returns the canonical string form.
func (a AccountID) String() string { return a.UUID.String() }

// Role is the organization-wide role of an account.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

// ParseRole maps a stored or requested role name; anything unknown is a Member.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleMember
}

// EmailSource records where an account's email came from.
// Synthesized addresses are placeholders built from a provider login and must
// not receive outbound mail.
type EmailSource string

const (
	EmailDeclared    EmailSource = "declared"
	EmailSynthesized EmailSource = "synthesized"
)

// Account is a member of the organization.
type Account struct {
	ID           AccountID
	Username     string
	FullName     string
	Email        string
	EmailSource  EmailSource
	PasswordHash string // empty for federated-only accounts
	Role         Role
	Coins        int
	ProjectIDs   []ProjectID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account holds the Admin role.
func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }

// InProject reports whether projectID is in the account's membership set.
func (a *Account) InProject(projectID ProjectID) bool {
	for _, id := range a.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

// CanSendMail reports whether outbound mail may go to the account's address.
func (a *Account) CanSendMail() bool {
	return a.Email != "" && a.EmailSource != EmailSynthesized
}

// AccountProfile is the public projection of an account. It never carries
// credential material.
type AccountProfile struct {
	ID         AccountID
	Username   string
	FullName   string
	Email      string
	Role       Role
	Coins      int
	ProjectIDs []ProjectID
}

// Profile returns the public projection.
func (a *Account) Profile() AccountProfile {
	return AccountProfile{
		ID:         a.ID,
		Username:   a.Username,
		FullName:   a.FullName,
		Email:      a.Email,
		Role:       a.Role,
		Coins:      a.Coins,
		ProjectIDs: append([]ProjectID(nil), a.ProjectIDs...),
	}
}
