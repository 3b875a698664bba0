package domain

// Identity is the authenticated caller, built from the current stored account
// rather than from token claims.
type Identity struct {
	AccountID AccountID
	Username  string
	Email     string
	Role      Role
}

// IsAdmin reports whether the caller holds the Admin role.
func (i *Identity) IsAdmin() bool { return i != nil && i.Role == RoleAdmin }

// CanManage reports whether the caller may manage membership of p: the project
// lead or any Admin.
func (i *Identity) CanManage(p *Project) bool {
	if i == nil || p == nil {
		return false
	}
	return i.IsAdmin() || p.IsLead(i.AccountID)
}

// IdentityFromAccount snapshots an account as the acting identity.
func IdentityFromAccount(a *Account) *Identity {
	return &Identity{
		AccountID: a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
	}
}
