package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectID is a value object for project identity.
type ProjectID struct{ uuid.UUID }

// NewProjectID creates a new ProjectID from uuid.
func NewProjectID(id uuid.UUID) ProjectID { return ProjectID{UUID: id} }

// ParseProjectID parses the canonical string form.
func ParseProjectID(s string) (ProjectID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ProjectID{}, err
	}
	return ProjectID{UUID: id}, nil
}

// String returns the canonical string form.
func (p ProjectID) String() string { return p.UUID.String() }

// ProjectStatus is the lifecycle stage of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "Active"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectOnHold    ProjectStatus = "OnHold"
)

// ParseProjectStatus accepts the lowercase request forms; unknown values are Active.
func ParseProjectStatus(s string) ProjectStatus {
	switch s {
	case "completed", string(ProjectCompleted):
		return ProjectCompleted
	case "onhold", string(ProjectOnHold):
		return ProjectOnHold
	default:
		return ProjectActive
	}
}

// Project groups accounts. MemberIDs mirrors Account.ProjectIDs.
type Project struct {
	ID          ProjectID
	Name        string
	Description string
	Status      ProjectStatus
	LeadID      *AccountID
	MemberIDs   []AccountID
	GithubLink  string
	CreatedBy   AccountID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasMember reports whether accountID is in the member set.
func (p *Project) HasMember(accountID AccountID) bool {
	for _, id := range p.MemberIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// IsLead reports whether accountID is the project lead.
func (p *Project) IsLead(accountID AccountID) bool {
	return p.LeadID != nil && *p.LeadID == accountID
}
