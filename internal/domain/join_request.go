package domain

import (
	"time"

	"github.com/google/uuid"
)

// JoinRequestID is a value object for join request identity.
type JoinRequestID struct{ uuid.UUID }

// NewJoinRequestID creates a new JoinRequestID from uuid.
func NewJoinRequestID(id uuid.UUID) JoinRequestID { return JoinRequestID{UUID: id} }

// ParseJoinRequestID parses the canonical string form.
func ParseJoinRequestID(s string) (JoinRequestID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return JoinRequestID{}, err
	}
	return JoinRequestID{UUID: id}, nil
}

// String returns the canonical string form.
func (j JoinRequestID) String() string { return j.UUID.String() }

// JoinRequestStatus is pending until decided; approved and rejected are terminal.
type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestApproved JoinRequestStatus = "approved"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// ParseDecision accepts only the two terminal statuses.
func ParseDecision(s string) (JoinRequestStatus, bool) {
	switch JoinRequestStatus(s) {
	case JoinRequestApproved, JoinRequestRejected:
		return JoinRequestStatus(s), true
	}
	return "", false
}

// JoinRequest is an account's petition to join a project.
type JoinRequest struct {
	ID        JoinRequestID
	ProjectID ProjectID
	UserID    AccountID
	Message   string
	Status    JoinRequestStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending reports whether the request still awaits a decision.
func (j *JoinRequest) IsPending() bool { return j.Status == JoinRequestPending }
