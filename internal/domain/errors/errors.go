// Package errors holds the domain error taxonomy. Every failure that crosses a
// use-case boundary is one of these, so handlers can map it to a status and a
// stable reason code without looking at driver or transport errors.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindUpstream
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream_failure"
	case KindUnavailable:
		return "store_unavailable"
	default:
		return "internal"
	}
}

// Error is a domain error with a stable machine-readable code. The cause is
// kept for logging only and never rendered to clients.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

// New builds a sentinel.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same code, so wrapped copies still compare
// equal to their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of the sentinel carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.cause = cause
	return &c
}

// Retryable reports whether the caller may retry the same call.
func (e *Error) Retryable() bool { return e.Kind == KindUnavailable }

// As extracts the domain error from err, if any.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Identity and session.
var (
	ErrMissingToken       = New(KindUnauthenticated, "missing_token", "missing authorization token")
	ErrInvalidToken       = New(KindUnauthenticated, "invalid_or_expired", "invalid or expired token")
	ErrMalformedSubject   = New(KindUnauthenticated, "malformed_subject", "invalid account id in token")
	ErrAccountGone        = New(KindUnauthenticated, "account_gone", "account associated with this token no longer exists")
	ErrStoreUnavailable   = New(KindUnavailable, "store_unavailable", "storage temporarily unavailable")
	ErrInvalidCredentials = New(KindUnauthenticated, "invalid_credentials", "invalid email or password")
	ErrAccountLocked      = New(KindUnauthenticated, "account_locked", "too many failed attempts")
)

// Access.
var (
	ErrUnauthenticated = New(KindUnauthenticated, "unauthenticated", "authentication required")
	ErrForbidden       = New(KindForbidden, "forbidden", "insufficient permissions")
)

// Federated login.
var (
	ErrStateMismatch      = New(KindValidation, "state_mismatch", "oauth state mismatch")
	ErrExchangeFailed     = New(KindUpstream, "exchange_failed", "failed to exchange authorization code")
	ErrProfileFetchFailed = New(KindUpstream, "profile_fetch_failed", "failed to fetch provider profile")
	ErrAccountCreate      = New(KindInternal, "account_create_failed", "failed to create account")
	ErrSessionMint        = New(KindInternal, "session_mint_failed", "failed to create authentication token")
)

// Membership.
var (
	ErrInvalidID        = New(KindValidation, "invalid_id", "invalid id")
	ErrInvalidRequest   = New(KindValidation, "invalid_request", "invalid request")
	ErrInvalidStatus    = New(KindValidation, "invalid_status", "invalid status, use 'approved' or 'rejected'")
	ErrProjectNotFound  = New(KindNotFound, "project_not_found", "project not found")
	ErrRequestNotFound  = New(KindNotFound, "request_not_found", "join request not found")
	ErrAccountNotFound  = New(KindNotFound, "account_not_found", "account not found")
	ErrAlreadyMember    = New(KindConflict, "already_member", "already a member of this project")
	ErrDuplicatePending = New(KindConflict, "duplicate_pending", "a pending request for this project already exists")
	ErrAlreadyDecided   = New(KindConflict, "already_decided", "join request has already been decided")
	ErrEmailTaken       = New(KindConflict, "email_taken", "an account with this email already exists")
)
