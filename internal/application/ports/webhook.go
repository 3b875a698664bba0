package ports

import "context"

// AuditEvent is a single audit event for logging or webhooks.
type AuditEvent struct {
	Event     string // event type: auth.login, join_request.create, join_request.decide, etc.
	UserID    string
	ProjectID string
	IP        string
	Success   bool
	Err       string
}

// WebhookEmitter sends audit events to an external endpoint.
type WebhookEmitter interface {
	Emit(ctx context.Context, event AuditEvent) error
}
