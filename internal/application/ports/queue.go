package ports

import "context"

// JoinRequestNotice describes a membership event to deliver to one recipient.
type JoinRequestNotice struct {
	RequestID   string
	ProjectID   string
	ProjectName string
	Recipient   string // email
	// RecipientSynthesized marks placeholder addresses that must not be mailed.
	RecipientSynthesized bool
	Requester            string // username
	Status               string
}

// TaskEnqueuer enqueues async tasks (notifications, webhooks).
type TaskEnqueuer interface {
	EnqueueJoinRequestCreated(ctx context.Context, notice JoinRequestNotice) error
	EnqueueJoinRequestDecided(ctx context.Context, notice JoinRequestNotice) error
	EnqueueWebhook(ctx context.Context, event string, payload interface{}) error
}
