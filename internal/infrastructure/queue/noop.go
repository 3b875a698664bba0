package queue

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
)

// NoopEnqueuer drops every task; used when REDIS_URL is empty.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer { return &NoopEnqueuer{} }

func (NoopEnqueuer) EnqueueJoinRequestCreated(context.Context, ports.JoinRequestNotice) error {
	return nil
}

func (NoopEnqueuer) EnqueueJoinRequestDecided(context.Context, ports.JoinRequestNotice) error {
	return nil
}

func (NoopEnqueuer) EnqueueWebhook(context.Context, string, interface{}) error { return nil }

var _ ports.TaskEnqueuer = NoopEnqueuer{}
