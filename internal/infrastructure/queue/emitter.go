package queue

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
)

// webhookTask is the wire form of ports.AuditEvent.
type webhookTask struct {
	Event     string `json:"event"`
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`
	IP        string `json:"ip"`
	Success   bool   `json:"success"`
	Err       string `json:"error"`
}

// AsyncEmitter hands audit events to the queue; the worker delivers them.
type AsyncEmitter struct {
	tasks ports.TaskEnqueuer
}

func NewAsyncEmitter(tasks ports.TaskEnqueuer) *AsyncEmitter {
	return &AsyncEmitter{tasks: tasks}
}

func (e *AsyncEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	return e.tasks.EnqueueWebhook(ctx, event.Event, webhookTask{
		Event:     event.Event,
		UserID:    event.UserID,
		ProjectID: event.ProjectID,
		IP:        event.IP,
		Success:   event.Success,
		Err:       event.Err,
	})
}

var _ ports.WebhookEmitter = (*AsyncEmitter)(nil)
