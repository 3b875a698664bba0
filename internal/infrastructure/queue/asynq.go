package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
)

// Task types.
const (
	TypeJoinRequestCreated = "notify:join_request_created"
	TypeJoinRequestDecided = "notify:join_request_decided"
	TypeWebhook            = "webhook:emit"
)

// noticePayload is the wire form of ports.JoinRequestNotice.
type noticePayload struct {
	RequestID            string `json:"request_id"`
	ProjectID            string `json:"project_id"`
	ProjectName          string `json:"project_name"`
	Recipient            string `json:"recipient"`
	RecipientSynthesized bool   `json:"recipient_synthesized"`
	Requester            string `json:"requester,omitempty"`
	Status               string `json:"status"`
}

func toPayload(n ports.JoinRequestNotice) noticePayload {
	return noticePayload{
		RequestID:            n.RequestID,
		ProjectID:            n.ProjectID,
		ProjectName:          n.ProjectName,
		Recipient:            n.Recipient,
		RecipientSynthesized: n.RecipientSynthesized,
		Requester:            n.Requester,
		Status:               n.Status,
	}
}

// taskClient is the part of *asynq.Client the enqueuer uses.
type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// TaskEnqueuer publishes tasks to Redis through asynq.
type TaskEnqueuer struct {
	client taskClient
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisConnOpt, log zerolog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueJoinRequestCreated(ctx context.Context, notice ports.JoinRequestNotice) error {
	return q.enqueue(ctx, TypeJoinRequestCreated, toPayload(notice), asynq.MaxRetry(5))
}

func (q *TaskEnqueuer) EnqueueJoinRequestDecided(ctx context.Context, notice ports.JoinRequestNotice) error {
	return q.enqueue(ctx, TypeJoinRequestDecided, toPayload(notice), asynq.MaxRetry(5))
}

func (q *TaskEnqueuer) EnqueueWebhook(ctx context.Context, event string, payload interface{}) error {
	return q.enqueue(ctx, TypeWebhook, payload, asynq.MaxRetry(3))
}

func (q *TaskEnqueuer) enqueue(ctx context.Context, typ string, payload interface{}, opts ...asynq.Option) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, asynq.NewTask(typ, body), opts...); err != nil {
		q.log.Warn().Err(err).Str("task", typ).Msg("enqueue failed")
		return err
	}
	return nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
