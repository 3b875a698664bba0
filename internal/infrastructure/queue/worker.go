package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
)

// Worker runs the asynq task handlers.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	log     zerolog.Logger
	emitter ports.WebhookEmitter
}

// NewWorker creates an asynq server and registers handlers. Call Run to start.
func NewWorker(redisOpt asynq.RedisConnOpt, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	w := &Worker{srv: srv, mux: asynq.NewServeMux(), log: log, emitter: emitter}
	w.mux.HandleFunc(TypeJoinRequestCreated, w.handleNotice)
	w.mux.HandleFunc(TypeJoinRequestDecided, w.handleNotice)
	w.mux.HandleFunc(TypeWebhook, w.handleWebhook)
	return w
}

// handleNotice delivers a membership notice. Delivery is log-only until a
// mail transport is configured; placeholder addresses are never mailed.
func (w *Worker) handleNotice(ctx context.Context, t *asynq.Task) error {
	var p noticePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Str("task", t.Type()).Msg("notice payload invalid")
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if p.Recipient == "" || p.RecipientSynthesized {
		w.log.Info().
			Str("task", t.Type()).
			Str("request_id", p.RequestID).
			Msg("notice skipped: recipient has no deliverable address")
		return nil
	}
	w.log.Info().
		Str("task", t.Type()).
		Str("request_id", p.RequestID).
		Str("project", p.ProjectName).
		Str("recipient", p.Recipient).
		Str("status", p.Status).
		Msg("membership notice")
	return nil
}

func (w *Worker) handleWebhook(ctx context.Context, t *asynq.Task) error {
	var p webhookTask
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("webhook payload invalid")
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if w.emitter == nil {
		return nil
	}
	return w.emitter.Emit(ctx, ports.AuditEvent{
		Event:     p.Event,
		UserID:    p.UserID,
		ProjectID: p.ProjectID,
		IP:        p.IP,
		Success:   p.Success,
		Err:       p.Err,
	})
}

// Run blocks until shutdown.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
