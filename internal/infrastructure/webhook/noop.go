package webhook

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
)

// NoopEmitter drops audit events; used when WEBHOOK_URL is empty.
type NoopEmitter struct{}

func NewNoopEmitter() *NoopEmitter { return &NoopEmitter{} }

func (NoopEmitter) Emit(context.Context, ports.AuditEvent) error { return nil }

var _ ports.WebhookEmitter = NoopEmitter{}
