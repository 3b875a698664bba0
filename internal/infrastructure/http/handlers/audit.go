package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// Auditor logs security-relevant events and forwards them to the webhook
// emitter, if any.
type Auditor struct {
	log     zerolog.Logger
	emitter ports.WebhookEmitter
}

func NewAuditor(log zerolog.Logger, emitter ports.WebhookEmitter) *Auditor {
	return &Auditor{log: log, emitter: emitter}
}

// Record logs one event. A nil err means success.
func (a *Auditor) Record(r *http.Request, event, userID, projectID string, err error) {
	if a == nil {
		return
	}
	errCode := ""
	if err != nil {
		errCode = "internal"
		if de, ok := domerrors.As(err); ok {
			errCode = de.Code
		}
	}
	ev := a.log.Info()
	if err != nil {
		ev = a.log.Warn()
	}
	ev.
		Str("event", event).
		Str("user_id", userID).
		Str("project_id", projectID).
		Str("ip", clientIP(r)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Bool("success", err == nil).
		Str("error", errCode).
		Msg("audit")
	if a.emitter == nil {
		return
	}
	if emitErr := a.emitter.Emit(r.Context(), ports.AuditEvent{
		Event:     event,
		UserID:    userID,
		ProjectID: projectID,
		IP:        clientIP(r),
		Success:   err == nil,
		Err:       errCode,
	}); emitErr != nil {
		a.log.Debug().Err(emitErr).Str("event", event).Msg("audit webhook not delivered")
	}
}

// clientIP prefers RemoteAddr, which chi's RealIP middleware has already
// rewritten from X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if i := strings.LastIndexByte(addr, ':'); i > 0 && !strings.HasSuffix(addr, "]") {
		return addr[:i]
	}
	return addr
}
