package membership

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
)

// notifier delivers best-effort notices; a failed enqueue never fails the
// membership operation that triggered it.
type notifier struct {
	accounts ports.AccountRepository
	tasks    ports.TaskEnqueuer
}

func (n notifier) notice(ctx context.Context, req *domain.JoinRequest, project *domain.Project, recipientID domain.AccountID, requester string) (ports.JoinRequestNotice, bool) {
	if n.tasks == nil {
		return ports.JoinRequestNotice{}, false
	}
	recipient, err := n.accounts.GetByID(ctx, recipientID)
	if err != nil || recipient == nil || recipient.Email == "" {
		return ports.JoinRequestNotice{}, false
	}
	return ports.JoinRequestNotice{
		RequestID:            req.ID.String(),
		ProjectID:            project.ID.String(),
		ProjectName:          project.Name,
		Recipient:            recipient.Email,
		RecipientSynthesized: !recipient.CanSendMail(),
		Requester:            requester,
		Status:               string(req.Status),
	}, true
}

// created tells the project lead, if any, about a new request.
func (n notifier) created(ctx context.Context, req *domain.JoinRequest, project *domain.Project, requester string) {
	if project.LeadID == nil {
		return
	}
	notice, ok := n.notice(ctx, req, project, *project.LeadID, requester)
	if !ok {
		return
	}
	if err := n.tasks.EnqueueJoinRequestCreated(ctx, notice); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("request_id", notice.RequestID).Msg("join request created notice not enqueued")
	}
}

// decided tells the requester about the outcome.
func (n notifier) decided(ctx context.Context, req *domain.JoinRequest, project *domain.Project) {
	notice, ok := n.notice(ctx, req, project, req.UserID, "")
	if !ok {
		return
	}
	if err := n.tasks.EnqueueJoinRequestDecided(ctx, notice); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("request_id", notice.RequestID).Msg("join request decided notice not enqueued")
	}
}
