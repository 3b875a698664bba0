package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/amirhosseinghanipour/iris/internal/application/auth"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/respond"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	respond.JSON(w, code, v)
}

type accountView struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	FullName   string   `json:"full_name"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	Coins      int      `json:"coins"`
	ProjectIDs []string `json:"project_ids"`
}

func toAccountView(p domain.AccountProfile) accountView {
	v := accountView{
		ID:         p.ID.String(),
		Username:   p.Username,
		FullName:   p.FullName,
		Email:      p.Email,
		Role:       string(p.Role),
		Coins:      p.Coins,
		ProjectIDs: make([]string, len(p.ProjectIDs)),
	}
	for i, id := range p.ProjectIDs {
		v.ProjectIDs[i] = id.String()
	}
	return v
}

// requesterView is the projection shown to leads reviewing requests.
type requesterView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type sessionView struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    accountView `json:"user"`
}

func toSessionView(res *auth.SessionResult, message string) sessionView {
	return sessionView{Success: true, Message: message, Token: res.Token, User: toAccountView(res.Account)}
}

type projectView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	LeadID      *string   `json:"project_lead_id"`
	MemberIDs   []string  `json:"member_ids"`
	GithubLink  string    `json:"github_link,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProjectView(p *domain.Project) projectView {
	v := projectView{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		MemberIDs:   make([]string, len(p.MemberIDs)),
		GithubLink:  p.GithubLink,
		CreatedBy:   p.CreatedBy.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.LeadID != nil {
		lead := p.LeadID.String()
		v.LeadID = &lead
	}
	for i, id := range p.MemberIDs {
		v.MemberIDs[i] = id.String()
	}
	return v
}

type joinRequestView struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	UserID    string         `json:"user_id"`
	Message   string         `json:"message"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	User      *requesterView `json:"user,omitempty"`
}

func toJoinRequestView(req *domain.JoinRequest) joinRequestView {
	return joinRequestView{
		ID:        req.ID.String(),
		ProjectID: req.ProjectID.String(),
		UserID:    req.UserID.String(),
		Message:   req.Message,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}
}

func projectIDParam(r *http.Request, name string) (domain.ProjectID, error) {
	id, err := domain.ParseProjectID(chi.URLParam(r, name))
	if err != nil {
		return domain.ProjectID{}, domerrors.ErrInvalidID
	}
	return id, nil
}

func accountIDParam(r *http.Request, name string) (domain.AccountID, error) {
	id, err := domain.ParseAccountID(chi.URLParam(r, name))
	if err != nil {
		return domain.AccountID{}, domerrors.ErrInvalidID
	}
	return id, nil
}

func parseAccountID(s string) (domain.AccountID, error) {
	id, err := domain.ParseAccountID(s)
	if err != nil {
		return domain.AccountID{}, domerrors.ErrInvalidID
	}
	return id, nil
}
