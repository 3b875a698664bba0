package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amirhosseinghanipour/iris/internal/application/membership"
	"github.com/amirhosseinghanipour/iris/internal/application/project"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/respond"
)

// ProjectsHandler serves /projects/* for authenticated callers.
type ProjectsHandler struct {
	createRequest *membership.CreateJoinRequest
	listRequests  *membership.ListJoinRequests
	decide        *membership.DecideJoinRequest
	get           *project.GetProject
	mine          *project.ListMemberProjects
	removeMember  *project.RemoveMember
	audit         *Auditor
}

// ProjectsDeps groups the use cases ProjectsHandler needs.
type ProjectsDeps struct {
	CreateRequest *membership.CreateJoinRequest
	ListRequests  *membership.ListJoinRequests
	Decide        *membership.DecideJoinRequest
	Get           *project.GetProject
	Mine          *project.ListMemberProjects
	RemoveMember  *project.RemoveMember
}

func NewProjectsHandler(deps ProjectsDeps, audit *Auditor) *ProjectsHandler {
	return &ProjectsHandler{
		createRequest: deps.CreateRequest,
		listRequests:  deps.ListRequests,
		decide:        deps.Decide,
		get:           deps.Get,
		mine:          deps.Mine,
		removeMember:  deps.RemoveMember,
		audit:         audit,
	}
}

type createJoinRequestBody struct {
	ProjectID string `json:"project_id" validate:"required"`
	Message   string `json:"message" validate:"max=2000"`
}

// CreateJoinRequest handles POST /projects/join-request.
func (h *ProjectsHandler) CreateJoinRequest(w http.ResponseWriter, r *http.Request) {
	var body createJoinRequestBody
	if err := decode(r, &body); err != nil {
		respond.Err(w, r, err)
		return
	}
	projectID, err := domain.ParseProjectID(body.ProjectID)
	if err != nil {
		respond.Err(w, r, domerrors.ErrInvalidID)
		return
	}
	caller := middleware.IdentityFromContext(r.Context())
	req, err := h.createRequest.Execute(r.Context(), caller, membership.CreateJoinRequestInput{
		ProjectID: projectID,
		Message:   body.Message,
	})
	h.audit.Record(r, "membership.request", callerID(caller), body.ProjectID, err)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":    "Join request submitted",
		"request_id": req.ID.String(),
	})
}

// ListJoinRequests handles GET /projects/{id}/join-requests.
func (h *ProjectsHandler) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	pending, err := h.listRequests.Execute(r.Context(), middleware.IdentityFromContext(r.Context()), projectID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	out := make([]joinRequestView, 0, len(pending))
	for _, p := range pending {
		v := toJoinRequestView(p.Request)
		v.User = &requesterView{
			ID:       p.Requester.ID.String(),
			Username: p.Requester.Username,
			FullName: p.Requester.FullName,
			Email:    p.Requester.Email,
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

type decideBody struct {
	Status string `json:"status" validate:"required"`
}

// DecideJoinRequest handles PATCH /projects/join-request/{id}.
func (h *ProjectsHandler) DecideJoinRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := domain.ParseJoinRequestID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Err(w, r, domerrors.ErrInvalidID)
		return
	}
	var body decideBody
	if err := decode(r, &body); err != nil {
		respond.Err(w, r, err)
		return
	}
	caller := middleware.IdentityFromContext(r.Context())
	req, err := h.decide.Execute(r.Context(), caller, membership.DecideJoinRequestInput{
		RequestID: requestID,
		Status:    body.Status,
	})
	if err != nil {
		h.audit.Record(r, "membership.decide", callerID(caller), "", err)
		respond.Err(w, r, err)
		return
	}
	middleware.RecordMembershipDecision(string(req.Status))
	h.audit.Record(r, "membership.decide", callerID(caller), req.ProjectID.String(), nil)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Join request " + string(req.Status),
		"request": toJoinRequestView(req),
	})
}

// Get handles GET /projects/{id}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	p, err := h.get.Execute(r.Context(), projectID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(p))
}

// Mine handles GET /projects/user: the projects the caller belongs to.
func (h *ProjectsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	projects, err := h.mine.Execute(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	out := make([]projectView, len(projects))
	for i, p := range projects {
		out[i] = toProjectView(p)
	}
	writeJSON(w, http.StatusOK, out)
}

type removeMemberBody struct {
	MemberID string `json:"member_id" validate:"required"`
}

// RemoveMember handles POST /projects/{id}/members/remove. Lead or Admin only.
func (h *ProjectsHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var body removeMemberBody
	if err := decode(r, &body); err != nil {
		respond.Err(w, r, err)
		return
	}
	memberID, err := parseAccountID(body.MemberID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	caller := middleware.IdentityFromContext(r.Context())
	err = h.removeMember.Execute(r.Context(), caller, projectID, memberID)
	h.audit.Record(r, "membership.remove", callerID(caller), projectID.String(), err)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}

func callerID(id *domain.Identity) string {
	if id == nil {
		return ""
	}
	return id.AccountID.String()
}
