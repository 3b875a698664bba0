package handlers

import (
	"net/http"

	"github.com/amirhosseinghanipour/iris/internal/application/account"
	"github.com/amirhosseinghanipour/iris/internal/application/project"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/respond"
)

// AdminHandler handles /admin/*. Requires Authenticate and the Admin role.
type AdminHandler struct {
	createAccount *account.CreateAccount
	updateRole    *account.UpdateRole
	deleteAccount *account.DeleteAccount
	createProject *project.CreateProject
	setLead       *project.SetLead
	assignMember  *project.AssignMember
	removeMember  *project.RemoveMember
	deleteProject *project.DeleteProject
	audit         *Auditor
}

// AdminDeps groups the use cases AdminHandler needs.
type AdminDeps struct {
	CreateAccount *account.CreateAccount
	UpdateRole    *account.UpdateRole
	DeleteAccount *account.DeleteAccount
	CreateProject *project.CreateProject
	SetLead       *project.SetLead
	AssignMember  *project.AssignMember
	RemoveMember  *project.RemoveMember
	DeleteProject *project.DeleteProject
}

func NewAdminHandler(deps AdminDeps, audit *Auditor) *AdminHandler {
	return &AdminHandler{
		createAccount: deps.CreateAccount,
		updateRole:    deps.UpdateRole,
		deleteAccount: deps.DeleteAccount,
		createProject: deps.CreateProject,
		setLead:       deps.SetLead,
		assignMember:  deps.AssignMember,
		removeMember:  deps.RemoveMember,
		deleteProject: deps.DeleteProject,
		audit:         audit,
	}
}

type createAccountBody struct {
	Username string `json:"username" validate:"required,max=64"`
	FullName string `json:"full_name" validate:"max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8,max=256"`
	Role     string `json:"role" validate:"omitempty,oneof=Admin Member"`
}

// CreateAccount handles POST /admin/users.
func (h *AdminHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var body createAccountBody
	if err := decode(r, &body); err != nil {
		respond.Err(w, r, err)
		return
	}
	acc, err := h.createAccount.Execute(r.Context(), account.CreateAccountInput{
		Username: body.Username,
		FullName: body.FullName,
		Email:    sanitizeEmail(body.Email),
		Password: body.Password,
		Role:     body.Role,
	})
	h.audit.Record(r, "admin.account.create", adminID(r), "", err)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountView(acc.Profile()))
}

type updateRoleBody struct {
	Role string `json:"role" validate:"required"`
}

// UpdateRole handles PATCH /admin/users/{id}/role.
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var body updateRoleBody
	if err := decode(r, &body); err != nil {
		respond.Err(w, r, err)
		return
	}
	err = h.updateRole.Execute(r.Context(), id, body.Role)
	h.audit.Record(r, "admin.account.role", adminID(r), "", err)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Role updated", "role": body.Role})
}

// DeleteAccount handles DELETE /admin/users/{id}.
func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	err = h.deleteAccount.Execute(r.Context(), id)
	h.audit.Record(r, "admin.account.delete", adminID(r), "", err)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createProjectBody struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=5000"`
	Status      string  `json:"status" validate:"omitempty,oneof=active completed onhold"`
	GithubLink  string  `json:"github_link" validate:"omitempty,url"`
	LeadID      *string `json:"project_lead_id"`
}

// CreateProject handles POST /admin/projects.
func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectBody
	if err := decode(r, &body); err != nil {
		respond.Err(w, r, err)
		return
	}
	lead, err := optionalAccountID(body.LeadID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	p, err := h.createProject.Execute(r.Context(), middleware.IdentityFromContext(r.Context()), project.CreateProjectInput{
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
		GithubLink:  body.GithubLink,
		LeadID:      lead,
	})
	if err != nil {
		h.audit.Record(r, "admin.project.create", adminID(r), "", err)
		respond.Err(w, r, err)
		return
	}
	h.audit.Record(r, "admin.project.create", adminID(r), p.ID.String(), nil)
	writeJSON(w, http.StatusCreated, toProjectView(p))
}

type setLeadBody struct {
	LeadID *string `json:"project_lead_id"`
}

// SetLead handles PATCH /admin/projects/{id}/lead. A null lead clears it.
func (h *AdminHandler) SetLead(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var body setLeadBody
	if err := decode(r, &body); err != nil {
		respond.Err(w, r, err)
		return
	}
	lead, err := optionalAccountID(body.LeadID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	err = h.setLead.Execute(r.Context(), projectID, lead)
	h.audit.Record(r, "admin.project.lead", adminID(r), projectID.String(), err)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project lead updated"})
}

type assignMemberBody struct {
	UserID string `json:"user_id" validate:"required"`
}

// AssignMember handles POST /admin/projects/{id}/members.
func (h *AdminHandler) AssignMember(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var body assignMemberBody
	if err := decode(r, &body); err != nil {
		respond.Err(w, r, err)
		return
	}
	accountID, err := parseAccountID(body.UserID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	err = h.assignMember.Execute(r.Context(), projectID, accountID)
	h.audit.Record(r, "admin.project.assign", adminID(r), projectID.String(), err)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Member assigned"})
}

// RemoveMember handles DELETE /admin/projects/{id}/members/{user_id}.
func (h *AdminHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	accountID, err := accountIDParam(r, "user_id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	err = h.removeMember.Execute(r.Context(), middleware.IdentityFromContext(r.Context()), projectID, accountID)
	h.audit.Record(r, "admin.project.unassign", adminID(r), projectID.String(), err)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProject handles DELETE /admin/projects/{id}.
func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	err = h.deleteProject.Execute(r.Context(), projectID)
	h.audit.Record(r, "admin.project.delete", adminID(r), projectID.String(), err)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func adminID(r *http.Request) string {
	return callerID(middleware.IdentityFromContext(r.Context()))
}

func optionalAccountID(s *string) (*domain.AccountID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := parseAccountID(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
