package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
)

const projectColumns = `id, name, description, status, lead_id, member_ids, github_link, created_by, created_at, updated_at`

const (
	insertProjectSQL  = `INSERT INTO projects (` + projectColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	projectByIDSQL    = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	memberProjectsSQL = `SELECT ` + projectColumns + ` FROM projects WHERE $1 = ANY(member_ids) ORDER BY created_at`
	setLeadSQL        = `UPDATE projects SET lead_id = $2, updated_at = NOW() WHERE id = $1`
	addMemberSQL      = `UPDATE projects SET member_ids = array_append(member_ids, $2), updated_at = NOW() WHERE id = $1 AND NOT ($2 = ANY(member_ids))`
	removeMemberSQL   = `UPDATE projects SET member_ids = array_remove(member_ids, $2), updated_at = NOW() WHERE id = $1`
	pullMemberSQL     = `UPDATE projects SET member_ids = array_remove(member_ids, $1), updated_at = NOW() WHERE $1 = ANY(member_ids)`
	clearLeadSQL      = `UPDATE projects SET lead_id = NULL, updated_at = NOW() WHERE lead_id = $1`
	deleteProjectSQL  = `DELETE FROM projects WHERE id = $1`
)

type ProjectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.db.Exec(ctx, insertProjectSQL,
		p.ID.UUID, p.Name, p.Description, string(p.Status), leadParam(p.LeadID),
		rawAccountIDs(p.MemberIDs), p.GithubLink, p.CreatedBy.UUID, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, projectByIDSQL, id.UUID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) ListForMember(ctx context.Context, accountID domain.AccountID) ([]*domain.Project, error) {
	rows, err := r.db.Query(ctx, memberProjectsSQL, accountID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) SetLead(ctx context.Context, id domain.ProjectID, leadID *domain.AccountID) error {
	_, err := r.db.Exec(ctx, setLeadSQL, id.UUID, leadParam(leadID))
	return err
}

func (r *ProjectRepository) AddMember(ctx context.Context, id domain.ProjectID, accountID domain.AccountID) error {
	_, err := r.db.Exec(ctx, addMemberSQL, id.UUID, accountID.UUID)
	return err
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, id domain.ProjectID, accountID domain.AccountID) error {
	_, err := r.db.Exec(ctx, removeMemberSQL, id.UUID, accountID.UUID)
	return err
}

func (r *ProjectRepository) RemoveMemberFromAll(ctx context.Context, accountID domain.AccountID) error {
	_, err := r.db.Exec(ctx, pullMemberSQL, accountID.UUID)
	return err
}

func (r *ProjectRepository) ClearLead(ctx context.Context, accountID domain.AccountID) error {
	_, err := r.db.Exec(ctx, clearLeadSQL, accountID.UUID)
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id domain.ProjectID) error {
	_, err := r.db.Exec(ctx, deleteProjectSQL, id.UUID)
	return err
}

func leadParam(leadID *domain.AccountID) *uuid.UUID {
	if leadID == nil {
		return nil
	}
	id := leadID.UUID
	return &id
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p         domain.Project
		id        uuid.UUID
		status    string
		leadID    *uuid.UUID
		members   []uuid.UUID
		createdBy uuid.UUID
	)
	if err := row.Scan(&id, &p.Name, &p.Description, &status, &leadID, &members,
		&p.GithubLink, &createdBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = domain.NewProjectID(id)
	p.Status = domain.ProjectStatus(status)
	if leadID != nil {
		lead := domain.NewAccountID(*leadID)
		p.LeadID = &lead
	}
	p.MemberIDs = accountIDs(members)
	p.CreatedBy = domain.NewAccountID(createdBy)
	return &p, nil
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
