package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

const joinRequestColumns = `id, project_id, user_id, message, status, created_at, updated_at`

const (
	insertJoinRequestSQL = `INSERT INTO join_requests (` + joinRequestColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	joinRequestByIDSQL   = `SELECT ` + joinRequestColumns + ` FROM join_requests WHERE id = $1`
	findPendingSQL       = `SELECT ` + joinRequestColumns + ` FROM join_requests WHERE project_id = $1 AND user_id = $2 AND status = 'pending'`
	listPendingSQL       = `SELECT ` + joinRequestColumns + ` FROM join_requests WHERE project_id = $1 AND status = 'pending' ORDER BY created_at`
	setStatusSQL         = `UPDATE join_requests SET status = $2, updated_at = NOW() WHERE id = $1`
	casStatusSQL         = `UPDATE join_requests SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`
	deleteForProjectSQL  = `DELETE FROM join_requests WHERE project_id = $1`
	deleteForUserSQL     = `DELETE FROM join_requests WHERE user_id = $1`
)

type JoinRequestRepository struct {
	db DBTX
}

func NewJoinRequestRepository(db DBTX) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

func (r *JoinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	_, err := r.db.Exec(ctx, insertJoinRequestSQL,
		req.ID.UUID, req.ProjectID.UUID, req.UserID.UUID, req.Message, string(req.Status), req.CreatedAt, req.UpdatedAt)
	if isUniqueViolation(err, joinRequestsPendingKey) {
		return domerrors.ErrDuplicatePending.Wrap(err)
	}
	return err
}

func (r *JoinRequestRepository) GetByID(ctx context.Context, id domain.JoinRequestID) (*domain.JoinRequest, error) {
	return r.one(ctx, joinRequestByIDSQL, id.UUID)
}

func (r *JoinRequestRepository) FindPending(ctx context.Context, projectID domain.ProjectID, userID domain.AccountID) (*domain.JoinRequest, error) {
	return r.one(ctx, findPendingSQL, projectID.UUID, userID.UUID)
}

func (r *JoinRequestRepository) ListPending(ctx context.Context, projectID domain.ProjectID) ([]*domain.JoinRequest, error) {
	rows, err := r.db.Query(ctx, listPendingSQL, projectID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.JoinRequest
	for rows.Next() {
		req, err := scanJoinRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *JoinRequestRepository) UpdateStatus(ctx context.Context, id domain.JoinRequestID, from, to domain.JoinRequestStatus) (bool, error) {
	query, args := setStatusSQL, []any{id.UUID, string(to)}
	if from != "" {
		query, args = casStatusSQL, append(args, string(from))
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *JoinRequestRepository) DeleteForProject(ctx context.Context, projectID domain.ProjectID) error {
	_, err := r.db.Exec(ctx, deleteForProjectSQL, projectID.UUID)
	return err
}

func (r *JoinRequestRepository) DeleteForUser(ctx context.Context, userID domain.AccountID) error {
	_, err := r.db.Exec(ctx, deleteForUserSQL, userID.UUID)
	return err
}

func (r *JoinRequestRepository) one(ctx context.Context, query string, args ...any) (*domain.JoinRequest, error) {
	req, err := scanJoinRequest(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

func scanJoinRequest(row pgx.Row) (*domain.JoinRequest, error) {
	var (
		req       domain.JoinRequest
		id        uuid.UUID
		projectID uuid.UUID
		userID    uuid.UUID
		status    string
	)
	if err := row.Scan(&id, &projectID, &userID, &req.Message, &status, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	req.ID = domain.NewJoinRequestID(id)
	req.ProjectID = domain.NewProjectID(projectID)
	req.UserID = domain.NewAccountID(userID)
	req.Status = domain.JoinRequestStatus(status)
	return &req, nil
}

var _ ports.JoinRequestRepository = (*JoinRequestRepository)(nil)
