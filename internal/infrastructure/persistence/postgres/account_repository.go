package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

const accountColumns = `id, username, full_name, email, email_source, password_hash, role, coins, project_ids, created_at, updated_at`

const (
	insertAccountSQL  = `INSERT INTO accounts (` + accountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	accountByIDSQL    = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	accountByEmailSQL = `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1)`
	updateRoleSQL     = `UPDATE accounts SET role = $2, updated_at = NOW() WHERE id = $1`
	addProjectSQL     = `UPDATE accounts SET project_ids = array_append(project_ids, $2), updated_at = NOW() WHERE id = $1 AND NOT ($2 = ANY(project_ids))`
	removeProjectSQL  = `UPDATE accounts SET project_ids = array_remove(project_ids, $2), updated_at = NOW() WHERE id = $1`
	pullProjectSQL    = `UPDATE accounts SET project_ids = array_remove(project_ids, $1), updated_at = NOW() WHERE $1 = ANY(project_ids)`
	deleteAccountSQL  = `DELETE FROM accounts WHERE id = $1`
	countAccountsSQL  = `SELECT COUNT(*) FROM accounts`
)

type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	_, err := r.db.Exec(ctx, insertAccountSQL,
		a.ID.UUID, a.Username, a.FullName, a.Email, string(a.EmailSource), a.PasswordHash,
		string(a.Role), a.Coins, rawProjectIDs(a.ProjectIDs), a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err, accountsEmailKey) {
		return domerrors.ErrEmailTaken.Wrap(err)
	}
	return err
}

func (r *AccountRepository) GetByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx, accountByIDSQL, id.UUID))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx, accountByEmailSQL, email))
}

func (r *AccountRepository) UpdateRole(ctx context.Context, id domain.AccountID, role domain.Role) error {
	_, err := r.db.Exec(ctx, updateRoleSQL, id.UUID, string(role))
	return err
}

func (r *AccountRepository) AddProject(ctx context.Context, id domain.AccountID, projectID domain.ProjectID) error {
	_, err := r.db.Exec(ctx, addProjectSQL, id.UUID, projectID.UUID)
	return err
}

func (r *AccountRepository) RemoveProject(ctx context.Context, id domain.AccountID, projectID domain.ProjectID) error {
	_, err := r.db.Exec(ctx, removeProjectSQL, id.UUID, projectID.UUID)
	return err
}

func (r *AccountRepository) RemoveProjectFromAll(ctx context.Context, projectID domain.ProjectID) error {
	_, err := r.db.Exec(ctx, pullProjectSQL, projectID.UUID)
	return err
}

func (r *AccountRepository) Delete(ctx context.Context, id domain.AccountID) error {
	_, err := r.db.Exec(ctx, deleteAccountSQL, id.UUID)
	return err
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, countAccountsSQL).Scan(&n)
	return n, err
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a        domain.Account
		id       uuid.UUID
		source   string
		role     string
		projects []uuid.UUID
	)
	err := row.Scan(&id, &a.Username, &a.FullName, &a.Email, &source, &a.PasswordHash,
		&role, &a.Coins, &projects, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	a.ID = domain.NewAccountID(id)
	a.EmailSource = domain.EmailSource(source)
	a.Role = domain.ParseRole(role)
	a.ProjectIDs = projectIDs(projects)
	return &a, nil
}

var _ ports.AccountRepository = (*AccountRepository)(nil)
