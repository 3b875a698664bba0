// Package postgres implements the store ports on PostgreSQL through pgx.
// Membership sets are uuid[] columns; every set change is a single UPDATE,
// so each row changes atomically without a surrounding transaction.
package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amirhosseinghanipour/iris/internal/domain"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DBTX = (*pgxpool.Pool)(nil)

func projectIDs(ids []uuid.UUID) []domain.ProjectID {
	out := make([]domain.ProjectID, len(ids))
	for i, id := range ids {
		out[i] = domain.NewProjectID(id)
	}
	return out
}

func accountIDs(ids []uuid.UUID) []domain.AccountID {
	out := make([]domain.AccountID, len(ids))
	for i, id := range ids {
		out[i] = domain.NewAccountID(id)
	}
	return out
}

func rawProjectIDs(ids []domain.ProjectID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		out[i] = id.UUID
	}
	return out
}

func rawAccountIDs(ids []domain.AccountID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		out[i] = id.UUID
	}
	return out
}
