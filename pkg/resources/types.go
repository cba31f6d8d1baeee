package resources

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// DBInstance is the slice of pgxpool.Pool the repository needs; pgxmock's
// pool satisfies it too.
type DBInstance interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type Closable interface {
	Close()
}
