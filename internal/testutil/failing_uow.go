package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/obra/internal/db"
)

// FailOnNthExecUoW runs real SQLite transactions but makes the FailOn-th
// write inside each one return Err. Reads are not counted. Use it to check
// that multi-step deletes leave nothing half done.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &execFault{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type execFault struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (f *execFault) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
