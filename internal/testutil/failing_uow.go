package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/flowboard/internal/db"
)

// FailOnNthExecUoW runs the callback in a real transaction but returns Err
// from the FailOn-th ExecContext call (1-based). Reads are not counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	execs atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	wrapped := &failOnNthExec{DBTX: tx, parent: u}
	if err := fn(ctx, wrapped); err != nil {
		return err
	}
	return tx.Commit()
}

// Execs reports how many ExecContext calls have been seen so far.
func (u *FailOnNthExecUoW) Execs() int {
	return int(u.execs.Load())
}

type failOnNthExec struct {
	db.DBTX
	parent *FailOnNthExecUoW
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.parent.execs.Add(1) == f.parent.FailOn {
		return nil, f.parent.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
