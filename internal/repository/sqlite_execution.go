package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/flowboard/internal/db"
	"github.com/alexanderramin/flowboard/internal/domain"
)

// SQLiteExecutionRepo stores one row per completed node. Rows are only kept
// for nodes that are done.
type SQLiteExecutionRepo struct {
	db db.DBTX
}

func NewSQLiteExecutionRepo(db db.DBTX) *SQLiteExecutionRepo {
	return &SQLiteExecutionRepo{db: db}
}

func (r *SQLiteExecutionRepo) Get(ctx context.Context, flowID string) (domain.Completion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT node_id FROM executions WHERE flow_id = ? AND completed = 1`, flowID)
	if err != nil {
		return nil, fmt.Errorf("querying executions: %w", err)
	}
	defer rows.Close()

	c := domain.Completion{}
	for rows.Next() {
		var nodeID string
		if err := rows.Scan(&nodeID); err != nil {
			return nil, fmt.Errorf("scanning execution: %w", err)
		}
		c[nodeID] = true
	}
	return c, rows.Err()
}

func (r *SQLiteExecutionRepo) Set(ctx context.Context, flowID, nodeID string, done bool) error {
	if !done {
		_, err := r.db.ExecContext(ctx,
			`DELETE FROM executions WHERE flow_id = ? AND node_id = ?`, flowID, nodeID)
		if err != nil {
			return fmt.Errorf("clearing execution: %w", err)
		}
		return nil
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO executions (flow_id, node_id, completed, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(flow_id, node_id) DO UPDATE SET completed = 1, updated_at = excluded.updated_at`,
		flowID, nodeID, nowUTC())
	if err != nil {
		return fmt.Errorf("setting execution: %w", err)
	}
	return nil
}

// Replace swaps the whole completion map of a flow. Callers wanting
// atomicity run it inside a unit of work.
func (r *SQLiteExecutionRepo) Replace(ctx context.Context, flowID string, c domain.Completion) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM executions WHERE flow_id = ?`, flowID); err != nil {
		return fmt.Errorf("clearing executions: %w", err)
	}
	now := nowUTC()
	for nodeID, done := range c {
		if !done {
			continue
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO executions (flow_id, node_id, completed, updated_at) VALUES (?, ?, 1, ?)`,
			flowID, nodeID, now)
		if err != nil {
			return fmt.Errorf("inserting execution: %w", err)
		}
	}
	return nil
}
