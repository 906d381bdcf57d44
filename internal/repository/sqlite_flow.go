package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/flowboard/internal/db"
	"github.com/alexanderramin/flowboard/internal/domain"
)

type SQLiteFlowRepo struct {
	db db.DBTX
}

func NewSQLiteFlowRepo(db db.DBTX) *SQLiteFlowRepo {
	return &SQLiteFlowRepo{db: db}
}

const flowColumns = `id, name, template_id, template_snapshot, icon, description, data, created_at, updated_at`

func (r *SQLiteFlowRepo) Create(ctx context.Context, f *domain.Flow) error {
	snapshot, data, err := encodeFlow(f)
	if err != nil {
		return err
	}
	query := `INSERT INTO flows (` + flowColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		f.ID, f.Name, f.TemplateID, snapshot, f.Icon, f.Description, data,
		formatTime(f.CreatedAt), formatTime(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting flow: %w", err)
	}
	return nil
}

func (r *SQLiteFlowRepo) GetByID(ctx context.Context, id string) (*domain.Flow, error) {
	query := `SELECT ` + flowColumns + ` FROM flows WHERE id = ?`
	f, err := scanFlow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "flow", id)
	}
	return f, nil
}

func (r *SQLiteFlowRepo) List(ctx context.Context) ([]*domain.Flow, error) {
	query := `SELECT ` + flowColumns + ` FROM flows ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing flows: %w", err)
	}
	defer rows.Close()

	var flows []*domain.Flow
	for rows.Next() {
		f, err := scanFlow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning flow: %w", err)
		}
		flows = append(flows, f)
	}
	return flows, rows.Err()
}

// Update rewrites every mutable column of f.
func (r *SQLiteFlowRepo) Update(ctx context.Context, f *domain.Flow) error {
	snapshot, data, err := encodeFlow(f)
	if err != nil {
		return err
	}
	query := `UPDATE flows SET name = ?, template_id = ?, template_snapshot = ?, icon = ?,
		description = ?, data = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		f.Name, f.TemplateID, snapshot, f.Icon, f.Description, data, formatTime(f.UpdatedAt), f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating flow: %w", err)
	}
	return requireAffected(res, "flow", f.ID)
}

// UpdateData replaces only the node tree of a flow.
func (r *SQLiteFlowRepo) UpdateData(ctx context.Context, id string, data []*domain.Node, updatedAt time.Time) error {
	if data == nil {
		data = []*domain.Node{}
	}
	encoded, err := toJSON(data, "flow data")
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE flows SET data = ?, updated_at = ? WHERE id = ?`,
		encoded, formatTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("updating flow data: %w", err)
	}
	return requireAffected(res, "flow", id)
}

func (r *SQLiteFlowRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting flow: %w", err)
	}
	return requireAffected(res, "flow", id)
}

func encodeFlow(f *domain.Flow) (snapshot, data string, err error) {
	snapshot, err = toJSON(f.TemplateSnapshot, "template snapshot")
	if err != nil {
		return "", "", err
	}
	nodes := f.Data
	if nodes == nil {
		nodes = []*domain.Node{}
	}
	data, err = toJSON(nodes, "flow data")
	if err != nil {
		return "", "", err
	}
	return snapshot, data, nil
}

func scanFlow(s scanner) (*domain.Flow, error) {
	var (
		f                    domain.Flow
		snapshot, data       string
		createdAt, updatedAt string
	)
	err := s.Scan(&f.ID, &f.Name, &f.TemplateID, &snapshot, &f.Icon, &f.Description, &data, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(snapshot, &f.TemplateSnapshot, "template snapshot"); err != nil {
		return nil, err
	}
	if err := fromJSON(data, &f.Data, "flow data"); err != nil {
		return nil, err
	}
	if f.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &f, nil
}
