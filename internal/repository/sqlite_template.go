package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/flowboard/internal/db"
	"github.com/alexanderramin/flowboard/internal/domain"
)

type SQLiteTemplateRepo struct {
	db db.DBTX
}

func NewSQLiteTemplateRepo(db db.DBTX) *SQLiteTemplateRepo {
	return &SQLiteTemplateRepo{db: db}
}

const templateColumns = `id, name, description, version, is_default, body, created_at, updated_at`

// Upsert inserts t or replaces the stored row with the same id. The created
// timestamp of an existing row is kept.
func (r *SQLiteTemplateRepo) Upsert(ctx context.Context, t *domain.Template) error {
	body, err := toJSON(t, "template body")
	if err != nil {
		return err
	}
	created, updated := formatTime(t.CreatedAt), formatTime(t.UpdatedAt)
	if t.CreatedAt.IsZero() {
		created = nowUTC()
	}
	if t.UpdatedAt.IsZero() {
		updated = created
	}
	query := `INSERT INTO templates (` + templateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			version = excluded.version,
			is_default = excluded.is_default,
			body = excluded.body,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Description, t.Version, boolToInt(t.IsDefault), body, created, updated,
	)
	if err != nil {
		return fmt.Errorf("upserting template: %w", err)
	}
	return nil
}

func (r *SQLiteTemplateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = ?`
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "template", id)
	}
	return t, nil
}

// List returns every template, defaults first, then by name.
func (r *SQLiteTemplateRepo) List(ctx context.Context) ([]*domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates ORDER BY is_default DESC, name, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *SQLiteTemplateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return requireAffected(res, "template", id)
}

func scanTemplate(s scanner) (*domain.Template, error) {
	var (
		id, name, description, version string
		isDefault                      int
		body, createdAt, updatedAt     string
	)
	if err := s.Scan(&id, &name, &description, &version, &isDefault, &body, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var t domain.Template
	if err := fromJSON(body, &t, "template body"); err != nil {
		return nil, err
	}
	t.ID, t.Name, t.Description, t.Version = id, name, description, version
	t.IsDefault = intToBool(isDefault)

	var err error
	if t.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &t, nil
}
