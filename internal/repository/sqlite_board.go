package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/flowboard/internal/db"
	"github.com/alexanderramin/flowboard/internal/domain"
)

// SQLiteBoardRepo stores exported boards as JSON documents with a few
// columns lifted out for listing.
type SQLiteBoardRepo struct {
	db db.DBTX
}

func NewSQLiteBoardRepo(db db.DBTX) *SQLiteBoardRepo {
	return &SQLiteBoardRepo{db: db}
}

const boardSummaryColumns = `id, name, source_flow_id, card_count, dynamic_count, created_at`

func (r *SQLiteBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	body, err := toJSON(b, "board body")
	if err != nil {
		return err
	}
	query := `INSERT INTO boards (id, name, source_flow_id, body, card_count, dynamic_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		b.ID, b.Name, b.SourceFlowID, body, len(b.Cards), len(b.DynamicList.Nodes), formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting board: %w", err)
	}
	return nil
}

func (r *SQLiteBoardRepo) GetByID(ctx context.Context, id string) (*domain.Board, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM boards WHERE id = ?`, id).Scan(&body)
	if err != nil {
		return nil, notFound(err, "board", id)
	}
	var b domain.Board
	if err := fromJSON(body, &b, "board body"); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *SQLiteBoardRepo) List(ctx context.Context) ([]BoardSummary, error) {
	query := `SELECT ` + boardSummaryColumns + ` FROM boards ORDER BY created_at DESC, id`
	return r.listSummaries(ctx, query)
}

func (r *SQLiteBoardRepo) ListBySourceFlow(ctx context.Context, flowID string) ([]BoardSummary, error) {
	query := `SELECT ` + boardSummaryColumns + ` FROM boards WHERE source_flow_id = ? ORDER BY created_at DESC, id`
	return r.listSummaries(ctx, query, flowID)
}

func (r *SQLiteBoardRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting board: %w", err)
	}
	return requireAffected(res, "board", id)
}

func (r *SQLiteBoardRepo) listSummaries(ctx context.Context, query string, args ...any) ([]BoardSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	defer rows.Close()

	var out []BoardSummary
	for rows.Next() {
		var (
			s         BoardSummary
			createdAt string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.SourceFlowID, &s.CardCount, &s.DynamicCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning board: %w", err)
		}
		if s.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
