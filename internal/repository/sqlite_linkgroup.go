package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/flowboard/internal/db"
	"github.com/alexanderramin/flowboard/internal/domain"
)

type SQLiteLinkGroupRepo struct {
	db db.DBTX
}

func NewSQLiteLinkGroupRepo(db db.DBTX) *SQLiteLinkGroupRepo {
	return &SQLiteLinkGroupRepo{db: db}
}

// List returns every group with members in insertion order.
func (r *SQLiteLinkGroupRepo) List(ctx context.Context) ([]domain.LinkGroup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT g.id, m.flow_id
		FROM link_groups g
		JOIN link_group_members m ON m.group_id = g.id
		ORDER BY g.position, g.id, m.position`)
	if err != nil {
		return nil, fmt.Errorf("listing link groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.LinkGroup
	for rows.Next() {
		var groupID, flowID string
		if err := rows.Scan(&groupID, &flowID); err != nil {
			return nil, fmt.Errorf("scanning link group: %w", err)
		}
		if n := len(groups); n > 0 && groups[n-1].GroupID == groupID {
			groups[n-1].Workflows = append(groups[n-1].Workflows, flowID)
			continue
		}
		groups = append(groups, domain.LinkGroup{GroupID: groupID, Workflows: []string{flowID}})
	}
	return groups, rows.Err()
}

// Replace overwrites the stored groups with groups, keeping their order.
func (r *SQLiteLinkGroupRepo) Replace(ctx context.Context, groups []domain.LinkGroup) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM link_groups`); err != nil {
		return fmt.Errorf("clearing link groups: %w", err)
	}
	stamp := nowUTC()
	for i, g := range groups {
		_, err := r.db.ExecContext(ctx, `INSERT INTO link_groups (id, position, created_at) VALUES (?, ?, ?)`,
			g.GroupID, i, stamp)
		if err != nil {
			return fmt.Errorf("inserting link group: %w", err)
		}
		for pos, flowID := range g.Workflows {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO link_group_members (group_id, flow_id, position) VALUES (?, ?, ?)`,
				g.GroupID, flowID, pos)
			if err != nil {
				return fmt.Errorf("inserting link group member: %w", err)
			}
		}
	}
	return nil
}
