package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillBoardCardCounts(db); err != nil {
		return fmt.Errorf("backfilling board card counts: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS templates (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		version     TEXT NOT NULL DEFAULT '',
		is_default  INTEGER NOT NULL DEFAULT 0,
		body        TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS flows (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		template_id       TEXT NOT NULL,
		template_snapshot TEXT NOT NULL,
		icon              TEXT NOT NULL DEFAULT '',
		description       TEXT NOT NULL DEFAULT '',
		data              TEXT NOT NULL DEFAULT '[]',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_flows_template ON flows(template_id)`,

	`CREATE TABLE IF NOT EXISTS executions (
		flow_id    TEXT NOT NULL REFERENCES flows(id) ON DELETE CASCADE,
		node_id    TEXT NOT NULL,
		completed  INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (flow_id, node_id)
	)`,

	`CREATE TABLE IF NOT EXISTS link_groups (
		id         TEXT PRIMARY KEY,
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,

	// UNIQUE(flow_id) keeps a flow in at most one group.
	`CREATE TABLE IF NOT EXISTS link_group_members (
		group_id TEXT NOT NULL REFERENCES link_groups(id) ON DELETE CASCADE,
		flow_id  TEXT NOT NULL UNIQUE REFERENCES flows(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		PRIMARY KEY (group_id, flow_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_link_members_group ON link_group_members(group_id, position)`,

	`CREATE TABLE IF NOT EXISTS boards (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		source_flow_id TEXT NOT NULL DEFAULT '',
		body           TEXT NOT NULL,
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_boards_source_flow ON boards(source_flow_id)`,

	// Summary counts for board listings without decoding the body.
	`ALTER TABLE boards ADD COLUMN card_count INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE boards ADD COLUMN dynamic_count INTEGER NOT NULL DEFAULT 0`,
}

// migrateBackfillBoardCardCounts fills the summary counts of boards stored
// before the count columns existed. Idempotent: only rows with both counts
// at zero and a non-empty body are touched.
func migrateBackfillBoardCardCounts(db *sql.DB) error {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `UPDATE boards
		SET card_count    = COALESCE(json_array_length(body, '$.cards'), 0),
		    dynamic_count = COALESCE(json_array_length(body, '$.dynamicList.nodes'), 0)
		WHERE card_count = 0 AND dynamic_count = 0 AND json_valid(body)`)
	if err != nil {
		return fmt.Errorf("updating board counts: %w", err)
	}
	return nil
}
