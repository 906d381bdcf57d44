package export

import "github.com/alexanderramin/flowboard/internal/domain"

// Classification is the dynamic-list role and target column of one node.
type Classification struct {
	Type   domain.DynamicListType
	Column domain.ColumnKey
}

// DefaultType treats the two shallowest levels as organizational and
// everything deeper as actionable.
func DefaultType(depth int) domain.DynamicListType {
	if depth <= 1 {
		return domain.DynamicConnection
	}
	return domain.DynamicTask
}

// BulkType derives a node type from its depth relative to the reference
// level: the reference level and everything above it are connections.
func BulkType(depth, referenceLevel int) domain.DynamicListType {
	if depth <= referenceLevel {
		return domain.DynamicConnection
	}
	return domain.DynamicTask
}

// DefaultColumn proposes a column from workflow state: done nodes go to
// Done, graded nodes to In Progress. Anything else gets no column.
func DefaultColumn(n *domain.Node, done bool) domain.ColumnKey {
	switch {
	case done:
		return domain.ColumnDone
	case n.Grade > 0:
		return domain.ColumnInProgress
	default:
		return domain.ColumnNone
	}
}

// bulkMode reports whether node types are driven by the reference level.
func (c *Config) bulkMode() bool {
	return c.ExportReference && c.ExportDynamicList
}

// Classify decides the role and column of n. Out-of-scope nodes are always
// skipped. An explicit per-node type wins; otherwise the type comes from the
// reference level in bulk mode or from the depth heuristic. The column is
// only what the caller assigned, and skipped nodes never get one.
func Classify(n *domain.Node, depth int, cfg *Config, f *Filter) Classification {
	if !f.InScope(n) {
		return Classification{Type: domain.DynamicSkip}
	}
	typ, ok := cfg.DynamicListTypes[n.ID]
	if !ok {
		if cfg.bulkMode() {
			typ = BulkType(depth, cfg.ReferenceLevel)
		} else {
			typ = DefaultType(depth)
		}
	}
	if typ == domain.DynamicSkip {
		return Classification{Type: typ}
	}
	return Classification{Type: typ, Column: cfg.BoardColumnAssignments[n.ID]}
}

// Defaults fills cfg.DynamicListTypes and cfg.BoardColumnAssignments with
// the per-node defaults for the current scope, replacing previous entries.
// Nodes outside the scope are recorded as skip with no column.
func Defaults(roots []*domain.Node, maxDepth int, cfg *Config, completion domain.Completion) {
	f := NewFilter(cfg)
	cfg.DynamicListTypes = make(map[string]domain.DynamicListType)
	cfg.BoardColumnAssignments = make(map[string]domain.ColumnKey)
	_ = domain.WalkBounded(roots, maxDepth, func(n *domain.Node, depth int, _ *domain.Node) error {
		if !f.InScope(n) {
			cfg.DynamicListTypes[n.ID] = domain.DynamicSkip
			return nil
		}
		cfg.DynamicListTypes[n.ID] = DefaultType(depth)
		if col := DefaultColumn(n, completion.IsDone(n.ID)); col != domain.ColumnNone {
			cfg.BoardColumnAssignments[n.ID] = col
		}
		return nil
	})
}

// ApplyBulk re-derives every node's type from the reference level. It runs
// only when both the reference column and the dynamic list are enabled and
// overwrites any earlier manual choice.
func ApplyBulk(roots []*domain.Node, maxDepth int, cfg *Config) {
	if !cfg.bulkMode() {
		return
	}
	if cfg.DynamicListTypes == nil {
		cfg.DynamicListTypes = make(map[string]domain.DynamicListType)
	}
	_ = domain.WalkBounded(roots, maxDepth, func(n *domain.Node, depth int, _ *domain.Node) error {
		cfg.DynamicListTypes[n.ID] = BulkType(depth, cfg.ReferenceLevel)
		return nil
	})
}
