package export

import (
	"testing"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultType(t *testing.T) {
	assert.Equal(t, domain.DynamicConnection, DefaultType(0))
	assert.Equal(t, domain.DynamicConnection, DefaultType(1))
	assert.Equal(t, domain.DynamicTask, DefaultType(2))
	assert.Equal(t, domain.DynamicTask, DefaultType(5))
}

func TestBulkType(t *testing.T) {
	assert.Equal(t, domain.DynamicConnection, BulkType(0, 1))
	assert.Equal(t, domain.DynamicConnection, BulkType(1, 1))
	assert.Equal(t, domain.DynamicTask, BulkType(2, 1))
	assert.Equal(t, domain.DynamicTask, BulkType(1, 0))
}

func TestDefaultColumn(t *testing.T) {
	assert.Equal(t, domain.ColumnDone, DefaultColumn(&domain.Node{Grade: 3}, true))
	assert.Equal(t, domain.ColumnInProgress, DefaultColumn(&domain.Node{Grade: 3}, false))
	assert.Equal(t, domain.ColumnNone, DefaultColumn(&domain.Node{}, false))
	assert.Equal(t, domain.ColumnNone, DefaultColumn(&domain.Node{Grade: -1}, false))
}

func TestClassify(t *testing.T) {
	n := &domain.Node{ID: "n", Tags: []string{"x"}}
	cfg := &Config{
		Scope:                  domain.ScopeTag,
		TagFilter:              "x",
		DynamicListTypes:       map[string]domain.DynamicListType{},
		BoardColumnAssignments: map[string]domain.ColumnKey{"n": domain.ColumnReview},
	}
	f := NewFilter(cfg)

	assert.Equal(t, Classification{Type: domain.DynamicConnection, Column: domain.ColumnReview}, Classify(n, 0, cfg, f))
	assert.Equal(t, domain.DynamicTask, Classify(n, 2, cfg, f).Type)

	cfg.DynamicListTypes["n"] = domain.DynamicTask
	assert.Equal(t, domain.DynamicTask, Classify(n, 0, cfg, f).Type, "explicit choice wins")

	cfg.DynamicListTypes["n"] = domain.DynamicSkip
	assert.Equal(t, Classification{Type: domain.DynamicSkip}, Classify(n, 0, cfg, f), "skip never has a column")

	other := &domain.Node{ID: "o"}
	cfg.DynamicListTypes["o"] = domain.DynamicTask
	assert.Equal(t, Classification{Type: domain.DynamicSkip}, Classify(other, 0, cfg, f), "out of scope is always skip")
}

func TestClassify_BulkModeWithoutExplicitType(t *testing.T) {
	cfg := &Config{Scope: domain.ScopeFull, ExportReference: true, ExportDynamicList: true, ReferenceLevel: 2}
	f := NewFilter(cfg)
	n := &domain.Node{ID: "n"}
	assert.Equal(t, domain.DynamicConnection, Classify(n, 2, cfg, f).Type)
	assert.Equal(t, domain.DynamicTask, Classify(n, 3, cfg, f).Type)
}

func TestDefaults(t *testing.T) {
	f := deepFlow()
	f.Data[0].Subcategories[1].Grade = 4
	cfg := &Config{Scope: domain.ScopePartial, SelectedNodeIDs: []string{"A", "A1", "A1x", "A2"}}

	Defaults(f.Data, 3, cfg, domain.Completion{"A1x": true, "B": true})

	assert.Equal(t, domain.DynamicConnection, cfg.DynamicListTypes["A"])
	assert.Equal(t, domain.DynamicConnection, cfg.DynamicListTypes["A1"])
	assert.Equal(t, domain.DynamicTask, cfg.DynamicListTypes["A1x"])
	assert.Equal(t, domain.DynamicSkip, cfg.DynamicListTypes["A1y"])
	assert.Equal(t, domain.DynamicSkip, cfg.DynamicListTypes["B"])

	assert.Equal(t, map[string]domain.ColumnKey{
		"A1x": domain.ColumnDone,
		"A2":  domain.ColumnInProgress,
	}, cfg.BoardColumnAssignments, "out-of-scope B gets no column even though it is done")
}

func TestApplyBulk_OverwritesManualChoices(t *testing.T) {
	f := deepFlow()
	cfg := &Config{
		Scope:             domain.ScopeFull,
		ExportReference:   true,
		ExportDynamicList: true,
		ReferenceLevel:    1,
		DynamicListTypes:  map[string]domain.DynamicListType{"A": domain.DynamicTask, "A1x": domain.DynamicSkip},
	}
	ApplyBulk(f.Data, 3, cfg)

	assert.Equal(t, domain.DynamicConnection, cfg.DynamicListTypes["A"])
	assert.Equal(t, domain.DynamicConnection, cfg.DynamicListTypes["A1"])
	assert.Equal(t, domain.DynamicTask, cfg.DynamicListTypes["A1x"])
	assert.Len(t, cfg.DynamicListTypes, 6)
}

func TestApplyBulk_NoopUnlessBothEnabled(t *testing.T) {
	f := deepFlow()
	cfg := &Config{Scope: domain.ScopeFull, ExportDynamicList: true, DynamicListTypes: map[string]domain.DynamicListType{"A": domain.DynamicTask}}
	ApplyBulk(f.Data, 3, cfg)
	assert.Equal(t, map[string]domain.DynamicListType{"A": domain.DynamicTask}, cfg.DynamicListTypes)
}
