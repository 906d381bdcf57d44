package export

import (
	"testing"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, completion domain.Completion) *Session {
	t.Helper()
	s, err := NewSession(deepFlow(), completion)
	require.NoError(t, err)
	return s
}

func TestSession_DefaultsAndBoardName(t *testing.T) {
	s := newTestSession(t, nil)
	cfg := s.Config()
	assert.Equal(t, domain.ScopeFull, cfg.Scope)
	assert.Equal(t, "Audit Full", cfg.BoardName)

	require.NoError(t, s.SetScope(domain.ScopeTag))
	assert.Equal(t, "Audit Tag-Filtered", s.Config().BoardName)
	s.SetTag("iso")
	assert.Equal(t, "Audit #iso", s.Config().BoardName)
	require.NoError(t, s.SetScope(domain.ScopePartial))
	assert.Equal(t, "Audit Partial", s.Config().BoardName)

	assert.Error(t, s.SetScope("sideways"))
	assert.Equal(t, []string{"iso"}, s.Tags())
}

func TestSession_ToggleNodeSelectsDescendants(t *testing.T) {
	s := newTestSession(t, nil)
	require.NoError(t, s.SetScope(domain.ScopePartial))

	require.NoError(t, s.ToggleNode("A1", true))
	assert.Equal(t, []string{"A1", "A1x", "A1y"}, s.Config().SelectedNodeIDs)

	require.NoError(t, s.ToggleNode("A1", false))
	assert.Equal(t, []string{"A1x", "A1y"}, s.Config().SelectedNodeIDs, "unchecking does not cascade")

	require.NoError(t, s.ToggleNode("B", true))
	assert.Equal(t, []string{"A1x", "A1y", "B"}, s.Config().SelectedNodeIDs, "selection kept in tree order")

	assert.Error(t, s.ToggleNode("nope", true))
}

func TestSession_DynamicListRebuildsDefaultsOnScopeChange(t *testing.T) {
	s := newTestSession(t, domain.Completion{"A1x": true})
	s.SetDynamicList(true)

	assert.Equal(t, domain.DynamicTask, s.TypeOf("A1x"))
	assert.Equal(t, domain.ColumnDone, s.ColumnOf("A1x"))

	require.NoError(t, s.SetNodeType("A1x", domain.DynamicConnection))
	assert.Equal(t, domain.DynamicConnection, s.TypeOf("A1x"))

	require.NoError(t, s.SetScope(domain.ScopeTag))
	s.SetTag("iso")
	assert.Equal(t, domain.DynamicTask, s.TypeOf("A1x"), "scope change re-derives defaults")
	assert.Equal(t, domain.DynamicSkip, s.TypeOf("A"))
	assert.Equal(t, domain.ColumnNone, s.ColumnOf("A"))
}

func TestSession_BulkOverwritesManualTypes(t *testing.T) {
	s := newTestSession(t, nil)
	s.SetDynamicList(true)
	require.NoError(t, s.SetNodeType("A", domain.DynamicTask))

	s.SetReference(true)
	assert.Equal(t, domain.DynamicConnection, s.TypeOf("A"))
	assert.Equal(t, domain.DynamicTask, s.TypeOf("A1"), "depth 1 is below reference level 0")

	require.NoError(t, s.SetReferenceLevel(1))
	assert.Equal(t, domain.DynamicConnection, s.Config().DynamicListTypes["A1"])
	assert.Equal(t, domain.DynamicTask, s.Config().DynamicListTypes["A1x"])

	assert.Error(t, s.SetReferenceLevel(3))
}

func TestSession_NodeColumn(t *testing.T) {
	s := newTestSession(t, nil)
	s.SetDynamicList(true)

	require.NoError(t, s.SetNodeColumn("B", domain.ColumnReview))
	assert.Equal(t, domain.ColumnReview, s.ColumnOf("B"))

	require.NoError(t, s.SetNodeType("B", domain.DynamicSkip))
	assert.Equal(t, domain.ColumnNone, s.ColumnOf("B"), "skipping clears the column")

	err := s.SetNodeColumn("B", domain.ColumnDone)
	require.Error(t, err)
	assert.Equal(t, ErrInvalidColumn, CodeOf(err))

	assert.Error(t, s.SetNodeColumn("A", "someday"))
	require.NoError(t, s.SetNodeColumn("A", domain.ColumnTodo))
	require.NoError(t, s.SetNodeColumn("A", domain.ColumnNone))
	assert.Equal(t, domain.ColumnNone, s.ColumnOf("A"))

	assert.Error(t, s.SetNodeType("A", "bogus"))
}

func TestSession_ConfigIsACopy(t *testing.T) {
	s := newTestSession(t, nil)
	s.SetDynamicList(true)
	cfg := s.Config()
	cfg.DynamicListTypes["A"] = domain.DynamicSkip
	assert.Equal(t, domain.DynamicConnection, s.TypeOf("A"))
}

func TestSession_ExportsWithEngine(t *testing.T) {
	s := newTestSession(t, nil)
	s.SetDynamicList(true)
	s.SetReference(true)
	require.NoError(t, s.SetNodeColumn("A", domain.ColumnDone))
	s.SetBoardName("From session")
	s.SetBoardDescription("desc")

	board, err := testEngine().Export(s.Flow(), nil, s.Config())
	require.NoError(t, err)
	assert.Equal(t, "From session", board.Name)
	assert.Len(t, board.CardsBySource("A"), 2)
	assert.Len(t, board.CardsInColumn(domain.ColumnNameReferences), 2)
	assert.Len(t, board.DynamicList.Nodes, 6)
}

func TestSession_RequiresTemplate(t *testing.T) {
	f := deepFlow()
	f.TemplateSnapshot = nil
	_, err := NewSession(f, nil)
	assert.Error(t, err)
}
