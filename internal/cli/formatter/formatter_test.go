package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/export"
	"github.com/alexanderramin/flowboard/internal/testutil"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{
		{Bold("long value"), "x"},
		{"s", "y"},
	}))
	assert.Equal(t, "A           B\n──────────  ─\nlong value  x\ns           y\n", out)
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"a"}}))
}

func TestRenderProgress(t *testing.T) {
	assert.Equal(t, "[██░░]  50%", stripANSI(RenderProgress(50, 4)))
	assert.Equal(t, "[░░░░]   0%", stripANSI(RenderProgress(-10, 4)))
	assert.Equal(t, "[████] 100%", stripANSI(RenderProgress(150, 4)))
}

func TestRenderTree_Connectors(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Title: "root", Level: 0},
		{Title: "a", Level: 1, Detail: "50%"},
		{Title: "a1", Level: 2, IsLast: true},
		{Title: "b", Level: 1, IsLast: true, Done: true, Trackable: true},
	}))
	assert.Equal(t, "root\n├─ a      [ 50% ]\n│  └─ a1\n└─ ✔ b\n", out)
}

func TestFormatGrade(t *testing.T) {
	assert.Equal(t, "3", FormatGrade(3))
	assert.Equal(t, "12.25", FormatGrade(12.25))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Feb 1, 2026", HumanTimestamp(now.AddDate(0, 0, -6), now))
}

func TestFormatFlowTree_ShowsCompletionAndProgress(t *testing.T) {
	tpl := testutil.NewTestTemplate("Course")
	flow := testutil.NewTestFlow("Spring", tpl, testutil.WithData(testutil.NewTestTree()...))

	out := stripANSI(FormatFlowTree(FlowView{
		Flow:       flow,
		Completion: domain.Completion{"mockup": true},
		Group:      &domain.LinkGroup{GroupID: "g1", Workflows: []string{flow.ID, "other"}},
	}))
	assert.Contains(t, out, "Spring")
	assert.Contains(t, out, "linked: g1 (2 flows)")
	assert.Contains(t, out, "✔ Mockup mockup")
	assert.Contains(t, out, "○ Wireframe wireframe #ui")
	assert.Contains(t, out, "[ 50% ]")
	assert.Contains(t, out, "[ grade 3 ]")
}

func TestFormatFlowTree_Empty(t *testing.T) {
	tpl := testutil.NewTestTemplate("Course")
	out := stripANSI(FormatFlowTree(FlowView{Flow: testutil.NewTestFlow("Empty", tpl)}))
	assert.Contains(t, out, "(no nodes)")
}

func TestFormatBoard(t *testing.T) {
	b := testutil.NewTestBoard("Sprint", "flow-1")
	b.Cards[0].Labels = []string{"ui"}
	b.DynamicList = domain.DynamicList{IsActive: true, Nodes: []domain.DynamicListNode{
		{ID: "d1", Title: "Design", Type: domain.DynamicConnection, LinkedTaskIDs: []string{"c1"}},
		{ID: "d2", Title: "Sketch", Type: domain.DynamicTask, Level: 1},
	}}

	out := stripANSI(FormatBoard(b))
	assert.Contains(t, out, "To Do (1)")
	assert.Contains(t, out, "• Card #ui")
	assert.Contains(t, out, "DYNAMIC LIST")
	assert.Contains(t, out, "connection Design → 1 card(s)")
	assert.Contains(t, out, "  task Sketch")
}

func TestFormatTemplateShow(t *testing.T) {
	out := stripANSI(FormatTemplateShow(testutil.NewTestTemplate("Course")))
	assert.Contains(t, out, "1. Phase / Phases")
	assert.Contains(t, out, "3. Task / Tasks")
	assert.Contains(t, out, "done, grade")
}

func TestFormatExportError(t *testing.T) {
	out := stripANSI(FormatExportError(&export.Error{Code: export.ErrNoTagSelected, Field: "tagFilter", Message: "please select a tag to filter by"}))
	assert.Equal(t, "NO_TAG_SELECTED please select a tag to filter by (tagFilter)", out)
}
