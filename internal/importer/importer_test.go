package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templatesJSON = `{
  "templates": [{
    "id": "tpl-course",
    "name": "Course",
    "levels": [
      {"id": "l0", "name": "Modules", "singularName": "Module", "pluralName": "Modules",
       "unitConfig": {"enableGrade": true, "gradeCumulative": true}},
      {"id": "l1", "name": "Lessons", "singularName": "Lesson", "pluralName": "Lessons",
       "unitConfig": {"enableGrade": true, "enableDone": true}}
    ]
  }]
}`

const workflowsJSON = `{
  "settings": {"enforceSequence": true},
  "flows": [
    {"id": "f1", "name": "Spring", "templateId": "tpl-course", "data": [
      {"id": "m1", "name": "Intro", "tags": ["core"], "subcategories": [
        {"id": "l1", "name": "Welcome", "grade": 2, "footer": {"links": ["https://a.example"]}},
        {"id": "l2", "name": "Setup", "grade": 3}
      ]}
    ]},
    {"id": "f2", "name": "Autumn", "templateId": "tpl-course", "data": []}
  ]
}`

const executionsJSON = `{"flows": {"f1": {"completed": {"l1": true, "l2": false}}}}`

const linksJSON = `{"links": [{"groupId": "g1", "workflows": ["f1", "f2"]}]}`

func writeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadDir_ConvertsOriginalShapes(t *testing.T) {
	dir := writeDir(t, map[string]string{
		TemplatesFile:  templatesJSON,
		WorkflowsFile:  workflowsJSON,
		ExecutionsFile: executionsJSON,
		LinksFile:      linksJSON,
	})

	b, err := LoadDir(dir)
	require.NoError(t, err)
	assert.True(t, b.Workflows.Settings.EnforceSequence)
	require.Empty(t, ValidateBundle(b, nil))

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ds := Convert(b, nil, now)

	require.Len(t, ds.Templates, 1)
	require.Len(t, ds.Flows, 2)
	f1 := ds.Flows[0]
	require.NotNil(t, f1.TemplateSnapshot)
	assert.Equal(t, "Course", f1.TemplateSnapshot.Name)
	assert.Equal(t, now, f1.CreatedAt)
	assert.Equal(t, 5.0, f1.Data[0].Grade, "cumulative grade recomputed from children")
	assert.Equal(t, "https://a.example", f1.Data[0].Subcategories[0].Footer.Links[0].URL)

	assert.Equal(t, domain.Completion{"l1": true}, ds.Completions["f1"])
	assert.Empty(t, ds.Completions["f2"])
	assert.Equal(t, []domain.LinkGroup{{GroupID: "g1", Workflows: []string{"f1", "f2"}}}, ds.Links)
}

func TestLoadDir_MissingFilesAreEmpty(t *testing.T) {
	b, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, b.Templates.Templates)
	assert.Empty(t, b.Workflows.Flows)
	assert.Empty(t, ValidateBundle(b, nil))
}

func TestLoadDir_InvalidJSON(t *testing.T) {
	dir := writeDir(t, map[string]string{WorkflowsFile: `{"flows": [`})
	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), WorkflowsFile)
}

func TestLoadTemplates_YAMLSingleTemplate(t *testing.T) {
	dir := writeDir(t, map[string]string{"course.yaml": `
name: Course
levels:
  - singularName: Module
  - singularName: Lesson
    unitConfig:
      enableDone: true
`})
	doc, err := LoadTemplates(filepath.Join(dir, "course.yaml"))
	require.NoError(t, err)
	require.Len(t, doc.Templates, 1)
	assert.Empty(t, ValidateTemplates(doc))

	ds := Convert(&Bundle{Templates: *doc}, nil, time.Now().UTC())
	tpl := ds.Templates[0]
	assert.NotEmpty(t, tpl.ID, "missing id is assigned")
	assert.Equal(t, 1, tpl.Levels[1].Order)
	assert.True(t, tpl.Levels[1].UnitConfig.EnableDone)
}

func TestLoadWorkflows_SingleFlowUsesKnownTemplate(t *testing.T) {
	tpl := testutil.NewTestTemplate("Course", testutil.WithTemplateID("tpl-known"))
	dir := writeDir(t, map[string]string{"flow.json": `{"id": "solo", "name": "Solo", "templateId": "tpl-known",
		"data": [{"id": "a", "name": "A"}]}`})

	doc, err := LoadWorkflows(filepath.Join(dir, "flow.json"))
	require.NoError(t, err)
	require.Len(t, doc.Flows, 1)

	known := map[string]*domain.Template{tpl.ID: tpl}
	b := &Bundle{Workflows: *doc}
	require.Empty(t, ValidateBundle(b, known))

	ds := Convert(b, known, time.Now().UTC())
	require.Len(t, ds.Flows, 1)
	require.NotNil(t, ds.Flows[0].TemplateSnapshot)
	assert.Equal(t, 3, ds.Flows[0].TemplateSnapshot.Depth())
	assert.NotSame(t, tpl, ds.Flows[0].TemplateSnapshot)
}

func TestValidateTemplates_ReportsAllProblems(t *testing.T) {
	doc := &TemplatesDocument{Templates: []*domain.Template{
		{ID: "t1", Name: "", Levels: []domain.Level{{SingularName: ""}}},
		{ID: "t1", Name: "Dup", Levels: nil},
	}}
	errs := ValidateTemplates(doc)
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "templates[0].name is required")
	assert.Contains(t, errs[1].Error(), "levels[0].singularName")
	assert.Contains(t, errs[2].Error(), "duplicate id")
	assert.Contains(t, errs[3].Error(), "at least one level")
}

func TestValidateWorkflows_Problems(t *testing.T) {
	tpl := testutil.NewTestTemplate("Course", testutil.WithLevels("Only"))
	templates := map[string]*domain.Template{tpl.ID: tpl}

	doc := &WorkflowsDocument{Flows: []*domain.Flow{
		{ID: "", Name: "No id"},
		{ID: "f1", Name: "Unknown", TemplateID: "nope"},
		{ID: "f2", Name: "Too deep", TemplateID: tpl.ID, Data: []*domain.Node{
			{ID: "a", Subcategories: []*domain.Node{{ID: "b"}}},
		}},
		{ID: "f3", Name: "Dup ids", TemplateID: tpl.ID, Data: []*domain.Node{{ID: "x"}, {ID: "x"}}},
	}}
	errs := ValidateWorkflows(doc, templates)
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "flows[0].id is required")
	assert.Contains(t, errs[1].Error(), `template "nope" not found`)
	assert.Contains(t, errs[2].Error(), "exceeds template depth")
	assert.Contains(t, errs[3].Error(), "duplicate node id x")
}

func TestValidateLinks(t *testing.T) {
	flows := map[string]bool{"f1": true, "f2": true, "f3": true}
	doc := &LinksDocument{Links: []domain.LinkGroup{
		{GroupID: "g1", Workflows: []string{"f1", "f2"}},
		{GroupID: "g2", Workflows: []string{"f2"}},
		{GroupID: "", Workflows: []string{"f3", "ghost"}},
	}}
	errs := ValidateLinks(doc, flows)
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "at least 2 workflows")
	assert.Contains(t, errs[1].Error(), `flow "f2" already linked in group "g1"`)
	assert.Contains(t, errs[2].Error(), "groupId is required")
	assert.Contains(t, errs[3].Error(), `unknown flow "ghost"`)
}

func TestValidateExecutions_UnknownFlow(t *testing.T) {
	doc := &ExecutionsDocument{Flows: map[string]ExecutionState{"ghost": {Completed: map[string]bool{"a": true}}}}
	errs := ValidateExecutions(doc, map[string]bool{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "ghost")
}

func TestLoadNodes_ArrayOrWrapped(t *testing.T) {
	dir := t.TempDir()
	bare := filepath.Join(dir, "bare.json")
	require.NoError(t, os.WriteFile(bare, []byte(`[{"id":"a","name":"A","subcategories":[{"id":"b"}]}]`), 0o644))
	wrapped := filepath.Join(dir, "flow.yaml")
	require.NoError(t, os.WriteFile(wrapped, []byte("id: f1\ndata:\n  - id: a\n    name: A\n"), 0o644))
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"name":"x"}`), 0o644))

	nodes, err := LoadNodes(bare)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "b", nodes[0].Subcategories[0].ID)

	nodes, err = LoadNodes(wrapped)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "A", nodes[0].Name)

	_, err = LoadNodes(empty)
	assert.ErrorContains(t, err, "no data field")
}

func TestLoadNodes_BareFooterURLsInJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	asJSON := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(asJSON, []byte(`[{"id":"a","footer":{"links":["https://x"],"images":["https://x/i.png"]}}]`), 0o644))
	asYAML := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(asYAML, []byte(`- id: a
  footer:
    links:
      - https://x
      - url: https://y
        title: Y
    images:
      - https://x/i.png
`), 0o644))

	nodes, err := LoadNodes(asJSON)
	require.NoError(t, err)
	assert.Equal(t, []domain.Link{{URL: "https://x"}}, nodes[0].Footer.Links)
	assert.Equal(t, []domain.Image{{URL: "https://x/i.png"}}, nodes[0].Footer.Images)

	nodes, err = LoadNodes(asYAML)
	require.NoError(t, err)
	assert.Equal(t, []domain.Link{{URL: "https://x"}, {URL: "https://y", Text: "Y"}}, nodes[0].Footer.Links)
	assert.Equal(t, []domain.Image{{URL: "https://x/i.png"}}, nodes[0].Footer.Images)
}

func TestLoadNodes_SequenceErrorIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: a\n  grade: lots\n"), 0o644))

	_, err := LoadNodes(path)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "Data")
	assert.Contains(t, err.Error(), "tree.yaml")
}
