package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeLevelTemplate() *Template {
	return &Template{
		ID:   "tpl",
		Name: "Audit",
		Levels: []Level{
			{ID: "l0", SingularName: "Chapter", UnitConfig: UnitConfig{GradeCumulative: true}},
			{ID: "l1", SingularName: "Section", UnitConfig: UnitConfig{EnableDone: true}},
			{ID: "l2", SingularName: "Control", UnitConfig: UnitConfig{EnableDone: true, EnableGrade: true}},
		},
	}
}

func sampleTree() []*Node {
	return []*Node{
		{ID: "a", Name: "A", Tags: []string{"urgent"}, Subcategories: []*Node{
			{ID: "a1", Subcategories: []*Node{
				{ID: "a1x", Grade: 2, Tags: []string{"iso"}},
				{ID: "a1y", Grade: 3},
			}},
			{ID: "a2"},
		}},
		{ID: "b", Name: "B", Tags: []string{"iso", "urgent"}},
	}
}

func TestWalk_PreOrderWithDepthAndParent(t *testing.T) {
	var ids []string
	depths := map[string]int{}
	parents := map[string]string{}
	err := Walk(sampleTree(), func(n *Node, depth int, parent *Node) error {
		ids = append(ids, n.ID)
		depths[n.ID] = depth
		if parent != nil {
			parents[n.ID] = parent.ID
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a1", "a1x", "a1y", "a2", "b"}, ids)
	assert.Equal(t, 2, depths["a1y"])
	assert.Equal(t, "a1", parents["a1x"])
	_, hasParent := parents["a"]
	assert.False(t, hasParent)
}

func TestWalk_SkipChildrenAndAbort(t *testing.T) {
	var ids []string
	err := Walk(sampleTree(), func(n *Node, _ int, _ *Node) error {
		ids = append(ids, n.ID)
		if n.ID == "a1" {
			return SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a1", "a2", "b"}, ids)

	boom := errors.New("boom")
	err = Walk(sampleTree(), func(n *Node, _ int, _ *Node) error {
		if n.ID == "a2" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestWalkBounded_StopsAtDepth(t *testing.T) {
	var ids []string
	_ = WalkBounded(sampleTree(), 2, func(n *Node, _ int, _ *Node) error {
		ids = append(ids, n.ID)
		return nil
	})
	assert.Equal(t, []string{"a", "a1", "a2", "b"}, ids)
}

func TestIndexNodes(t *testing.T) {
	ix := IndexNodes(sampleTree())
	assert.Equal(t, 6, ix.Len())

	ref, ok := ix.Lookup("a1y")
	require.True(t, ok)
	assert.Equal(t, 2, ref.Depth)
	assert.Equal(t, "a1", ref.ParentID)
	assert.Equal(t, 1, ref.Index)

	assert.Equal(t, []string{"a1", "a1x", "a1y", "a2"}, ix.Descendants("a"))
	assert.Equal(t, []string{"a1", "a"}, ix.Ancestors("a1x"))
	assert.Equal(t, -1, ix.Depth("missing"))
	assert.Nil(t, ix.Descendants("missing"))
}

func TestCollectTags_SortedUnique(t *testing.T) {
	assert.Equal(t, []string{"iso", "urgent"}, CollectTags(sampleTree()))
	assert.Empty(t, CollectTags(nil))
}

func TestCloneNodes_IsIndependent(t *testing.T) {
	src := sampleTree()
	src[0].Footer = &Footer{Comments: []string{"c1"}}
	clone := CloneNodes(src)

	clone[0].Name = "changed"
	clone[0].Subcategories[0].ID = "changed"
	clone[0].Footer.Comments[0] = "changed"
	clone[0].Tags[0] = "changed"

	assert.Equal(t, "A", src[0].Name)
	assert.Equal(t, "a1", src[0].Subcategories[0].ID)
	assert.Equal(t, "c1", src[0].Footer.Comments[0])
	assert.Equal(t, "urgent", src[0].Tags[0])
	assert.Equal(t, CountNodes(src), CountNodes(clone))
}

func TestFlowValidate(t *testing.T) {
	f := &Flow{ID: "f1", TemplateSnapshot: threeLevelTemplate(), Data: sampleTree()}
	require.NoError(t, f.Validate())

	f.Data[1].ID = "a"
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node id a")

	f.Data = []*Node{{ID: "x", Subcategories: []*Node{{ID: "y", Subcategories: []*Node{{ID: "z", Subcategories: []*Node{{ID: "too-deep"}}}}}}}}
	err = f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds template depth")

	f.TemplateSnapshot = nil
	assert.Error(t, f.Validate())
}

func TestNodeDisplayNameAndBody(t *testing.T) {
	tpl := threeLevelTemplate()
	n := &Node{ID: "n", Description: "desc"}
	assert.Equal(t, "Untitled Section", n.DisplayName(tpl, 1))
	assert.Equal(t, "Untitled Item", n.DisplayName(tpl, 7))
	assert.Equal(t, "desc", n.Body())

	n.Text = "legacy"
	n.Name = "Named"
	assert.Equal(t, "Named", n.DisplayName(tpl, 1))
	assert.Equal(t, "legacy", n.Body())
}

func TestNodeLinkKey(t *testing.T) {
	assert.Equal(t, "own", (&Node{ID: "own"}).LinkKey())
	assert.Equal(t, "src", (&Node{ID: "own", Origin: "src"}).LinkKey())
}
