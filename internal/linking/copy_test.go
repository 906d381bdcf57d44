package linking

import (
	"testing"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFlow_RegeneratesIDsAndCarriesCompletion(t *testing.T) {
	src := flowOf("S", n("a", n("a1")), n("b"))
	src.Icon = "fa-star"
	c := CopyFlow(src, domain.Completion{"a1": true}, "Copy", ident.NewSequence(), testNow)

	assert.Equal(t, "flow_1", c.Flow.ID)
	assert.Equal(t, "Copy", c.Flow.Name)
	assert.Equal(t, "fa-star", c.Flow.Icon)
	assert.Equal(t, testNow, c.Flow.CreatedAt)
	assert.Equal(t, []string{"unit_2", "unit_3", "unit_4"}, ids(c.Flow.Data))
	assert.Equal(t, []string{"a", "a1", "b"}, names(c.Flow.Data))
	assert.Equal(t, domain.Completion{"unit_3": true}, c.Completion)
	assert.Empty(t, c.Flow.Data[0].Origin, "independent copies start their own lineage")
	assert.Empty(t, c.GroupID)

	assert.Equal(t, "a", src.Data[0].ID)
	assert.NotSame(t, src.TemplateSnapshot, c.Flow.TemplateSnapshot)
}

func TestCloneLinked_JoinsGroupAndKeepsLineage(t *testing.T) {
	reg := NewRegistry(nil)
	gen := ident.NewSequence()
	src := flowOf("S", n("a"))

	first, err := CloneLinked(reg, src, nil, "L1", gen, testNow)
	require.NoError(t, err)
	assert.Equal(t, "a", first.Flow.Data[0].Origin)
	require.NotEmpty(t, first.GroupID)

	second, err := CloneLinked(reg, first.Flow, nil, "L2", gen, testNow)
	require.NoError(t, err)
	assert.Equal(t, first.GroupID, second.GroupID)
	assert.Equal(t, "a", second.Flow.Data[0].Origin, "lineage follows the root node")

	group, ok := reg.GroupOf(src.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"S", first.Flow.ID, second.Flow.ID}, group.Workflows)
}
