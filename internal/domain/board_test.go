package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoard() *Board {
	return &Board{
		ID: "board_1",
		Columns: []Column{
			{ID: "col_ref", Name: ColumnNameReferences, Locked: true},
			{ID: "col_todo", Name: ColumnNameTodo},
			{ID: "col_done", Name: ColumnNameDone},
		},
		Cards: []Card{
			{ID: "card_1", ColumnID: "col_ref", SourceID: "n1"},
			{ID: "card_2", ColumnID: "col_done", SourceID: "n1"},
		},
	}
}

func TestColumnIDForKey(t *testing.T) {
	b := testBoard()
	assert.Equal(t, "col_done", b.ColumnIDForKey(ColumnDone))
	assert.Equal(t, "col_todo", b.ColumnIDForKey(ColumnTodo))
	assert.Equal(t, "col_ref", b.ColumnIDForKey(ColumnReview), "missing column falls back to the first column")
	assert.Equal(t, "col_ref", b.ColumnIDForKey("bogus"))
	assert.Equal(t, "", (&Board{}).ColumnIDForKey(ColumnDone))
}

func TestBoardLookups(t *testing.T) {
	b := testBoard()
	assert.Len(t, b.CardsBySource("n1"), 2)
	assert.Len(t, b.CardsInColumn(ColumnNameDone), 1)
	assert.Nil(t, b.CardsInColumn("Nope"))
	assert.Nil(t, b.LabelByName("x"))
}

func TestValidateColumns(t *testing.T) {
	b := testBoard()
	require.NoError(t, b.ValidateColumns())

	b.Cards = append(b.Cards, Card{ID: "card_3", ColumnID: "col_gone"})
	err := b.ValidateColumns()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card_3")
}

func TestLinkGroup(t *testing.T) {
	g := &LinkGroup{GroupID: "link_1", Workflows: []string{"x", "y", "z"}}
	assert.True(t, g.Contains("y"))
	assert.False(t, g.Contains("w"))
	assert.Equal(t, []string{"x", "z"}, g.Others("y"))
}

func TestColumnKeyName(t *testing.T) {
	assert.Equal(t, "In Progress", ColumnInProgress.ColumnName())
	assert.Equal(t, "custom", ColumnKey("custom").ColumnName())
}
