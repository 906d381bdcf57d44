package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionRepo_SetAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	flows := NewSQLiteFlowRepo(db)
	repo := NewSQLiteExecutionRepo(db)
	ctx := context.Background()

	flow := testutil.NewTestFlow("Semester", testutil.NewTestTemplate("Course"))
	require.NoError(t, flows.Create(ctx, flow))

	require.NoError(t, repo.Set(ctx, flow.ID, "a", true))
	require.NoError(t, repo.Set(ctx, flow.ID, "b", true))
	require.NoError(t, repo.Set(ctx, flow.ID, "a", true))
	require.NoError(t, repo.Set(ctx, flow.ID, "b", false))

	c, err := repo.Get(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Completion{"a": true}, c)
}

func TestExecutionRepo_GetUnknownFlowIsEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteExecutionRepo(db)

	c, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Zero(t, c.Count())
}

func TestExecutionRepo_Replace(t *testing.T) {
	db := testutil.NewTestDB(t)
	flows := NewSQLiteFlowRepo(db)
	repo := NewSQLiteExecutionRepo(db)
	ctx := context.Background()

	flow := testutil.NewTestFlow("Semester", testutil.NewTestTemplate("Course"))
	require.NoError(t, flows.Create(ctx, flow))
	require.NoError(t, repo.Set(ctx, flow.ID, "old", true))

	require.NoError(t, repo.Replace(ctx, flow.ID, domain.Completion{"x": true, "y": false, "z": true}))

	c, err := repo.Get(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Completion{"x": true, "z": true}, c)
}

func TestExecutionRepo_CascadeOnFlowDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	flows := NewSQLiteFlowRepo(db)
	repo := NewSQLiteExecutionRepo(db)
	ctx := context.Background()

	flow := testutil.NewTestFlow("Semester", testutil.NewTestTemplate("Course"))
	require.NoError(t, flows.Create(ctx, flow))
	require.NoError(t, repo.Set(ctx, flow.ID, "a", true))
	require.NoError(t, flows.Delete(ctx, flow.ID))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM executions`).Scan(&n))
	assert.Zero(t, n)
}
