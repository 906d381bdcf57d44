package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/repository"
	"github.com/alexanderramin/flowboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowService_CreateUsesDefaultTemplate(t *testing.T) {
	f := newFixture(t)
	svc := f.flowService(nil)
	ctx := context.Background()

	flow, err := svc.Create(ctx, "  Inbox ", "")
	require.NoError(t, err)
	assert.Equal(t, "Inbox", flow.Name)
	assert.Equal(t, domain.DefaultEmptyTemplate().ID, flow.TemplateID)
	require.NotNil(t, flow.TemplateSnapshot)
	assert.Equal(t, 1, flow.TemplateSnapshot.Depth())

	stored, err := svc.Get(ctx, flow.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Data)
	assert.Equal(t, "create-flow", f.observer.last().Name)
}

func TestFlowService_CreateUnknownTemplate(t *testing.T) {
	f := newFixture(t)
	_, err := f.flowService(nil).Create(context.Background(), "X", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFlowService_CopyCarriesCompletion(t *testing.T) {
	f := newFixture(t)
	svc := f.flowService(nil)
	ctx := context.Background()

	source := f.storeFlow(t, "Spring")
	require.NoError(t, svc.SetCompletion(ctx, source.ID, "mockup", true))

	cp, err := svc.Copy(ctx, source.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Spring (Copy)", cp.Name)
	assert.NotEqual(t, source.ID, cp.ID)

	ix := domain.IndexNodes(cp.Data)
	_, kept := ix.Lookup("mockup")
	assert.False(t, kept, "copies get fresh node ids")

	completion, err := svc.Completion(ctx, cp.ID)
	require.NoError(t, err)
	require.Equal(t, 1, completion.Count())
	for id := range completion {
		ref, ok := ix.Lookup(id)
		require.True(t, ok)
		assert.Equal(t, "Mockup", ref.Node.Name)
		assert.Empty(t, ref.Node.Origin)
	}

	_, linked, err := svc.LinkGroup(ctx, cp.ID)
	require.NoError(t, err)
	assert.False(t, linked)
}

func TestFlowService_SaveStructurePreservesLinkedCompletion(t *testing.T) {
	f := newFixture(t)
	svc := f.flowService(nil)
	ctx := context.Background()

	source := f.storeFlow(t, "Spring")
	linked, err := svc.CreateLinked(ctx, source.ID, "Autumn")
	require.NoError(t, err)
	assert.NotEmpty(t, linked.GroupID)

	// Mark the target's copy of "mockup" done.
	var targetMockup string
	_ = domain.Walk(linked.Flow.Data, func(n *domain.Node, _ int, _ *domain.Node) error {
		if n.Origin == "mockup" {
			targetMockup = n.ID
		}
		return nil
	})
	require.NotEmpty(t, targetMockup)
	require.NoError(t, svc.SetCompletion(ctx, linked.Flow.ID, targetMockup, true))

	// Insert a new root before everything else.
	stored, err := svc.Get(ctx, source.ID)
	require.NoError(t, err)
	data := append([]*domain.Node{testutil.NewTestNode("Kickoff", testutil.WithNodeID("kickoff"))}, stored.Data...)

	res, err := svc.SaveStructure(ctx, source.ID, data)
	require.NoError(t, err)
	assert.Equal(t, []string{linked.Flow.ID}, res.Updated)
	assert.Empty(t, res.Skipped)

	target, err := svc.Get(ctx, linked.Flow.ID)
	require.NoError(t, err)
	assert.Equal(t, "Autumn", target.Name)
	require.Len(t, target.Data, 3)
	assert.Equal(t, "Kickoff", target.Data[0].Name)

	completion, err := svc.Completion(ctx, linked.Flow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Completion{targetMockup: true}, completion)
	ref, ok := domain.IndexNodes(target.Data).Lookup(targetMockup)
	require.True(t, ok)
	assert.Equal(t, "Mockup", ref.Node.Name)
}

func TestFlowService_SaveStructureSkipsOtherTemplate(t *testing.T) {
	f := newFixture(t)
	svc := f.flowService(nil)
	ctx := context.Background()

	a := f.storeFlow(t, "A")
	b := f.storeFlow(t, "B") // separate template
	require.NoError(t, f.links.Replace(ctx, []domain.LinkGroup{{GroupID: "g", Workflows: []string{a.ID, b.ID}}}))

	res, err := svc.SaveStructure(ctx, a.ID, a.Data[:1])
	require.NoError(t, err)
	assert.Empty(t, res.Updated)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, b.ID, res.Skipped[0].FlowID)

	untouched, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, untouched.Data, 2)
}

func TestFlowService_SaveStructurePrunesRemovedCompletion(t *testing.T) {
	f := newFixture(t)
	svc := f.flowService(nil)
	ctx := context.Background()

	flow := f.storeFlow(t, "Spring")
	require.NoError(t, svc.SetCompletion(ctx, flow.ID, "build", true))
	require.NoError(t, svc.SetCompletion(ctx, flow.ID, "mockup", true))

	_, err := svc.SaveStructure(ctx, flow.ID, flow.Data[:1])
	require.NoError(t, err)

	completion, err := svc.Completion(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Completion{"mockup": true}, completion)
}

func TestFlowService_SaveStructureRejectsInvalidTree(t *testing.T) {
	f := newFixture(t)
	svc := f.flowService(nil)
	flow := f.storeFlow(t, "Spring")

	dup := []*domain.Node{{ID: "x"}, {ID: "x"}}
	_, err := svc.SaveStructure(context.Background(), flow.ID, dup)
	require.Error(t, err)
	var perr *PersistError
	assert.False(t, errors.As(err, &perr), "validation errors are not persistence errors")
	assert.Contains(t, err.Error(), "duplicate node id x")
}

func TestFlowService_SaveStructureRollsBackOnLinkedWriteFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	source := f.storeFlow(t, "Spring")
	linked, err := f.flowService(nil).CreateLinked(ctx, source.ID, "Autumn")
	require.NoError(t, err)

	// Exec #1 source data, #2 source completion delete, #3 target data.
	failUoW := &testutil.FailOnNthExecUoW{DB: f.db, FailOn: 3, Err: errors.New("injected target write failure")}
	svc := f.flowService(failUoW)

	_, err = svc.SaveStructure(ctx, source.ID, source.Data[:1])
	require.Error(t, err)
	var perr *PersistError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "injected target write failure")

	stored, err := f.flows.GetByID(ctx, source.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Data, 2, "source change rolled back")
	target, err := f.flows.GetByID(ctx, linked.Flow.ID)
	require.NoError(t, err)
	assert.Len(t, target.Data, 2)
}

func TestFlowService_UnlinkAndDelete(t *testing.T) {
	f := newFixture(t)
	svc := f.flowService(nil)
	ctx := context.Background()

	source := f.storeFlow(t, "A")
	b, err := svc.CreateLinked(ctx, source.ID, "B")
	require.NoError(t, err)
	c, err := svc.CreateLinked(ctx, b.Flow.ID, "C")
	require.NoError(t, err)
	assert.Equal(t, b.GroupID, c.GroupID, "joins the existing group")

	require.NoError(t, svc.Unlink(ctx, c.Flow.ID))
	assert.ErrorIs(t, svc.Unlink(ctx, c.Flow.ID), ErrNotLinked)

	g, ok, err := svc.LinkGroup(ctx, source.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{source.ID, b.Flow.ID}, g.Workflows)

	require.NoError(t, svc.Delete(ctx, b.Flow.ID))
	_, ok, err = svc.LinkGroup(ctx, source.ID)
	require.NoError(t, err)
	assert.False(t, ok, "group below two members is dissolved")
	_, err = svc.Get(ctx, b.Flow.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFlowService_SetCompletionChecksNode(t *testing.T) {
	f := newFixture(t)
	svc := f.flowService(nil)
	ctx := context.Background()

	flow := f.storeFlow(t, "Spring")
	assert.ErrorIs(t, svc.SetCompletion(ctx, flow.ID, "ghost", true), ErrUnknownNode)

	tpl := flow.TemplateSnapshot
	tpl.Levels[0].UnitConfig.EnableDone = false
	require.NoError(t, f.flows.Update(ctx, flow))
	assert.ErrorIs(t, svc.SetCompletion(ctx, flow.ID, "design", true), ErrNotTrackable)

	require.NoError(t, svc.SetCompletion(ctx, flow.ID, "sketch", true))
	require.NoError(t, svc.SetCompletion(ctx, flow.ID, "sketch", false))
	completion, err := svc.Completion(ctx, flow.ID)
	require.NoError(t, err)
	assert.Zero(t, completion.Count())
}

func TestFlowService_Rename(t *testing.T) {
	f := newFixture(t)
	svc := f.flowService(nil)
	ctx := context.Background()

	flow := f.storeFlow(t, "Spring")
	require.Error(t, svc.Rename(ctx, flow.ID, " "))
	require.NoError(t, svc.Rename(ctx, flow.ID, "Summer"))

	got, err := svc.Get(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer", got.Name)
}
