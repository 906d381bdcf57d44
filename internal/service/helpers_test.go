package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/flowboard/internal/db"
	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/export"
	"github.com/alexanderramin/flowboard/internal/ident"
	"github.com/alexanderramin/flowboard/internal/publish"
	"github.com/alexanderramin/flowboard/internal/repository"
	"github.com/alexanderramin/flowboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

// recordingObserver keeps every event it sees.
type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	return r.events[len(r.events)-1]
}

type fixture struct {
	db         *sql.DB
	templates  *repository.SQLiteTemplateRepo
	flows      *repository.SQLiteFlowRepo
	executions *repository.SQLiteExecutionRepo
	links      *repository.SQLiteLinkGroupRepo
	boards     *repository.SQLiteBoardRepo
	ids        *ident.Sequence
	observer   *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &fixture{
		db:         database,
		templates:  repository.NewSQLiteTemplateRepo(database),
		flows:      repository.NewSQLiteFlowRepo(database),
		executions: repository.NewSQLiteExecutionRepo(database),
		links:      repository.NewSQLiteLinkGroupRepo(database),
		boards:     repository.NewSQLiteBoardRepo(database),
		ids:        ident.NewSequence(),
		observer:   &recordingObserver{},
	}
}

func (f *fixture) flowService(uow db.UnitOfWork) FlowService {
	if uow == nil {
		uow = testutil.NewTestUoW(f.db)
	}
	return NewFlowService(f.flows, f.executions, f.links, f.templates, uow, f.ids, nil, f.observer)
}

func (f *fixture) exportService(uow db.UnitOfWork, remote publish.BoardSink) ExportService {
	if uow == nil {
		uow = testutil.NewTestUoW(f.db)
	}
	engine := export.NewEngine(export.WithIDs(f.ids), export.WithSeed(1))
	return NewExportService(f.flows, f.executions, uow, engine, remote, f.observer)
}

// storeFlow persists a flow over a fresh three-level template holding the
// shared test tree.
func (f *fixture) storeFlow(t *testing.T, name string) *domain.Flow {
	t.Helper()
	ctx := context.Background()
	tpl := testutil.NewTestTemplate("Course")
	require.NoError(t, f.templates.Upsert(ctx, tpl))
	flow := testutil.NewTestFlow(name, tpl, testutil.WithData(testutil.NewTestTree()...))
	require.NoError(t, f.flows.Create(ctx, flow))
	return flow
}

func countRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
