package service

import (
	"context"
	"time"

	"github.com/alexanderramin/flowboard/internal/db"
	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/export"
	"github.com/alexanderramin/flowboard/internal/publish"
	"github.com/alexanderramin/flowboard/internal/repository"
)

type exportService struct {
	flows      repository.FlowRepo
	executions repository.ExecutionRepo
	uow        db.UnitOfWork
	engine     *export.Engine
	remote     publish.BoardSink
	observer   UseCaseObserver
}

// NewExportService builds the export use case. Boards are always stored
// locally; when remote is non-nil they are also published there inside
// the same transaction, so a remote failure leaves no local board.
func NewExportService(
	flows repository.FlowRepo,
	executions repository.ExecutionRepo,
	uow db.UnitOfWork,
	engine *export.Engine,
	remote publish.BoardSink,
	observers ...UseCaseObserver,
) ExportService {
	return &exportService{
		flows:      flows,
		executions: executions,
		uow:        uow,
		engine:     engine,
		remote:     remote,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *exportService) load(ctx context.Context, flowID string) (*domain.Flow, domain.Completion, error) {
	flow, err := s.flows.GetByID(ctx, flowID)
	if err != nil {
		return nil, nil, err
	}
	completion, err := s.executions.Get(ctx, flowID)
	if err != nil {
		return nil, nil, err
	}
	return flow, completion, nil
}

func (s *exportService) NewSession(ctx context.Context, flowID string) (*export.Session, error) {
	flow, completion, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	return export.NewSession(flow, completion)
}

func (s *exportService) Preview(ctx context.Context, flowID string, cfg export.Config) (export.Summary, error) {
	flow, _, err := s.load(ctx, flowID)
	if err != nil {
		return export.Summary{}, err
	}
	return export.Preview(flow, &cfg), nil
}

// Export builds a board and stores it. Configuration problems come back as
// *export.Error before anything is written; storage failures come back as
// *PersistError and no board is kept.
func (s *exportService) Export(ctx context.Context, flowID string, cfg export.Config) (board *domain.Board, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"flow_id":      flowID,
		"scope":        string(cfg.Scope),
		"dynamic_list": cfg.ExportDynamicList,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "export-board",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	flow, completion, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	built, err := s.engine.Export(flow, completion, cfg)
	if err != nil {
		return nil, err
	}
	fields["board_id"] = built.ID
	fields["card_count"] = len(built.Cards)
	fields["dynamic_count"] = len(built.DynamicList.Nodes)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		local := publish.NewRepoSink(repository.NewSQLiteBoardRepo(tx))
		return publish.Chain(local, s.remote).Publish(ctx, built)
	})
	if err != nil {
		return nil, &PersistError{Op: "export board", Err: err}
	}
	return built, nil
}
