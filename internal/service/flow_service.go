package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/flowboard/internal/db"
	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/ident"
	"github.com/alexanderramin/flowboard/internal/linking"
	"github.com/alexanderramin/flowboard/internal/repository"
)

type flowService struct {
	flows      repository.FlowRepo
	executions repository.ExecutionRepo
	links      repository.LinkGroupRepo
	templates  repository.TemplateRepo
	uow        db.UnitOfWork
	ids        ident.Generator
	logger     *slog.Logger
	observer   UseCaseObserver
}

func NewFlowService(
	flows repository.FlowRepo,
	executions repository.ExecutionRepo,
	links repository.LinkGroupRepo,
	templates repository.TemplateRepo,
	uow db.UnitOfWork,
	ids ident.Generator,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) FlowService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &flowService{
		flows:      flows,
		executions: executions,
		links:      links,
		templates:  templates,
		uow:        uow,
		ids:        ids,
		logger:     logger,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	flows      *repository.SQLiteFlowRepo
	executions *repository.SQLiteExecutionRepo
	links      *repository.SQLiteLinkGroupRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		flows:      repository.NewSQLiteFlowRepo(tx),
		executions: repository.NewSQLiteExecutionRepo(tx),
		links:      repository.NewSQLiteLinkGroupRepo(tx),
	}
}

func (s *flowService) Create(ctx context.Context, name, templateID string) (flow *domain.Flow, err error) {
	fields := map[string]any{"name": name, "template_id": templateID}
	defer observe(ctx, s.observer, "create-flow", fields)(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("flow name is required")
	}

	var tpl *domain.Template
	if templateID == "" {
		tpl, err = ensureDefaultTemplate(ctx, s.templates)
	} else {
		tpl, err = s.templates.GetByID(ctx, templateID)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	flow = &domain.Flow{
		ID:               s.ids.New(ident.PrefixFlow),
		Name:             name,
		TemplateID:       tpl.ID,
		TemplateSnapshot: domain.CloneTemplate(tpl),
		Data:             []*domain.Node{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	fields["flow_id"] = flow.ID
	if err = s.flows.Create(ctx, flow); err != nil {
		return nil, err
	}
	return flow, nil
}

func (s *flowService) Get(ctx context.Context, id string) (*domain.Flow, error) {
	return s.flows.GetByID(ctx, id)
}

func (s *flowService) List(ctx context.Context) ([]*domain.Flow, error) {
	return s.flows.List(ctx)
}

func (s *flowService) Completion(ctx context.Context, id string) (domain.Completion, error) {
	if _, err := s.flows.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.executions.Get(ctx, id)
}

func (s *flowService) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("flow name is required")
	}
	flow, err := s.flows.GetByID(ctx, id)
	if err != nil {
		return err
	}
	flow.Name = name
	flow.UpdatedAt = time.Now().UTC()
	return s.flows.Update(ctx, flow)
}

// Delete removes a flow, its completion state and its link membership.
func (s *flowService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-flow", map[string]any{"flow_id": id})(&err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		groups, err := r.links.List(ctx)
		if err != nil {
			return err
		}
		reg := linking.NewRegistry(groups)
		if reg.Unlink(id) {
			if err := r.links.Replace(ctx, reg.Groups()); err != nil {
				return err
			}
		}
		return r.flows.Delete(ctx, id)
	})
}

func (s *flowService) Copy(ctx context.Context, sourceID, name string) (flow *domain.Flow, err error) {
	fields := map[string]any{"source_flow_id": sourceID}
	defer observe(ctx, s.observer, "copy-flow", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		source, completion, err := loadFlowState(ctx, r, sourceID)
		if err != nil {
			return err
		}
		c := linking.CopyFlow(source, completion, copyName(source, name), s.ids, time.Now().UTC())
		if err := r.flows.Create(ctx, c.Flow); err != nil {
			return err
		}
		if err := r.executions.Replace(ctx, c.Flow.ID, c.Completion); err != nil {
			return err
		}
		flow = c.Flow
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["flow_id"] = flow.ID
	return flow, nil
}

func (s *flowService) CreateLinked(ctx context.Context, sourceID, name string) (linked *LinkedFlow, err error) {
	fields := map[string]any{"source_flow_id": sourceID}
	defer observe(ctx, s.observer, "create-linked-flow", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		source, completion, err := loadFlowState(ctx, r, sourceID)
		if err != nil {
			return err
		}
		groups, err := r.links.List(ctx)
		if err != nil {
			return err
		}
		reg := linking.NewRegistry(groups)
		c, err := linking.CloneLinked(reg, source, completion, copyName(source, name), s.ids, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := r.flows.Create(ctx, c.Flow); err != nil {
			return err
		}
		if err := r.executions.Replace(ctx, c.Flow.ID, c.Completion); err != nil {
			return err
		}
		if err := r.links.Replace(ctx, reg.Groups()); err != nil {
			return err
		}
		linked = &LinkedFlow{Flow: c.Flow, GroupID: c.GroupID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["flow_id"] = linked.Flow.ID
	fields["group_id"] = linked.GroupID
	return linked, nil
}

func (s *flowService) Unlink(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "unlink-flow", map[string]any{"flow_id": id})(&err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		links := repository.NewSQLiteLinkGroupRepo(tx)
		groups, err := links.List(ctx)
		if err != nil {
			return err
		}
		reg := linking.NewRegistry(groups)
		if !reg.Unlink(id) {
			return fmt.Errorf("flow %s: %w", id, ErrNotLinked)
		}
		return links.Replace(ctx, reg.Groups())
	})
}

func (s *flowService) LinkGroup(ctx context.Context, id string) (domain.LinkGroup, bool, error) {
	groups, err := s.links.List(ctx)
	if err != nil {
		return domain.LinkGroup{}, false, err
	}
	g, ok := linking.NewRegistry(groups).GroupOf(id)
	return g, ok, nil
}

// SaveStructure replaces a flow's tree and pushes the new structure to every
// linked flow in one transaction. Completion entries of removed nodes are
// dropped.
func (s *flowService) SaveStructure(ctx context.Context, id string, data []*domain.Node) (res *SaveResult, err error) {
	fields := map[string]any{"flow_id": id}
	defer observe(ctx, s.observer, "save-structure", fields)(&err)

	var flow *domain.Flow
	if flow, err = s.flows.GetByID(ctx, id); err != nil {
		return nil, err
	}
	flow.Data = domain.CloneNodes(data)
	if flow.Data == nil {
		flow.Data = []*domain.Node{}
	}
	if err = flow.Validate(); err != nil {
		return nil, err
	}
	domain.UpdateCumulativeGrades(flow)
	flow.UpdatedAt = time.Now().UTC()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		completion, err := r.executions.Get(ctx, flow.ID)
		if err != nil {
			return err
		}
		if err := r.flows.UpdateData(ctx, flow.ID, flow.Data, flow.UpdatedAt); err != nil {
			return err
		}
		if err := r.executions.Replace(ctx, flow.ID, pruneCompletion(flow.Data, completion)); err != nil {
			return err
		}
		res, err = s.propagate(ctx, r, flow)
		return err
	})
	if err != nil {
		return nil, &PersistError{Op: "save structure", Err: err}
	}
	fields["updated"] = len(res.Updated)
	fields["skipped"] = len(res.Skipped)
	return res, nil
}

// Propagate pushes the stored structure of a flow to its linked flows.
func (s *flowService) Propagate(ctx context.Context, id string) (res *SaveResult, err error) {
	fields := map[string]any{"flow_id": id}
	defer observe(ctx, s.observer, "propagate", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		flow, err := r.flows.GetByID(ctx, id)
		if err != nil {
			return err
		}
		res, err = s.propagate(ctx, r, flow)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["updated"] = len(res.Updated)
	fields["skipped"] = len(res.Skipped)
	return res, nil
}

func (s *flowService) propagate(ctx context.Context, r txRepos, source *domain.Flow) (*SaveResult, error) {
	groups, err := r.links.List(ctx)
	if err != nil {
		return nil, err
	}
	p := linking.NewPropagator(s.ids, s.logger)
	out, err := p.PropagateLinked(linking.NewRegistry(groups), source, func(flowID string) (linking.Target, error) {
		f, c, err := loadFlowState(ctx, r, flowID)
		if err != nil {
			return linking.Target{}, err
		}
		return linking.Target{Flow: f, Completion: c}, nil
	})
	if err != nil {
		return nil, err
	}

	res := &SaveResult{Flow: source, Skipped: out.Skips}
	now := time.Now().UTC()
	for _, u := range out.Updates {
		if err := r.flows.UpdateData(ctx, u.FlowID, u.Data, now); err != nil {
			return nil, fmt.Errorf("updating linked flow %s: %w", u.FlowID, err)
		}
		if err := r.executions.Replace(ctx, u.FlowID, u.Completion); err != nil {
			return nil, fmt.Errorf("updating linked flow %s completion: %w", u.FlowID, err)
		}
		res.Updated = append(res.Updated, u.FlowID)
	}
	return res, nil
}

// SetCompletion marks a node done or not done. Only nodes whose level has
// completion tracking enabled accept it.
func (s *flowService) SetCompletion(ctx context.Context, flowID, nodeID string, done bool) (err error) {
	defer observe(ctx, s.observer, "set-completion", map[string]any{"flow_id": flowID, "node_id": nodeID, "done": done})(&err)

	flow, err := s.flows.GetByID(ctx, flowID)
	if err != nil {
		return err
	}
	ref, ok := domain.IndexNodes(flow.Data).Lookup(nodeID)
	if !ok {
		return fmt.Errorf("%s: %w", nodeID, ErrUnknownNode)
	}
	if lvl := flow.Template().Level(ref.Depth); lvl == nil || !lvl.UnitConfig.EnableDone {
		return fmt.Errorf("%s at depth %d: %w", nodeID, ref.Depth, ErrNotTrackable)
	}
	return s.executions.Set(ctx, flowID, nodeID, done)
}

func loadFlowState(ctx context.Context, r txRepos, id string) (*domain.Flow, domain.Completion, error) {
	flow, err := r.flows.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	completion, err := r.executions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return flow, completion, nil
}

// pruneCompletion keeps only entries for nodes present in roots.
func pruneCompletion(roots []*domain.Node, c domain.Completion) domain.Completion {
	ix := domain.IndexNodes(roots)
	out := domain.Completion{}
	for id, done := range c {
		if _, ok := ix.Lookup(id); ok && done {
			out[id] = true
		}
	}
	return out
}

func copyName(source *domain.Flow, name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return source.Name + " (Copy)"
}
