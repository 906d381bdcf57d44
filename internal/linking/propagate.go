package linking

import (
	"fmt"
	"log/slog"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/ident"
)

// Target is a linked flow together with its execution state.
type Target struct {
	Flow       *domain.Flow
	Completion domain.Completion
}

// Update is the replacement structure for one target flow. Flow-level
// metadata is not part of it and stays as stored.
type Update struct {
	FlowID     string
	Data       []*domain.Node
	Completion domain.Completion
	// Remap maps every reused old target id to its id in Data.
	Remap map[string]string
}

// Skip records a target that was left untouched.
type Skip struct {
	FlowID string `json:"flowId"`
	Reason string `json:"reason"`
}

type Result struct {
	Updates []Update
	Skips   []Skip
}

// Propagator copies a source flow's structure onto the flows linked to it.
type Propagator struct {
	ids    ident.Generator
	logger *slog.Logger
}

func NewPropagator(ids ident.Generator, logger *slog.Logger) *Propagator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Propagator{ids: ids, logger: logger}
}

// PropagateLinked propagates source to every other member of its link
// group. It is a no-op when source is not linked. load resolves a member
// flow id to its current state.
func (p *Propagator) PropagateLinked(reg *Registry, source *domain.Flow, load func(flowID string) (Target, error)) (Result, error) {
	linked := reg.Linked(source.ID)
	if len(linked) == 0 {
		return Result{}, nil
	}
	targets := make([]Target, 0, len(linked))
	for _, id := range linked {
		t, err := load(id)
		if err != nil {
			return Result{}, fmt.Errorf("loading linked flow %s: %w", id, err)
		}
		targets = append(targets, t)
	}
	return p.Propagate(source, targets), nil
}

// Propagate replaces each target's tree with a copy of source's tree.
// Targets built on a different template are skipped and logged.
func (p *Propagator) Propagate(source *domain.Flow, targets []Target) Result {
	var res Result
	for _, t := range targets {
		if t.Flow == nil || t.Flow.ID == source.ID {
			continue
		}
		if t.Flow.TemplateID != source.TemplateID {
			reason := fmt.Sprintf("template %s differs from source template %s", t.Flow.TemplateID, source.TemplateID)
			p.logger.Warn("propagation skipped",
				"source_flow", source.ID,
				"target_flow", t.Flow.ID,
				"reason", reason,
			)
			res.Skips = append(res.Skips, Skip{FlowID: t.Flow.ID, Reason: reason})
			continue
		}
		res.Updates = append(res.Updates, p.propagateOne(source, t))
	}
	return res
}

// remapper carries the state of one source-onto-target copy.
type remapper struct {
	ids        ident.Generator
	sourceKeys map[string]bool
	targetKeys map[string]*domain.Node
	claimed    map[string]bool
	remap      map[string]string
}

// propagateOne clones the source tree and decides, node by node, which
// target id to keep. A source node reuses the unclaimed target node with
// the same lineage key. Failing that it reuses the unclaimed node at the
// same position under the matched parent, as long as that node's lineage
// no longer exists in the source. Otherwise it gets a fresh id.
func (p *Propagator) propagateOne(source *domain.Flow, t Target) Update {
	r := &remapper{
		ids:        p.ids,
		sourceKeys: make(map[string]bool),
		targetKeys: make(map[string]*domain.Node),
		claimed:    make(map[string]bool),
		remap:      make(map[string]string),
	}
	_ = domain.Walk(source.Data, func(n *domain.Node, _ int, _ *domain.Node) error {
		r.sourceKeys[n.LinkKey()] = true
		return nil
	})
	_ = domain.Walk(t.Flow.Data, func(n *domain.Node, _ int, _ *domain.Node) error {
		if _, ok := r.targetKeys[n.LinkKey()]; !ok {
			r.targetKeys[n.LinkKey()] = n
		}
		return nil
	})

	data := domain.CloneNodes(source.Data)
	r.assign(data, t.Flow.Data)

	completion := domain.Completion{}
	for oldID, done := range t.Completion {
		if newID, ok := r.remap[oldID]; ok {
			completion[newID] = done
		}
	}
	p.logger.Debug("propagated structure",
		"source_flow", source.ID,
		"target_flow", t.Flow.ID,
		"reused_ids", len(r.remap),
		"completion_kept", len(completion),
	)
	return Update{FlowID: t.Flow.ID, Data: data, Completion: completion, Remap: r.remap}
}

// assign rewrites the ids of the cloned nodes in place. positional holds
// the children of the matched target parent.
func (r *remapper) assign(nodes []*domain.Node, positional []*domain.Node) {
	for i, n := range nodes {
		key := n.LinkKey()
		var candidate *domain.Node
		if i < len(positional) {
			candidate = positional[i]
		}
		match := r.match(key, candidate)

		if match != nil {
			r.claimed[match.ID] = true
			r.remap[match.ID] = match.ID
			n.ID = match.ID
		} else {
			n.ID = r.ids.New(ident.PrefixUnit)
		}
		n.Origin = key
		if n.Origin == n.ID {
			n.Origin = ""
		}

		var children []*domain.Node
		if match != nil {
			children = match.Subcategories
		}
		r.assign(n.Subcategories, children)
	}
}

func (r *remapper) match(key string, positional *domain.Node) *domain.Node {
	if t, ok := r.targetKeys[key]; ok && !r.claimed[t.ID] {
		return t
	}
	if positional != nil && !r.claimed[positional.ID] && !r.sourceKeys[positional.LinkKey()] {
		return positional
	}
	return nil
}
