// Package export turns a workflow tree into a Kanban board: it selects the
// in-scope nodes, classifies them for the dynamic list, synthesizes columns,
// cards and labels, and mirrors the tree as a parent-linked list.
package export

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/ident"
)

// Engine builds boards. It holds no per-export state and is safe for
// concurrent use when its generator is.
type Engine struct {
	ids  ident.Generator
	now  func() time.Time
	seed func() *rand.Rand
}

type Option func(*Engine)

func WithIDs(g ident.Generator) Option {
	return func(e *Engine) { e.ids = g }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSeed fixes label colours for reproducible output.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed)) }
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		ids: ident.TypeID{},
		now: func() time.Time { return time.Now().UTC() },
		seed: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export builds a board from flow. It validates cfg first, works on a
// private snapshot of the tree and completion map, and returns an
// EMPTY_RESULT error when the scope selects nothing. The inputs are never
// modified.
func (e *Engine) Export(flow *domain.Flow, completion domain.Completion, cfg Config) (*domain.Board, error) {
	tpl := flow.Template()
	if tpl == nil {
		return nil, fmt.Errorf("flow %s has no template snapshot", flow.ID)
	}
	if err := cfg.Validate(tpl); err != nil {
		return nil, err
	}

	snapshot := domain.CloneNodes(flow.Data)
	tpl = domain.CloneTemplate(tpl)
	done := completion.Clone()
	filter := NewFilter(&cfg)

	selected := Collect(snapshot, tpl.Depth(), filter)
	if len(selected) == 0 {
		return nil, &Error{Code: ErrEmptyResult, Message: "no nodes to export with current configuration"}
	}

	now := e.now()
	board := &domain.Board{
		ID:           e.ids.New(ident.PrefixBoard),
		Name:         cfg.BoardName,
		Description:  cfg.BoardDescription + "\n\nExported from workflow: " + flow.Name,
		SourceFlowID: flow.ID,
		CreatedAt:    now,
		Columns:      []domain.Column{},
		Cards:        []domain.Card{},
		Labels:       []domain.Label{},
		DynamicList:  domain.DynamicList{IsActive: cfg.ExportDynamicList, Nodes: []domain.DynamicListNode{}},
	}

	syn := &synthesizer{
		ids:    e.ids,
		now:    now,
		rnd:    e.seed(),
		tpl:    tpl,
		cfg:    &cfg,
		filter: filter,
		done:   done,
		board:  board,
		cards:  make(map[string]nodeCards),
	}
	syn.synthesize(selected)

	if cfg.ExportDynamicList {
		lb := &listBuilder{
			ids:    e.ids,
			tpl:    tpl,
			cfg:    &cfg,
			filter: filter,
			done:   done,
			cards:  syn.cards,
		}
		board.DynamicList.Nodes = lb.build(snapshot)
	}

	if err := board.ValidateColumns(); err != nil {
		return nil, err
	}
	return board, nil
}
