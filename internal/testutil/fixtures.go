package testutil

import (
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/google/uuid"
)

// Template options
type TemplateOption func(*domain.Template)

func WithTemplateID(id string) TemplateOption {
	return func(t *domain.Template) {
		t.ID = id
	}
}

// WithLevels replaces the template levels with one level per singular name.
// Every level enables done, grade and tags.
func WithLevels(singular ...string) TemplateOption {
	return func(t *domain.Template) {
		t.Levels = nil
		for i, name := range singular {
			t.Levels = append(t.Levels, NewTestLevel(i, name))
		}
	}
}

func WithCumulativeGrade(depth int) TemplateOption {
	return func(t *domain.Template) {
		t.Levels[depth].UnitConfig.GradeCumulative = true
	}
}

func NewTestLevel(order int, singular string) domain.Level {
	return domain.Level{
		ID:           uuid.New().String(),
		Order:        order,
		Name:         singular,
		SingularName: singular,
		PluralName:   singular + "s",
		UnitConfig: domain.UnitConfig{
			EnableName:     true,
			EnableTags:     true,
			EnableDone:     true,
			EnableGrade:    true,
			EnableLinks:    true,
			EnableNotes:    true,
			EnableComments: true,
		},
	}
}

// NewTestTemplate returns a valid three-level template.
func NewTestTemplate(name string, opts ...TemplateOption) *domain.Template {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Template{
		ID:      uuid.New().String(),
		Name:    name,
		Version: "1.0.0",
		Levels: []domain.Level{
			NewTestLevel(0, "Phase"),
			NewTestLevel(1, "Step"),
			NewTestLevel(2, "Task"),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Node options
type NodeOption func(*domain.Node)

func WithNodeID(id string) NodeOption {
	return func(n *domain.Node) {
		n.ID = id
	}
}

func WithTags(tags ...string) NodeOption {
	return func(n *domain.Node) {
		n.Tags = tags
	}
}

func WithGrade(g float64) NodeOption {
	return func(n *domain.Node) {
		n.Grade = g
	}
}

func WithDescription(d string) NodeOption {
	return func(n *domain.Node) {
		n.Description = d
	}
}

func WithChildren(children ...*domain.Node) NodeOption {
	return func(n *domain.Node) {
		n.Subcategories = children
	}
}

func WithFooter(f *domain.Footer) NodeOption {
	return func(n *domain.Node) {
		n.Footer = f
	}
}

func NewTestNode(name string, opts ...NodeOption) *domain.Node {
	n := &domain.Node{
		ID:   uuid.New().String(),
		Name: name,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Flow options
type FlowOption func(*domain.Flow)

func WithFlowID(id string) FlowOption {
	return func(f *domain.Flow) {
		f.ID = id
	}
}

func WithData(roots ...*domain.Node) FlowOption {
	return func(f *domain.Flow) {
		f.Data = roots
	}
}

func WithFlowDescription(d string) FlowOption {
	return func(f *domain.Flow) {
		f.Description = d
	}
}

// NewTestFlow returns a flow built against a snapshot of tpl.
func NewTestFlow(name string, tpl *domain.Template, opts ...FlowOption) *domain.Flow {
	now := time.Now().UTC().Truncate(time.Second)
	f := &domain.Flow{
		ID:               uuid.New().String(),
		Name:             name,
		TemplateID:       tpl.ID,
		TemplateSnapshot: domain.CloneTemplate(tpl),
		Data:             []*domain.Node{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewTestTree returns a small three-level forest:
//
//	Design{urgent} -> Sketch -> (Wireframe{ui} grade 2, Mockup grade 3)
//	Build{ui}
func NewTestTree() []*domain.Node {
	return []*domain.Node{
		NewTestNode("Design", WithNodeID("design"), WithTags("urgent"), WithChildren(
			NewTestNode("Sketch", WithNodeID("sketch"), WithChildren(
				NewTestNode("Wireframe", WithNodeID("wireframe"), WithTags("ui"), WithGrade(2)),
				NewTestNode("Mockup", WithNodeID("mockup"), WithGrade(3)),
			)),
		)),
		NewTestNode("Build", WithNodeID("build"), WithTags("ui")),
	}
}

// NewTestBoard returns a minimal one-column board with a single card.
func NewTestBoard(name, sourceFlowID string) *domain.Board {
	now := time.Now().UTC().Truncate(time.Second)
	boardID := uuid.New().String()
	col := domain.Column{ID: uuid.New().String(), Name: "To Do", Order: 0}
	return &domain.Board{
		ID:           boardID,
		Name:         name,
		SourceFlowID: sourceFlowID,
		CreatedAt:    now,
		Columns:      []domain.Column{col},
		Cards: []domain.Card{{
			ID:        uuid.New().String(),
			BoardID:   boardID,
			ColumnID:  col.ID,
			Title:     "Card",
			Labels:    []string{},
			CreatedAt: now,
		}},
		Labels: []domain.Label{},
	}
}
