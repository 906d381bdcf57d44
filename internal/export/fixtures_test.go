package export

import (
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/ident"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testTemplate(levels ...string) *domain.Template {
	tpl := &domain.Template{ID: "tpl-1", Name: "Test"}
	for i, name := range levels {
		tpl.Levels = append(tpl.Levels, domain.Level{ID: name, Order: i, Name: name, SingularName: name})
	}
	return tpl
}

func testFlow(tpl *domain.Template, roots ...*domain.Node) *domain.Flow {
	return &domain.Flow{ID: "flow-1", Name: "Audit", TemplateID: tpl.ID, TemplateSnapshot: tpl, Data: roots}
}

func node(id string, children ...*domain.Node) *domain.Node {
	return &domain.Node{ID: id, Name: id, Subcategories: children}
}

func tagged(n *domain.Node, tags ...string) *domain.Node {
	n.Tags = tags
	return n
}

func testEngine() *Engine {
	return NewEngine(
		WithIDs(ident.NewSequence()),
		WithClock(func() time.Time { return testNow }),
		WithSeed(7),
	)
}

// deepFlow is a three-level tree:
//
//	A
//	  A1
//	    A1x
//	    A1y
//	  A2
//	B
func deepFlow() *domain.Flow {
	tpl := testTemplate("Chapter", "Section", "Control")
	return testFlow(tpl,
		node("A",
			node("A1", tagged(node("A1x"), "iso"), node("A1y")),
			node("A2"),
		),
		tagged(node("B"), "iso"),
	)
}

func cardsPerSource(b *domain.Board) map[string]int {
	out := map[string]int{}
	for _, c := range b.Cards {
		out[c.SourceID]++
	}
	return out
}

func dynBySource(b *domain.Board, title string) *domain.DynamicListNode {
	for i := range b.DynamicList.Nodes {
		if b.DynamicList.Nodes[i].Title == title {
			return &b.DynamicList.Nodes[i]
		}
	}
	return nil
}
