package export

import (
	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/ident"
)

type listBuilder struct {
	ids    ident.Generator
	tpl    *domain.Template
	cfg    *Config
	filter *Filter
	done   domain.Completion
	cards  map[string]nodeCards
	nodes  []domain.DynamicListNode
}

// build flattens the tree into a parent-linked list in pre-order. Skipped
// nodes are transparent: their children attach to the nearest included
// ancestor, or become roots when there is none.
func (b *listBuilder) build(roots []*domain.Node) []domain.DynamicListNode {
	b.nodes = []domain.DynamicListNode{}
	b.walk(roots, nil, 0)
	return b.nodes
}

func (b *listBuilder) walk(nodes []*domain.Node, parentID *string, depth int) {
	if depth >= b.tpl.Depth() {
		return
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		cls := Classify(n, depth, b.cfg, b.filter)
		if cls.Type == domain.DynamicSkip {
			b.walk(n.Subcategories, parentID, depth+1)
			continue
		}
		entry := domain.DynamicListNode{
			ID:            b.ids.New(ident.PrefixDyn),
			Title:         n.DisplayName(b.tpl, depth),
			Type:          cls.Type,
			ParentID:      parentID,
			Level:         depth,
			Order:         len(b.nodes),
			IsExpanded:    true,
			LinkedTaskIDs: b.linkedTasks(n.ID),
		}
		if cls.Type == domain.DynamicTask {
			entry.TaskData = &domain.TaskData{
				Description: n.Body(),
				IsDone:      b.done.IsDone(n.ID),
			}
		}
		b.nodes = append(b.nodes, entry)
		id := entry.ID
		b.walk(n.Subcategories, &id, depth+1)
	}
}

// linkedTasks points a list entry at the card the user works from. When a
// node has both cards that is the board card; a reference card is never
// linked.
func (b *listBuilder) linkedTasks(nodeID string) []string {
	if nc, ok := b.cards[nodeID]; ok && nc.board != "" {
		return []string{nc.board}
	}
	return []string{}
}
