package export

import "github.com/alexanderramin/flowboard/internal/domain"

// Filter decides scope membership for one configuration. Membership is a
// property of the node alone: no ancestor or descendant is consulted.
type Filter struct {
	scope    domain.Scope
	selected map[string]bool
	tag      string
}

func NewFilter(cfg *Config) *Filter {
	f := &Filter{scope: cfg.Scope, tag: cfg.TagFilter}
	if cfg.Scope == domain.ScopePartial {
		f.selected = make(map[string]bool, len(cfg.SelectedNodeIDs))
		for _, id := range cfg.SelectedNodeIDs {
			f.selected[id] = true
		}
	}
	return f
}

func (f *Filter) InScope(n *domain.Node) bool {
	switch f.scope {
	case domain.ScopeFull:
		return true
	case domain.ScopePartial:
		return f.selected[n.ID]
	case domain.ScopeTag:
		return f.tag != "" && n.HasTag(f.tag)
	default:
		return false
	}
}

// InScope is a one-off form of Filter.InScope.
func InScope(n *domain.Node, cfg *Config) bool {
	return NewFilter(cfg).InScope(n)
}

// Selected is an in-scope node with its tree position.
type Selected struct {
	Node     *domain.Node
	Depth    int
	ParentID string
}

// Collect returns the in-scope nodes of roots in pre-order. Nodes at depth
// maxDepth or deeper are never visited.
func Collect(roots []*domain.Node, maxDepth int, f *Filter) []Selected {
	var out []Selected
	_ = domain.WalkBounded(roots, maxDepth, func(n *domain.Node, depth int, parent *domain.Node) error {
		if f.InScope(n) {
			sel := Selected{Node: n, Depth: depth}
			if parent != nil {
				sel.ParentID = parent.ID
			}
			out = append(out, sel)
		}
		return nil
	})
	return out
}

// PreviewTree returns a pruned copy of roots holding every node tagged with
// tag plus its ancestors, so matches are shown in context. Descendants of a
// match are only kept when they match themselves.
func PreviewTree(roots []*domain.Node, tag string) []*domain.Node {
	if tag == "" {
		return nil
	}
	var prune func(nodes []*domain.Node) []*domain.Node
	prune = func(nodes []*domain.Node) []*domain.Node {
		var out []*domain.Node
		for _, n := range nodes {
			children := prune(n.Subcategories)
			if !n.HasTag(tag) && len(children) == 0 {
				continue
			}
			cp := *n
			cp.Tags = append([]string(nil), n.Tags...)
			cp.Subcategories = children
			out = append(out, &cp)
		}
		return out
	}
	return prune(roots)
}
