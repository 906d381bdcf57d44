package domain

import (
	"errors"
	"sort"

	"github.com/mohae/deepcopy"
)

// SkipChildren can be returned by a WalkFunc to prune the subtree below the
// current node without stopping the walk.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every visited node in pre-order. parent is nil for
// roots.
type WalkFunc func(n *Node, depth int, parent *Node) error

// Walk visits every node of the forest in pre-order.
func Walk(roots []*Node, fn WalkFunc) error {
	return WalkBounded(roots, -1, fn)
}

// WalkBounded visits nodes in pre-order, never descending to depth maxDepth
// or below. A negative maxDepth means no bound.
func WalkBounded(roots []*Node, maxDepth int, fn WalkFunc) error {
	return walk(roots, 0, nil, maxDepth, fn)
}

func walk(nodes []*Node, depth int, parent *Node, maxDepth int, fn WalkFunc) error {
	if maxDepth >= 0 && depth >= maxDepth {
		return nil
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		err := fn(n, depth, parent)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if err := walk(n.Subcategories, depth+1, n, maxDepth, fn); err != nil {
			return err
		}
	}
	return nil
}

// NodeRef locates a node inside a tree with explicit depth and parent.
type NodeRef struct {
	Node     *Node
	Depth    int
	ParentID string
	Index    int // position among the parent's children
}

// NodeIndex is an id-keyed view of a tree.
type NodeIndex struct {
	refs  map[string]NodeRef
	order []string
}

// IndexNodes builds an index over every node of the forest.
func IndexNodes(roots []*Node) *NodeIndex {
	ix := &NodeIndex{refs: make(map[string]NodeRef)}
	var visit func(nodes []*Node, depth int, parentID string)
	visit = func(nodes []*Node, depth int, parentID string) {
		for i, n := range nodes {
			if n == nil {
				continue
			}
			ix.refs[n.ID] = NodeRef{Node: n, Depth: depth, ParentID: parentID, Index: i}
			ix.order = append(ix.order, n.ID)
			visit(n.Subcategories, depth+1, n.ID)
		}
	}
	visit(roots, 0, "")
	return ix
}

func (ix *NodeIndex) Lookup(id string) (NodeRef, bool) {
	ref, ok := ix.refs[id]
	return ref, ok
}

// Depth returns the depth of id, or -1 if the node is unknown.
func (ix *NodeIndex) Depth(id string) int {
	if ref, ok := ix.refs[id]; ok {
		return ref.Depth
	}
	return -1
}

func (ix *NodeIndex) Len() int {
	return len(ix.order)
}

// IDs returns every indexed id in pre-order.
func (ix *NodeIndex) IDs() []string {
	return append([]string(nil), ix.order...)
}

// Descendants returns the ids of every node below id in pre-order.
func (ix *NodeIndex) Descendants(id string) []string {
	ref, ok := ix.refs[id]
	if !ok {
		return nil
	}
	var ids []string
	_ = Walk(ref.Node.Subcategories, func(n *Node, _ int, _ *Node) error {
		ids = append(ids, n.ID)
		return nil
	})
	return ids
}

// Ancestors returns the ids above id, nearest first.
func (ix *NodeIndex) Ancestors(id string) []string {
	var ids []string
	ref, ok := ix.refs[id]
	for ok && ref.ParentID != "" {
		ids = append(ids, ref.ParentID)
		ref, ok = ix.refs[ref.ParentID]
	}
	return ids
}

// CountNodes returns the number of nodes in the forest.
func CountNodes(roots []*Node) int {
	count := 0
	_ = Walk(roots, func(*Node, int, *Node) error {
		count++
		return nil
	})
	return count
}

// CollectTags returns the sorted set of tags used anywhere in the forest.
func CollectTags(roots []*Node) []string {
	set := make(map[string]bool)
	_ = Walk(roots, func(n *Node, _ int, _ *Node) error {
		for _, t := range n.Tags {
			set[t] = true
		}
		return nil
	})
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// CloneNodes returns a deep copy of the forest. The copy shares no memory
// with the input.
func CloneNodes(roots []*Node) []*Node {
	if roots == nil {
		return nil
	}
	return deepcopy.Copy(roots).([]*Node)
}

// CloneTemplate returns a deep copy of t.
func CloneTemplate(t *Template) *Template {
	if t == nil {
		return nil
	}
	return deepcopy.Copy(t).(*Template)
}
