// Package linking keeps groups of workflows structurally synchronized.
package linking

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/ident"
)

// Registry is the in-memory set of link groups. A flow id appears in at
// most one group and every group has at least two members.
type Registry struct {
	groups []domain.LinkGroup
}

func NewRegistry(groups []domain.LinkGroup) *Registry {
	r := &Registry{}
	for _, g := range groups {
		r.groups = append(r.groups, domain.LinkGroup{GroupID: g.GroupID, Workflows: slices.Clone(g.Workflows)})
	}
	return r
}

// Groups returns a copy of the current groups.
func (r *Registry) Groups() []domain.LinkGroup {
	out := make([]domain.LinkGroup, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, domain.LinkGroup{GroupID: g.GroupID, Workflows: slices.Clone(g.Workflows)})
	}
	return out
}

// GroupOf returns the group containing flowID.
func (r *Registry) GroupOf(flowID string) (domain.LinkGroup, bool) {
	for _, g := range r.groups {
		if g.Contains(flowID) {
			return domain.LinkGroup{GroupID: g.GroupID, Workflows: slices.Clone(g.Workflows)}, true
		}
	}
	return domain.LinkGroup{}, false
}

func (r *Registry) IsLinked(flowID string) bool {
	_, ok := r.GroupOf(flowID)
	return ok
}

// Linked returns the other members of flowID's group, or nil.
func (r *Registry) Linked(flowID string) []string {
	g, ok := r.GroupOf(flowID)
	if !ok {
		return nil
	}
	return g.Others(flowID)
}

// Link joins newFlowID to existingFlowID's group, creating a two-member
// group when existingFlowID is not linked yet. It returns the group id.
func (r *Registry) Link(existingFlowID, newFlowID string, ids ident.Generator) (string, error) {
	if existingFlowID == newFlowID {
		return "", fmt.Errorf("cannot link flow %s to itself", newFlowID)
	}
	if r.IsLinked(newFlowID) {
		return "", fmt.Errorf("flow %s already belongs to a link group", newFlowID)
	}
	for i := range r.groups {
		if r.groups[i].Contains(existingFlowID) {
			r.groups[i].Workflows = append(r.groups[i].Workflows, newFlowID)
			return r.groups[i].GroupID, nil
		}
	}
	g := domain.LinkGroup{
		GroupID:   ids.New(ident.PrefixLink),
		Workflows: []string{existingFlowID, newFlowID},
	}
	r.groups = append(r.groups, g)
	return g.GroupID, nil
}

// Unlink removes flowID from its group. Groups left with fewer than two
// members are dissolved. It reports whether flowID was linked.
func (r *Registry) Unlink(flowID string) bool {
	found := false
	kept := r.groups[:0]
	for _, g := range r.groups {
		if g.Contains(flowID) {
			found = true
			g.Workflows = g.Others(flowID)
		}
		if len(g.Workflows) > 1 {
			kept = append(kept, g)
		}
	}
	r.groups = kept
	return found
}
