package domain

import "slices"

// LinkGroup is a set of flows kept structurally synchronized. A flow
// belongs to at most one group and a group always has two or more members.
type LinkGroup struct {
	GroupID   string   `json:"groupId" yaml:"groupId"`
	Workflows []string `json:"workflows" yaml:"workflows"`
}

func (g *LinkGroup) Contains(flowID string) bool {
	return slices.Contains(g.Workflows, flowID)
}

// Others returns the members of g except flowID, in group order.
func (g *LinkGroup) Others(flowID string) []string {
	out := make([]string, 0, len(g.Workflows))
	for _, id := range g.Workflows {
		if id != flowID {
			out = append(out, id)
		}
	}
	return out
}
