package export

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/flowboard/internal/domain"
)

// Config describes one export invocation. It is built per call from the
// user's choices and never persisted.
type Config struct {
	Scope            domain.Scope `json:"scope"`
	SelectedNodeIDs  []string     `json:"selectedNodeIds,omitempty"`
	TagFilter        string       `json:"tagFilter,omitempty"`
	BoardName        string       `json:"boardName"`
	BoardDescription string       `json:"boardDescription,omitempty"`

	ExportReference bool `json:"exportReference"`
	ReferenceLevel  int  `json:"referenceLevel"`

	ExportDynamicList      bool                              `json:"exportDynamicList"`
	DynamicListTypes       map[string]domain.DynamicListType `json:"dynamicListTypes,omitempty"`
	BoardColumnAssignments map[string]domain.ColumnKey       `json:"boardColumnAssignments,omitempty"`
}

// Validate rejects configurations that cannot produce a board from a flow
// built on t. It runs before any traversal.
func (c *Config) Validate(t *domain.Template) error {
	if strings.TrimSpace(c.BoardName) == "" {
		return &Error{Code: ErrMissingBoardName, Field: "boardName", Message: "please enter a board name"}
	}
	if !domain.ValidScopes[c.Scope] {
		return &Error{Code: ErrInvalidScope, Field: "scope", Message: fmt.Sprintf("unknown scope %q", c.Scope)}
	}
	switch c.Scope {
	case domain.ScopePartial:
		if len(c.SelectedNodeIDs) == 0 {
			return &Error{Code: ErrEmptySelection, Field: "selectedNodeIds", Message: "please select at least one section to export"}
		}
	case domain.ScopeTag:
		if c.TagFilter == "" {
			return &Error{Code: ErrNoTagSelected, Field: "tagFilter", Message: "please select a tag to filter by"}
		}
	}
	if c.ExportReference && (c.ReferenceLevel < 0 || c.ReferenceLevel >= t.Depth()) {
		return &Error{
			Code:    ErrInvalidReferenceLevel,
			Field:   "referenceLevel",
			Message: fmt.Sprintf("reference level %d outside template levels 0..%d", c.ReferenceLevel, t.Depth()-1),
		}
	}
	for id, typ := range c.DynamicListTypes {
		if !domain.ValidDynamicListTypes[typ] {
			return &Error{Code: ErrInvalidNodeType, Field: "dynamicListTypes", Message: fmt.Sprintf("node %s: unknown type %q", id, typ)}
		}
	}
	for id, key := range c.BoardColumnAssignments {
		if key != domain.ColumnNone && !domain.ValidColumnKeys[key] {
			return &Error{Code: ErrInvalidColumn, Field: "boardColumnAssignments", Message: fmt.Sprintf("node %s: unknown column %q", id, key)}
		}
	}
	return nil
}

// DefaultBoardName suggests a board name for the flow and scope.
func DefaultBoardName(flowName string, scope domain.Scope, tag string) string {
	switch scope {
	case domain.ScopePartial:
		return flowName + " Partial"
	case domain.ScopeTag:
		if tag != "" {
			return flowName + " #" + tag
		}
		return flowName + " Tag-Filtered"
	default:
		return flowName + " Full"
	}
}
