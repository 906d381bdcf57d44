package export

import (
	"fmt"
	"maps"
	"slices"

	"github.com/alexanderramin/flowboard/internal/domain"
)

// Session is the editing state behind an interactive export. Each method is
// one user action; the session re-derives dependent defaults the same way
// for every front end and finally yields a Config.
type Session struct {
	flow     *domain.Flow
	tpl      *domain.Template
	done     domain.Completion
	index    *domain.NodeIndex
	selected map[string]bool
	cfg      Config
}

// NewSession starts a full-scope session with the suggested board name.
func NewSession(flow *domain.Flow, completion domain.Completion) (*Session, error) {
	tpl := flow.Template()
	if tpl == nil {
		return nil, fmt.Errorf("flow %s has no template snapshot", flow.ID)
	}
	s := &Session{
		flow:     flow,
		tpl:      tpl,
		done:     completion,
		index:    domain.IndexNodes(flow.Data),
		selected: make(map[string]bool),
		cfg: Config{
			Scope:     domain.ScopeFull,
			BoardName: DefaultBoardName(flow.Name, domain.ScopeFull, ""),
		},
	}
	return s, nil
}

func (s *Session) Flow() *domain.Flow { return s.flow }

// Tags lists the tags available for tag scope.
func (s *Session) Tags() []string {
	return domain.CollectTags(s.flow.Data)
}

// SetScope switches scope and resets the suggested board name.
func (s *Session) SetScope(scope domain.Scope) error {
	if !domain.ValidScopes[scope] {
		return &Error{Code: ErrInvalidScope, Field: "scope", Message: fmt.Sprintf("unknown scope %q", scope)}
	}
	s.cfg.Scope = scope
	s.cfg.BoardName = DefaultBoardName(s.flow.Name, scope, s.cfg.TagFilter)
	s.scopeChanged()
	return nil
}

// SetTag chooses the tag for tag scope and resets the suggested board name.
func (s *Session) SetTag(tag string) {
	s.cfg.TagFilter = tag
	s.cfg.BoardName = DefaultBoardName(s.flow.Name, s.cfg.Scope, tag)
	s.scopeChanged()
}

// ToggleNode checks or unchecks a node for partial scope. Checking a node
// also checks all of its descendants; unchecking touches only the node.
func (s *Session) ToggleNode(id string, checked bool) error {
	if _, ok := s.index.Lookup(id); !ok {
		return fmt.Errorf("unknown node %q", id)
	}
	if checked {
		s.selected[id] = true
		for _, d := range s.index.Descendants(id) {
			s.selected[d] = true
		}
	} else {
		delete(s.selected, id)
	}
	s.syncSelection()
	s.scopeChanged()
	return nil
}

func (s *Session) IsSelected(id string) bool {
	return s.selected[id]
}

func (s *Session) SetBoardName(name string) {
	s.cfg.BoardName = name
}

func (s *Session) SetBoardDescription(desc string) {
	s.cfg.BoardDescription = desc
}

// SetReference toggles the References column. Turning it on re-derives node
// types from the reference level when the dynamic list is enabled.
func (s *Session) SetReference(on bool) {
	s.cfg.ExportReference = on
	if on {
		ApplyBulk(s.flow.Data, s.tpl.Depth(), &s.cfg)
	}
}

// SetReferenceLevel picks the depth whose nodes fill the References column.
func (s *Session) SetReferenceLevel(level int) error {
	if level < 0 || level >= s.tpl.Depth() {
		return &Error{
			Code:    ErrInvalidReferenceLevel,
			Field:   "referenceLevel",
			Message: fmt.Sprintf("reference level %d outside template levels 0..%d", level, s.tpl.Depth()-1),
		}
	}
	s.cfg.ReferenceLevel = level
	ApplyBulk(s.flow.Data, s.tpl.Depth(), &s.cfg)
	return nil
}

// SetDynamicList toggles the dynamic list. Turning it on rebuilds the per
// node defaults for the current scope.
func (s *Session) SetDynamicList(on bool) {
	s.cfg.ExportDynamicList = on
	if on {
		Defaults(s.flow.Data, s.tpl.Depth(), &s.cfg, s.done)
		ApplyBulk(s.flow.Data, s.tpl.Depth(), &s.cfg)
	}
}

// SetNodeType overrides the dynamic-list type of one node. Skipping a node
// clears its column.
func (s *Session) SetNodeType(id string, typ domain.DynamicListType) error {
	if _, ok := s.index.Lookup(id); !ok {
		return fmt.Errorf("unknown node %q", id)
	}
	if !domain.ValidDynamicListTypes[typ] {
		return &Error{Code: ErrInvalidNodeType, Field: "dynamicListTypes", Message: fmt.Sprintf("node %s: unknown type %q", id, typ)}
	}
	if s.cfg.DynamicListTypes == nil {
		s.cfg.DynamicListTypes = make(map[string]domain.DynamicListType)
	}
	s.cfg.DynamicListTypes[id] = typ
	if typ == domain.DynamicSkip {
		delete(s.cfg.BoardColumnAssignments, id)
	}
	return nil
}

// SetNodeColumn assigns a board column to a node, or clears it with
// domain.ColumnNone. Skipped nodes cannot hold a column.
func (s *Session) SetNodeColumn(id string, key domain.ColumnKey) error {
	if _, ok := s.index.Lookup(id); !ok {
		return fmt.Errorf("unknown node %q", id)
	}
	if key == domain.ColumnNone {
		delete(s.cfg.BoardColumnAssignments, id)
		return nil
	}
	if !domain.ValidColumnKeys[key] {
		return &Error{Code: ErrInvalidColumn, Field: "boardColumnAssignments", Message: fmt.Sprintf("node %s: unknown column %q", id, key)}
	}
	if s.TypeOf(id) == domain.DynamicSkip {
		return &Error{Code: ErrInvalidColumn, Field: "boardColumnAssignments", Message: fmt.Sprintf("node %s is skipped", id)}
	}
	if s.cfg.BoardColumnAssignments == nil {
		s.cfg.BoardColumnAssignments = make(map[string]domain.ColumnKey)
	}
	s.cfg.BoardColumnAssignments[id] = key
	return nil
}

// TypeOf returns the type the node would be exported with.
func (s *Session) TypeOf(id string) domain.DynamicListType {
	ref, ok := s.index.Lookup(id)
	if !ok {
		return domain.DynamicSkip
	}
	return Classify(ref.Node, ref.Depth, &s.cfg, NewFilter(&s.cfg)).Type
}

// ColumnOf returns the column currently assigned to the node.
func (s *Session) ColumnOf(id string) domain.ColumnKey {
	return s.cfg.BoardColumnAssignments[id]
}

// Preview counts what the current configuration would export.
func (s *Session) Preview() Summary {
	return Preview(s.flow, &s.cfg)
}

// Config returns a copy of the configuration built so far.
func (s *Session) Config() Config {
	cfg := s.cfg
	cfg.SelectedNodeIDs = slices.Clone(s.cfg.SelectedNodeIDs)
	cfg.DynamicListTypes = maps.Clone(s.cfg.DynamicListTypes)
	cfg.BoardColumnAssignments = maps.Clone(s.cfg.BoardColumnAssignments)
	return cfg
}

// scopeChanged rebuilds the dynamic-list defaults after the set of
// in-scope nodes changed, then reapplies the reference-level pass.
func (s *Session) scopeChanged() {
	if !s.cfg.ExportDynamicList {
		return
	}
	Defaults(s.flow.Data, s.tpl.Depth(), &s.cfg, s.done)
	ApplyBulk(s.flow.Data, s.tpl.Depth(), &s.cfg)
}

// syncSelection keeps SelectedNodeIDs in tree order.
func (s *Session) syncSelection() {
	ids := make([]string, 0, len(s.selected))
	for _, id := range s.index.IDs() {
		if s.selected[id] {
			ids = append(ids, id)
		}
	}
	s.cfg.SelectedNodeIDs = ids
}
