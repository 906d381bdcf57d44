package domain

import (
	"fmt"
	"time"
)

// Board is the Kanban structure produced by an export. Boards are created
// whole by the export engine and never edited afterwards by the tree code.
type Board struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	SourceFlowID string      `json:"sourceFlowId"`
	CreatedAt    time.Time   `json:"createdAt"`
	Columns      []Column    `json:"columns"`
	Cards        []Card      `json:"cards"`
	Labels       []Label     `json:"labels"`
	DynamicList  DynamicList `json:"dynamicList"`
}

type Column struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Order  int    `json:"order"`
	Limit  *int   `json:"limit"`
	Color  string `json:"color"`
	Locked bool   `json:"locked,omitempty"`
}

type Card struct {
	ID          string       `json:"id"`
	BoardID     string       `json:"boardId"`
	ColumnID    string       `json:"columnId"`
	Order       int          `json:"order"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	SourceType  string       `json:"sourceType"`
	SourceID    string       `json:"sourceId"`
	SourceGrade *float64     `json:"sourceGrade"`
	Labels      []string     `json:"labels"`
	Attachments []Attachment `json:"attachments"`
	IsDone      bool         `json:"isDone"`
	Priority    string       `json:"priority"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type Attachment struct {
	Type      AttachmentType `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content,omitempty"`
	URL       string         `json:"url,omitempty"`
	Author    string         `json:"author"`
	Timestamp time.Time      `json:"timestamp"`
}

type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type DynamicList struct {
	IsActive bool              `json:"isActive"`
	Nodes    []DynamicListNode `json:"nodes"`
}

// DynamicListNode is one entry of the flat, parent-linked mirror of the
// exported tree. ParentID is nil for entries without an included ancestor.
type DynamicListNode struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Type          DynamicListType `json:"type"`
	ParentID      *string         `json:"parentId"`
	Level         int             `json:"level"`
	Order         int             `json:"order"`
	IsExpanded    bool            `json:"isExpanded"`
	LinkedTaskIDs []string        `json:"linkedTaskIds"`
	TaskData      *TaskData       `json:"taskData,omitempty"`
}

type TaskData struct {
	Description string `json:"description"`
	IsDone      bool   `json:"isDone"`
}

// ColumnByName returns the column called name, or nil.
func (b *Board) ColumnByName(name string) *Column {
	for i := range b.Columns {
		if b.Columns[i].Name == name {
			return &b.Columns[i]
		}
	}
	return nil
}

// ColumnIDForKey resolves a column key to a column id, falling back to the
// first column when no column carries the key's name.
func (b *Board) ColumnIDForKey(key ColumnKey) string {
	if col := b.ColumnByName(key.ColumnName()); col != nil {
		return col.ID
	}
	if len(b.Columns) > 0 {
		return b.Columns[0].ID
	}
	return ""
}

func (b *Board) LabelByName(name string) *Label {
	for i := range b.Labels {
		if b.Labels[i].Name == name {
			return &b.Labels[i]
		}
	}
	return nil
}

// CardsBySource returns the cards created from nodeID in creation order.
func (b *Board) CardsBySource(nodeID string) []Card {
	var out []Card
	for _, c := range b.Cards {
		if c.SourceID == nodeID {
			out = append(out, c)
		}
	}
	return out
}

// CardsInColumn returns the cards placed in the column called name.
func (b *Board) CardsInColumn(name string) []Card {
	col := b.ColumnByName(name)
	if col == nil {
		return nil
	}
	var out []Card
	for _, c := range b.Cards {
		if c.ColumnID == col.ID {
			out = append(out, c)
		}
	}
	return out
}

// ValidateColumns checks that every card references a column of the board.
func (b *Board) ValidateColumns() error {
	ids := make(map[string]bool, len(b.Columns))
	for _, c := range b.Columns {
		ids[c.ID] = true
	}
	for _, card := range b.Cards {
		if !ids[card.ColumnID] {
			return fmt.Errorf("board %s: card %s references unknown column %q", b.ID, card.ID, card.ColumnID)
		}
	}
	return nil
}
