package domain

import (
	"fmt"
	"time"
)

// Template defines the level structure a flow is built from. Level i
// describes the nodes found at tree depth i.
type Template struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	Version        string         `json:"version,omitempty" yaml:"version,omitempty"`
	IsDefault      bool           `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
	WorkflowConfig WorkflowConfig `json:"workflowConfig" yaml:"workflowConfig"`
	Levels         []Level        `json:"levels" yaml:"levels"`
	CreatedAt      time.Time      `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type WorkflowConfig struct {
	EnableIcon            bool `json:"enableIcon" yaml:"enableIcon"`
	EnableDescription     bool `json:"enableDescription" yaml:"enableDescription"`
	EnableSequentialOrder bool `json:"enableSequentialOrder" yaml:"enableSequentialOrder"`
}

type Level struct {
	ID           string     `json:"id" yaml:"id"`
	Order        int        `json:"order" yaml:"order"`
	Name         string     `json:"name" yaml:"name"`
	SingularName string     `json:"singularName" yaml:"singularName"`
	PluralName   string     `json:"pluralName" yaml:"pluralName"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	UnitConfig   UnitConfig `json:"unitConfig" yaml:"unitConfig"`
}

// UnitConfig enumerates the optional fields active for nodes of a level.
type UnitConfig struct {
	EnableIcon        bool `json:"enableIcon" yaml:"enableIcon"`
	EnableUnitID      bool `json:"enableUnitId" yaml:"enableUnitId"`
	EnableName        bool `json:"enableName" yaml:"enableName"`
	EnableDescription bool `json:"enableDescription" yaml:"enableDescription"`
	EnableTags        bool `json:"enableTags" yaml:"enableTags"`
	EnableDone        bool `json:"enableDone" yaml:"enableDone"`
	EnableGrade       bool `json:"enableGrade" yaml:"enableGrade"`
	GradeCumulative   bool `json:"gradeCumulative" yaml:"gradeCumulative"`
	EnableProgressBar bool `json:"enableProgressBar" yaml:"enableProgressBar"`
	EnableLinks       bool `json:"enableLinks" yaml:"enableLinks"`
	EnableImages      bool `json:"enableImages" yaml:"enableImages"`
	EnableNotes       bool `json:"enableNotes" yaml:"enableNotes"`
	EnableComments    bool `json:"enableComments" yaml:"enableComments"`
}

// Depth returns the maximum tree depth a flow built from t may have.
func (t *Template) Depth() int {
	return len(t.Levels)
}

// Level returns the level for depth, or nil when depth is out of range.
func (t *Template) Level(depth int) *Level {
	if t == nil || depth < 0 || depth >= len(t.Levels) {
		return nil
	}
	return &t.Levels[depth]
}

// SingularName returns the singular level name for depth, "Item" when the
// depth has no level.
func (t *Template) SingularName(depth int) string {
	if lvl := t.Level(depth); lvl != nil && lvl.SingularName != "" {
		return lvl.SingularName
	}
	return "Item"
}

// Validate checks the structural requirements of a template.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("template %s: name is required", t.ID)
	}
	if len(t.Levels) == 0 {
		return fmt.Errorf("template %s: at least one level is required", t.ID)
	}
	for i, lvl := range t.Levels {
		if lvl.SingularName == "" {
			return fmt.Errorf("template %s: level %d: singularName is required", t.ID, i)
		}
	}
	return nil
}

// DefaultEmptyTemplate is the single-level template used for workflows
// created without choosing a template.
func DefaultEmptyTemplate() *Template {
	return &Template{
		ID:          "template-empty-default",
		Name:        "Empty",
		Description: "Simple 1-level workflow with all properties enabled",
		Version:     "1.0.0",
		WorkflowConfig: WorkflowConfig{
			EnableIcon:            true,
			EnableDescription:     true,
			EnableSequentialOrder: true,
		},
		Levels: []Level{{
			ID:           "level-empty-1",
			Order:        0,
			Name:         "Item",
			SingularName: "Item",
			PluralName:   "Items",
			Description:  "Workflow items",
			UnitConfig: UnitConfig{
				EnableIcon:        true,
				EnableUnitID:      true,
				EnableName:        true,
				EnableDescription: true,
				EnableTags:        true,
				EnableDone:        true,
				EnableGrade:       true,
				EnableLinks:       true,
				EnableImages:      true,
				EnableNotes:       true,
				EnableComments:    true,
			},
		}},
	}
}
