package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Flow is a workflow instance: a tree of nodes built against a frozen copy
// of its template.
type Flow struct {
	ID               string    `json:"id" yaml:"id"`
	Name             string    `json:"name" yaml:"name"`
	TemplateID       string    `json:"templateId" yaml:"templateId"`
	TemplateSnapshot *Template `json:"templateSnapshot" yaml:"templateSnapshot"`
	Icon             string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Description      string    `json:"description,omitempty" yaml:"description,omitempty"`
	Data             []*Node   `json:"data" yaml:"data"`
	CreatedAt        time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Node is one unit of a flow tree. Its depth in the tree selects the
// template level that describes it.
type Node struct {
	ID          string   `json:"id" yaml:"id"`
	LevelID     string   `json:"levelId,omitempty" yaml:"levelId,omitempty"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	UnitID      string   `json:"unitId,omitempty" yaml:"unitId,omitempty"`
	Icon        string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Text        string   `json:"text,omitempty" yaml:"text,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Grade       float64  `json:"grade,omitempty" yaml:"grade,omitempty"`
	Footer      *Footer  `json:"footer,omitempty" yaml:"footer,omitempty"`
	// Origin is the lineage key shared by linked copies of this node.
	Origin        string  `json:"origin,omitempty" yaml:"origin,omitempty"`
	Subcategories []*Node `json:"subcategories,omitempty" yaml:"subcategories,omitempty"`
}

// Footer holds the attachments of a node. Each list is independent.
type Footer struct {
	Links    []Link   `json:"links,omitempty" yaml:"links,omitempty"`
	Images   []Image  `json:"images,omitempty" yaml:"images,omitempty"`
	Notes    []Note   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Comments []string `json:"comments,omitempty" yaml:"comments,omitempty"`
}

type Link struct {
	URL  string `json:"url" yaml:"url"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// UnmarshalJSON accepts both {"url": ..., "text": ...} and a bare URL string.
func (l *Link) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Link{URL: s}
		return nil
	}
	var raw struct {
		URL   string `json:"url"`
		Text  string `json:"text"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding link: %w", err)
	}
	*l = Link{URL: raw.URL, Text: CoalesceStr(raw.Text, raw.Title)}
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (l *Link) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = Link{URL: value.Value}
		return nil
	}
	var raw struct {
		URL   string `yaml:"url"`
		Text  string `yaml:"text"`
		Title string `yaml:"title"`
	}
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decoding link: %w", err)
	}
	*l = Link{URL: raw.URL, Text: CoalesceStr(raw.Text, raw.Title)}
	return nil
}

type Image struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// UnmarshalJSON accepts both {"url": ..., "title": ...} and a bare URL string.
func (i *Image) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = Image{URL: s}
		return nil
	}
	type plain Image
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}
	*i = Image(p)
	return nil
}

func (i *Image) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*i = Image{URL: value.Value}
		return nil
	}
	type plain Image
	var p plain
	if err := value.Decode(&p); err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}
	*i = Image(p)
	return nil
}

type Note struct {
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// HasTag reports whether the node itself carries tag.
func (n *Node) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// LinkKey returns the lineage key used to recognise the same node across
// linked flows.
func (n *Node) LinkKey() string {
	return CoalesceStr(n.Origin, n.ID)
}

// Body returns the legacy text field when set, otherwise the description.
func (n *Node) Body() string {
	return CoalesceStr(n.Text, n.Description)
}

// DisplayName returns the node name or "Untitled <level>".
func (n *Node) DisplayName(t *Template, depth int) string {
	if n.Name != "" {
		return n.Name
	}
	return "Untitled " + t.SingularName(depth)
}

// Template returns the frozen template snapshot the flow is validated against.
func (f *Flow) Template() *Template {
	return f.TemplateSnapshot
}

// Validate checks flow-level invariants: a template snapshot is present,
// node ids are unique across the whole tree and no node is deeper than the
// snapshot allows.
func (f *Flow) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("flow id is required")
	}
	if f.TemplateSnapshot == nil {
		return fmt.Errorf("flow %s: template snapshot is required", f.ID)
	}
	maxDepth := f.TemplateSnapshot.Depth()
	seen := make(map[string]bool)
	return Walk(f.Data, func(n *Node, depth int, _ *Node) error {
		if n.ID == "" {
			return fmt.Errorf("flow %s: node at depth %d has no id", f.ID, depth)
		}
		if seen[n.ID] {
			return fmt.Errorf("flow %s: duplicate node id %s", f.ID, n.ID)
		}
		seen[n.ID] = true
		if depth >= maxDepth {
			return fmt.Errorf("flow %s: node %s at depth %d exceeds template depth %d", f.ID, n.ID, depth, maxDepth)
		}
		return nil
	})
}
