package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/flowboard/internal/domain"
	"gopkg.in/yaml.v3"
)

// File names of a data directory.
const (
	TemplatesFile  = "templates.json"
	WorkflowsFile  = "workflows.json"
	ExecutionsFile = "executions.json"
	LinksFile      = "workflow-links.json"
)

// TemplatesDocument is the shape of templates.json.
type TemplatesDocument struct {
	Templates []*domain.Template `json:"templates" yaml:"templates"`
}

// WorkflowsDocument is the shape of workflows.json.
type WorkflowsDocument struct {
	Settings WorkflowSettings `json:"settings" yaml:"settings"`
	Flows    []*domain.Flow   `json:"flows" yaml:"flows"`
}

type WorkflowSettings struct {
	EnforceSequence bool `json:"enforceSequence" yaml:"enforceSequence"`
}

// ExecutionsDocument is the shape of executions.json: per flow id, the
// map of completed node ids.
type ExecutionsDocument struct {
	Flows map[string]ExecutionState `json:"flows" yaml:"flows"`
}

type ExecutionState struct {
	Completed map[string]bool `json:"completed" yaml:"completed"`
}

// LinksDocument is the shape of workflow-links.json.
type LinksDocument struct {
	Links []domain.LinkGroup `json:"links" yaml:"links"`
}

// Bundle is everything read from a data directory. Missing files leave
// their document empty.
type Bundle struct {
	Templates  TemplatesDocument
	Workflows  WorkflowsDocument
	Executions ExecutionsDocument
	Links      LinksDocument
}

// decode parses data as YAML for .yaml/.yml paths and as JSON otherwise.
func decode(path string, data []byte, v any) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decode(path, data, v)
}

// LoadTemplates reads a templates document. A file holding a single
// template object is accepted too.
func LoadTemplates(path string) (*TemplatesDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc TemplatesDocument
	if err := decode(path, data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Templates) == 0 {
		var single domain.Template
		if err := decode(path, data, &single); err == nil && len(single.Levels) > 0 {
			doc.Templates = []*domain.Template{&single}
		}
	}
	return &doc, nil
}

// LoadWorkflows reads a workflows document. A file holding a single flow
// object is accepted too.
func LoadWorkflows(path string) (*WorkflowsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc WorkflowsDocument
	if err := decode(path, data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Flows) == 0 {
		var single domain.Flow
		if err := decode(path, data, &single); err == nil && (single.ID != "" || len(single.Data) > 0) {
			doc.Flows = []*domain.Flow{&single}
		}
	}
	return &doc, nil
}

// LoadDir reads the four data files from dir. Each file is optional.
func LoadDir(dir string) (*Bundle, error) {
	b := &Bundle{}
	files := []struct {
		name string
		into any
	}{
		{TemplatesFile, &b.Templates},
		{WorkflowsFile, &b.Workflows},
		{ExecutionsFile, &b.Executions},
		{LinksFile, &b.Links},
	}
	for _, f := range files {
		err := load(filepath.Join(dir, f.name), f.into)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return b, nil
}

// LoadNodes reads a node tree for a structure save. The file holds either
// a bare array of nodes or an object with a data field, such as an exported
// flow.
func LoadNodes(path string) ([]*domain.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var nodes []*domain.Node
	err = decode(path, data, &nodes)
	if err == nil {
		return nodes, nil
	}
	var shape any
	if decode(path, data, &shape) == nil {
		if _, isList := shape.([]any); isList {
			return nil, err
		}
	}
	var wrapped struct {
		Data []*domain.Node `json:"data" yaml:"data"`
	}
	if err := decode(path, data, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Data == nil {
		return nil, fmt.Errorf("%s: no data field", filepath.Base(path))
	}
	return wrapped.Data, nil
}
