package importer

import (
	"fmt"

	"github.com/alexanderramin/flowboard/internal/domain"
)

// ValidateBundle checks every document of b. known holds templates that
// already exist outside the bundle and may be referenced by its flows.
// All problems found are returned.
func ValidateBundle(b *Bundle, known map[string]*domain.Template) []error {
	var errs []error
	errs = append(errs, ValidateTemplates(&b.Templates)...)

	templates := make(map[string]*domain.Template, len(known)+len(b.Templates.Templates))
	for id, t := range known {
		templates[id] = t
	}
	for _, t := range b.Templates.Templates {
		if t != nil && t.ID != "" {
			templates[t.ID] = t
		}
	}
	errs = append(errs, ValidateWorkflows(&b.Workflows, templates)...)

	flowIDs := make(map[string]bool, len(b.Workflows.Flows))
	for _, f := range b.Workflows.Flows {
		if f != nil {
			flowIDs[f.ID] = true
		}
	}
	errs = append(errs, ValidateExecutions(&b.Executions, flowIDs)...)
	errs = append(errs, ValidateLinks(&b.Links, flowIDs)...)
	return errs
}

// ValidateTemplates checks template documents. Templates without an id are
// accepted; Convert assigns one.
func ValidateTemplates(doc *TemplatesDocument) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, t := range doc.Templates {
		prefix := fmt.Sprintf("templates[%d]", i)
		if t == nil {
			errs = append(errs, fmt.Errorf("%s: template is empty", prefix))
			continue
		}
		if t.ID != "" {
			if seen[t.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate id %q", prefix, t.ID))
			}
			seen[t.ID] = true
		}
		errs = append(errs, validateTemplate(prefix, t)...)
	}
	return errs
}

func validateTemplate(prefix string, t *domain.Template) []error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	if len(t.Levels) == 0 {
		errs = append(errs, fmt.Errorf("%s.levels: at least one level is required", prefix))
	}
	for j, lvl := range t.Levels {
		if lvl.SingularName == "" {
			errs = append(errs, fmt.Errorf("%s.levels[%d].singularName is required", prefix, j))
		}
	}
	return errs
}

// ValidateWorkflows checks flow documents against the templates they
// reference. A flow needs either an embedded snapshot or a templateId
// found in templates.
func ValidateWorkflows(doc *WorkflowsDocument, templates map[string]*domain.Template) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, f := range doc.Flows {
		prefix := fmt.Sprintf("flows[%d]", i)
		if f == nil {
			errs = append(errs, fmt.Errorf("%s: flow is empty", prefix))
			continue
		}
		if f.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
			continue
		}
		if seen[f.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", prefix, f.ID))
		}
		seen[f.ID] = true
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		snapshot := f.TemplateSnapshot
		if snapshot == nil {
			snapshot = templates[f.TemplateID]
		}
		if snapshot == nil {
			errs = append(errs, fmt.Errorf("%s: template %q not found and no templateSnapshot given", prefix, f.TemplateID))
			continue
		}
		probe := *f
		probe.TemplateSnapshot = snapshot
		if err := probe.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}
	return errs
}

// ValidateExecutions rejects completion state for flows not in flowIDs.
func ValidateExecutions(doc *ExecutionsDocument, flowIDs map[string]bool) []error {
	var errs []error
	for id := range doc.Flows {
		if !flowIDs[id] {
			errs = append(errs, fmt.Errorf("executions.flows[%q]: unknown flow", id))
		}
	}
	return errs
}

// ValidateLinks checks link groups: at least two distinct known members
// and no flow in more than one group.
func ValidateLinks(doc *LinksDocument, flowIDs map[string]bool) []error {
	var errs []error
	owner := make(map[string]string)
	for i, g := range doc.Links {
		prefix := fmt.Sprintf("links[%d]", i)
		if g.GroupID == "" {
			errs = append(errs, fmt.Errorf("%s.groupId is required", prefix))
		}
		if len(g.Workflows) < 2 {
			errs = append(errs, fmt.Errorf("%s: a link group needs at least 2 workflows, got %d", prefix, len(g.Workflows)))
		}
		for _, id := range g.Workflows {
			if !flowIDs[id] {
				errs = append(errs, fmt.Errorf("%s: unknown flow %q", prefix, id))
			}
			if prev, ok := owner[id]; ok {
				errs = append(errs, fmt.Errorf("%s: flow %q already linked in group %q", prefix, id, prev))
				continue
			}
			owner[id] = g.GroupID
		}
	}
	return errs
}
