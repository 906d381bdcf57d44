package importer

import (
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/google/uuid"
)

// Dataset is a converted bundle, ready for persistence.
type Dataset struct {
	Templates   []*domain.Template
	Flows       []*domain.Flow
	Completions map[string]domain.Completion
	Links       []domain.LinkGroup
}

// Convert turns a validated bundle into domain objects. Call
// ValidateBundle first; Convert assumes b is valid. Templates without an id
// get a new one, flows without a snapshot get a copy of their template and
// cumulative grades are recomputed.
func Convert(b *Bundle, known map[string]*domain.Template, now time.Time) *Dataset {
	ds := &Dataset{Completions: make(map[string]domain.Completion)}

	templates := make(map[string]*domain.Template, len(known))
	for id, t := range known {
		templates[id] = t
	}
	for _, src := range b.Templates.Templates {
		t := domain.CloneTemplate(src)
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		for i := range t.Levels {
			t.Levels[i].Order = i
			if t.Levels[i].ID == "" {
				t.Levels[i].ID = uuid.New().String()
			}
		}
		stamp(&t.CreatedAt, &t.UpdatedAt, now)
		templates[t.ID] = t
		ds.Templates = append(ds.Templates, t)
	}

	for _, src := range b.Workflows.Flows {
		f := &domain.Flow{
			ID:               src.ID,
			Name:             src.Name,
			TemplateID:       src.TemplateID,
			TemplateSnapshot: domain.CloneTemplate(src.TemplateSnapshot),
			Icon:             src.Icon,
			Description:      src.Description,
			Data:             domain.CloneNodes(src.Data),
			CreatedAt:        src.CreatedAt,
			UpdatedAt:        src.UpdatedAt,
		}
		if f.TemplateSnapshot == nil {
			f.TemplateSnapshot = domain.CloneTemplate(templates[f.TemplateID])
		}
		if f.TemplateID == "" && f.TemplateSnapshot != nil {
			f.TemplateID = f.TemplateSnapshot.ID
		}
		if f.Data == nil {
			f.Data = []*domain.Node{}
		}
		stamp(&f.CreatedAt, &f.UpdatedAt, now)
		domain.UpdateCumulativeGrades(f)
		ds.Flows = append(ds.Flows, f)
		ds.Completions[f.ID] = domain.Completion{}
	}

	for flowID, state := range b.Executions.Flows {
		c, ok := ds.Completions[flowID]
		if !ok {
			continue
		}
		for nodeID, done := range state.Completed {
			c.Set(nodeID, done)
		}
	}

	for _, g := range b.Links.Links {
		ds.Links = append(ds.Links, domain.LinkGroup{
			GroupID:   g.GroupID,
			Workflows: append([]string(nil), g.Workflows...),
		})
	}
	return ds
}

func stamp(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = *created
	}
}
