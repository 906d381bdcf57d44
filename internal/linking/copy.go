package linking

import (
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/ident"
)

// Copy is a new flow derived from an existing one.
type Copy struct {
	Flow       *domain.Flow
	Completion domain.Completion
	GroupID    string
}

// CopyFlow returns an independent copy of source under a new flow id with
// fresh node ids. Completion marks follow their nodes.
func CopyFlow(source *domain.Flow, completion domain.Completion, name string, ids ident.Generator, now time.Time) Copy {
	return copyFlow(source, completion, name, ids, now, false)
}

// CloneLinked copies source like CopyFlow and links the copy to source,
// joining source's group or creating a new one. Copied nodes keep source's
// lineage keys so later propagation can match them.
func CloneLinked(reg *Registry, source *domain.Flow, completion domain.Completion, name string, ids ident.Generator, now time.Time) (Copy, error) {
	c := copyFlow(source, completion, name, ids, now, true)
	groupID, err := reg.Link(source.ID, c.Flow.ID, ids)
	if err != nil {
		return Copy{}, err
	}
	c.GroupID = groupID
	return c, nil
}

func copyFlow(source *domain.Flow, completion domain.Completion, name string, ids ident.Generator, now time.Time, keepLineage bool) Copy {
	f := &domain.Flow{
		ID:               ids.New(ident.PrefixFlow),
		Name:             name,
		TemplateID:       source.TemplateID,
		TemplateSnapshot: domain.CloneTemplate(source.TemplateSnapshot),
		Icon:             source.Icon,
		Description:      source.Description,
		Data:             domain.CloneNodes(source.Data),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	done := domain.Completion{}
	_ = domain.Walk(f.Data, func(n *domain.Node, _ int, _ *domain.Node) error {
		oldID, key := n.ID, n.LinkKey()
		n.ID = ids.New(ident.PrefixUnit)
		if keepLineage {
			n.Origin = key
		} else {
			n.Origin = ""
		}
		if completion.IsDone(oldID) {
			done[n.ID] = true
		}
		return nil
	})
	return Copy{Flow: f, Completion: done}
}
