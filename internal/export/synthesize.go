package export

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/ident"
)

const (
	sourceTypeWorkflow = "workflow"
	priorityMedium     = "medium"
	importAuthor       = "System Import"
	wipLimitInProgress = 5
)

type columnSpec struct {
	name  string
	color string
	limit int
}

var workColumns = []columnSpec{
	{name: domain.ColumnNameTodo, color: "#0d6efd"},
	{name: domain.ColumnNameInProgress, color: "#0dcaf0", limit: wipLimitInProgress},
	{name: domain.ColumnNameReview, color: "#ffc107"},
	{name: domain.ColumnNameDone, color: "#198754"},
}

const referencesColor = "#6c757d"

// nodeCards records the cards created for one node. A node has at most one
// reference card and at most one board card.
type nodeCards struct {
	reference string
	board     string
}

// count returns how many cards the node produced.
func (c nodeCards) count() int {
	n := 0
	if c.reference != "" {
		n++
	}
	if c.board != "" {
		n++
	}
	return n
}

type synthesizer struct {
	ids    ident.Generator
	now    time.Time
	rnd    *rand.Rand
	tpl    *domain.Template
	cfg    *Config
	filter *Filter
	done   domain.Completion
	board  *domain.Board
	cards  map[string]nodeCards
}

// buildColumns lays out the optional locked References column followed by
// the fixed work columns.
func (s *synthesizer) buildColumns() {
	order := 0
	if s.cfg.ExportReference {
		s.board.Columns = append(s.board.Columns, domain.Column{
			ID:     s.ids.New(ident.PrefixColumn),
			Name:   domain.ColumnNameReferences,
			Order:  order,
			Color:  referencesColor,
			Locked: true,
		})
		order++
	}
	for _, wc := range workColumns {
		col := domain.Column{
			ID:    s.ids.New(ident.PrefixColumn),
			Name:  wc.name,
			Order: order,
			Color: wc.color,
		}
		if wc.limit > 0 {
			limit := wc.limit
			col.Limit = &limit
		}
		s.board.Columns = append(s.board.Columns, col)
		order++
	}
}

// synthesize creates zero, one or two cards for every selected node.
func (s *synthesizer) synthesize(selected []Selected) {
	s.buildColumns()
	var referenceColumnID string
	if s.cfg.ExportReference {
		referenceColumnID = s.board.Columns[0].ID
	}
	defaultColumnID := s.board.ColumnIDForKey(domain.ColumnTodo)

	for _, sel := range selected {
		var nc nodeCards
		if s.cfg.ExportReference && sel.Depth == s.cfg.ReferenceLevel {
			nc.reference = s.addCard(sel, referenceColumnID)
		}
		if s.cfg.ExportDynamicList {
			if cls := Classify(sel.Node, sel.Depth, s.cfg, s.filter); cls.Column != domain.ColumnNone {
				nc.board = s.addCard(sel, s.board.ColumnIDForKey(cls.Column))
			}
		} else if nc.reference == "" {
			nc.board = s.addCard(sel, defaultColumnID)
		}
		if nc.count() > 0 {
			s.cards[sel.Node.ID] = nc
		}
	}
}

func (s *synthesizer) addCard(sel Selected, columnID string) string {
	n := sel.Node
	card := domain.Card{
		ID:          s.ids.New(ident.PrefixCard),
		BoardID:     s.board.ID,
		ColumnID:    columnID,
		Order:       len(s.board.Cards),
		Title:       n.DisplayName(s.tpl, sel.Depth),
		Description: n.Body(),
		SourceType:  sourceTypeWorkflow,
		SourceID:    n.ID,
		SourceGrade: domain.Float64PtrIfNonZero(n.Grade),
		Labels:      []string{},
		Attachments: s.attachments(n.Footer),
		IsDone:      s.done.IsDone(n.ID),
		Priority:    priorityMedium,
		CreatedAt:   s.now,
	}
	for _, tag := range n.Tags {
		s.ensureLabel(tag)
		card.Labels = append(card.Labels, tag)
	}
	s.board.Cards = append(s.board.Cards, card)
	return card.ID
}

// attachments converts footer content into card attachments: comments,
// then notes, links and images, each list in its own order.
func (s *synthesizer) attachments(f *domain.Footer) []domain.Attachment {
	out := []domain.Attachment{}
	if f == nil {
		return out
	}
	for _, c := range f.Comments {
		out = append(out, s.attachment(domain.AttachmentComment, "", c, ""))
	}
	for _, note := range f.Notes {
		out = append(out, s.attachment(domain.AttachmentNote, domain.CoalesceStr(note.Title, "Imported Note"), note.Content, ""))
	}
	for _, link := range f.Links {
		out = append(out, s.attachment(domain.AttachmentLink, domain.CoalesceStr(link.Text, "Link"), "", link.URL))
	}
	for _, img := range f.Images {
		out = append(out, s.attachment(domain.AttachmentImage, domain.CoalesceStr(img.Title, "Image"), "", img.URL))
	}
	return out
}

func (s *synthesizer) attachment(typ domain.AttachmentType, title, content, url string) domain.Attachment {
	return domain.Attachment{
		Type:      typ,
		Title:     title,
		Content:   content,
		URL:       url,
		Author:    importAuthor,
		Timestamp: s.now,
	}
}

// ensureLabel adds a label for tag to the board palette on first use.
func (s *synthesizer) ensureLabel(tag string) {
	if s.board.LabelByName(tag) != nil {
		return
	}
	s.board.Labels = append(s.board.Labels, domain.Label{
		ID:    s.ids.New(ident.PrefixLabel),
		Name:  tag,
		Color: fmt.Sprintf("#%06x", s.rnd.IntN(0x1000000)),
	})
}
