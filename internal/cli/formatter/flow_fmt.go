package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
)

// FlowListEntry is one row of the flow list.
type FlowListEntry struct {
	Flow      *domain.Flow
	Completed int
	GroupID   string
}

func FormatFlowList(entries []FlowListEntry, now time.Time) string {
	headers := []string{"ID", "NAME", "TEMPLATE", "NODES", "DONE", "LINKED", "UPDATED"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		tplName := e.Flow.TemplateID
		if t := e.Flow.Template(); t != nil {
			tplName = t.Name
		}
		linked := Dim("--")
		if e.GroupID != "" {
			linked = StyleBlue.Render(e.GroupID)
		}
		rows = append(rows, []string{
			TruncID(e.Flow.ID),
			Bold(e.Flow.Name),
			tplName,
			fmt.Sprintf("%d", domain.CountNodes(e.Flow.Data)),
			fmt.Sprintf("%d", e.Completed),
			linked,
			Dim(HumanTimestamp(e.Flow.UpdatedAt, now)),
		})
	}
	return RenderBox("Flows", RenderTable(headers, rows))
}

// FlowView is everything shown by flow show.
type FlowView struct {
	Flow       *domain.Flow
	Completion domain.Completion
	Group      *domain.LinkGroup
}

// FormatFlowTree renders a flow header followed by its node tree. Nodes on
// trackable levels show their completion state; parents of trackable levels
// show a progress bar.
func FormatFlowTree(v FlowView) string {
	f := v.Flow
	tpl := f.Template()

	var b strings.Builder
	b.WriteString(StyleBold.Render(f.Name) + "  " + Dim(f.ID) + "\n")
	if tpl != nil {
		fmt.Fprintf(&b, "%s %s\n", Dim("template:"), tpl.Name)
	}
	if f.Description != "" {
		b.WriteString(f.Description + "\n")
	}
	if v.Group != nil {
		fmt.Fprintf(&b, "%s %s (%d flows)\n", Dim("linked:"), v.Group.GroupID, len(v.Group.Workflows))
	}
	b.WriteString("\n")

	if len(f.Data) == 0 {
		b.WriteString(Dim("  (no nodes)") + "\n")
		return b.String()
	}
	b.WriteString(RenderTree(flowTreeItems(f.Data, tpl, v.Completion)))
	return b.String()
}

func flowTreeItems(roots []*domain.Node, tpl *domain.Template, c domain.Completion) []TreeItem {
	var items []TreeItem
	var visit func(nodes []*domain.Node, depth int)
	visit = func(nodes []*domain.Node, depth int) {
		lvl := tpl.Level(depth)
		for i, n := range nodes {
			item := TreeItem{
				Title:  n.DisplayName(tpl, depth) + " " + Dim(n.ID),
				Level:  depth,
				IsLast: i == len(nodes)-1,
			}
			if lvl != nil && lvl.UnitConfig.EnableDone {
				item.Trackable = true
				item.Done = c.IsDone(n.ID)
			}
			if tags := TagList(n.Tags); tags != "" {
				item.Title += " " + tags
			}
			item.Detail = nodeDetail(n, tpl, depth, c)
			items = append(items, item)
			visit(n.Subcategories, depth+1)
		}
	}
	visit(roots, 0)
	return items
}

func nodeDetail(n *domain.Node, tpl *domain.Template, depth int, c domain.Completion) string {
	lvl := tpl.Level(depth)
	if lvl == nil {
		return ""
	}
	var parts []string
	if lvl.UnitConfig.EnableGrade && n.Grade != 0 {
		parts = append(parts, "grade "+FormatGrade(n.Grade))
	}
	if child := tpl.Level(depth + 1); child != nil && child.UnitConfig.EnableDone && len(n.Subcategories) > 0 {
		parts = append(parts, fmt.Sprintf("%d%%", domain.Progress(n, tpl, depth, c)))
	}
	return strings.Join(parts, " · ")
}
