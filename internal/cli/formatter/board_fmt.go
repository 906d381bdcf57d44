package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/repository"
)

func FormatBoardList(boards []repository.BoardSummary, now time.Time) string {
	headers := []string{"ID", "NAME", "FLOW", "CARDS", "DYNAMIC", "CREATED"}
	rows := make([][]string, 0, len(boards))
	for _, b := range boards {
		rows = append(rows, []string{
			TruncID(b.ID),
			Bold(b.Name),
			TruncID(b.SourceFlowID),
			fmt.Sprintf("%d", b.CardCount),
			fmt.Sprintf("%d", b.DynamicCount),
			Dim(HumanTimestamp(b.CreatedAt, now)),
		})
	}
	return RenderBox("Boards", RenderTable(headers, rows))
}

// FormatBoard renders columns with their cards, followed by the dynamic
// list when it is active.
func FormatBoard(b *domain.Board) string {
	var sb strings.Builder
	sb.WriteString(StyleBold.Render(b.Name) + "  " + Dim(b.ID) + "\n")
	if b.Description != "" {
		sb.WriteString(b.Description + "\n")
	}
	sb.WriteString("\n")

	for _, col := range b.Columns {
		cards := b.CardsInColumn(col.Name)
		style := ColumnStyle(col.Name)
		title := fmt.Sprintf("%s (%d)", col.Name, len(cards))
		if col.Locked {
			title += " " + Dim("locked")
		}
		sb.WriteString(style.Bold(true).Render(title) + "\n")
		for _, c := range cards {
			mark := "•"
			if c.IsDone {
				mark = "✔"
			}
			line := fmt.Sprintf("  %s %s", style.Render(mark), c.Title)
			if len(c.Labels) > 0 {
				line += " " + TagList(c.Labels)
			}
			if c.SourceGrade != nil {
				line += " " + Dim("grade "+FormatGrade(*c.SourceGrade))
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	if b.DynamicList.IsActive && len(b.DynamicList.Nodes) > 0 {
		sb.WriteString(Header("Dynamic list") + "\n")
		sb.WriteString(FormatDynamicList(b.DynamicList.Nodes))
	}
	return sb.String()
}

// FormatDynamicList renders dynamic list entries indented by level.
func FormatDynamicList(nodes []domain.DynamicListNode) string {
	var sb strings.Builder
	for _, n := range nodes {
		indent := strings.Repeat("  ", n.Level)
		line := fmt.Sprintf("%s%s %s", indent, TypeBadge(n.Type), n.Title)
		if len(n.LinkedTaskIDs) > 0 {
			line += " " + Dim(fmt.Sprintf("→ %d card(s)", len(n.LinkedTaskIDs)))
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}
