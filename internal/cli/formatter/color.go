package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ColumnStyle returns the style used for cards and headers of a column.
func ColumnStyle(name string) lipgloss.Style {
	switch name {
	case domain.ColumnNameTodo:
		return StyleBlue
	case domain.ColumnNameInProgress:
		return StyleYellow
	case domain.ColumnNameReview:
		return StylePurple
	case domain.ColumnNameDone:
		return StyleGreen
	case domain.ColumnNameReferences:
		return StyleDim
	default:
		return StyleFg
	}
}

// TypeBadge renders a dynamic list entry type.
func TypeBadge(t domain.DynamicListType) string {
	switch t {
	case domain.DynamicTask:
		return StyleGreen.Render("task")
	case domain.DynamicConnection:
		return StyleBlue.Render("connection")
	default:
		return StyleDim.Render(string(t))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
