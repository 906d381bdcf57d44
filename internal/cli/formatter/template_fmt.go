package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/flowboard/internal/domain"
)

// FormatTemplateList renders the template list inside a bordered box.
func FormatTemplateList(templates []*domain.Template) string {
	headers := []string{"ID", "NAME", "LEVELS", "VERSION"}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		name := Bold(t.Name)
		if t.IsDefault {
			name += " " + Dim("(default)")
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			name,
			levelPath(t),
			Dim(t.Version),
		})
	}
	return RenderBox("Templates", RenderTable(headers, rows))
}

// FormatTemplateShow renders a template with its levels and enabled
// properties.
func FormatTemplateShow(t *domain.Template) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(t.Name) + "\n\n")
	fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("ID     "), t.ID)
	fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("VERSION"), Dim(t.Version))
	if t.Description != "" {
		fmt.Fprintf(&b, "\n  %s\n", t.Description)
	}

	b.WriteString("\n" + Header("Levels") + "\n")
	for i, lvl := range t.Levels {
		fmt.Fprintf(&b, "  %d. %s / %s\n", i+1, StyleBold.Render(lvl.SingularName), lvl.PluralName)
		if props := enabledProps(lvl.UnitConfig); len(props) > 0 {
			fmt.Fprintf(&b, "     %s\n", Dim(strings.Join(props, ", ")))
		}
	}
	return RenderBox("", b.String())
}

func levelPath(t *domain.Template) string {
	names := make([]string, len(t.Levels))
	for i, lvl := range t.Levels {
		names[i] = lvl.SingularName
	}
	return strings.Join(names, " › ")
}

func enabledProps(c domain.UnitConfig) []string {
	flags := []struct {
		on   bool
		name string
	}{
		{c.EnableName, "name"},
		{c.EnableDescription, "description"},
		{c.EnableTags, "tags"},
		{c.EnableDone, "done"},
		{c.EnableGrade, "grade"},
		{c.GradeCumulative, "cumulative grade"},
		{c.EnableProgressBar, "progress"},
		{c.EnableLinks, "links"},
		{c.EnableImages, "images"},
		{c.EnableNotes, "notes"},
		{c.EnableComments, "comments"},
	}
	var out []string
	for _, f := range flags {
		if f.on {
			out = append(out, f.name)
		}
	}
	return out
}
