package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/flowboard/internal/export"
)

// FormatPreview renders export counts the way the export dialog shows them.
func FormatPreview(s export.Summary, dynamic bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", Dim("nodes in scope:"), s.Nodes)
	fmt.Fprintf(&b, "%s %d\n", Dim("board cards:   "), s.BoardCards)
	if s.References > 0 {
		fmt.Fprintf(&b, "%s %d\n", Dim("references:    "), s.References)
	}
	if dynamic {
		fmt.Fprintf(&b, "%s %d (%d tasks, %d connections)\n",
			Dim("dynamic list:  "), s.DynamicList, s.Tasks, s.Connections)
	}
	return b.String()
}

// FormatExportError renders an export rejection with the field to fix.
func FormatExportError(e *export.Error) string {
	msg := StyleRed.Render(string(e.Code)) + " " + e.Message
	if e.Field != "" {
		msg += Dim(" (" + e.Field + ")")
	}
	return msg
}
