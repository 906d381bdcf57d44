package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/flowboard/internal/cli/formatter"
	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/export"
	"github.com/spf13/cobra"
)

// exportOptions are the export command flags.
type exportOptions struct {
	scope          scopeValue
	selected       []string
	tag            string
	name           string
	description    string
	referenceLevel int
	dynamicList    bool
	types          *assignmentValue
	columns        *assignmentValue
	preview        bool
	interactive    bool
}

func newExportCmd(app *App) *cobra.Command {
	opts := &exportOptions{
		scope:          scopeValue(domain.ScopeFull),
		referenceLevel: -1,
		types:          newAssignmentValue("type", dynamicTypeNames()...),
		columns:        newAssignmentValue("column", columnKeyNames()...),
	}

	cmd := &cobra.Command{
		Use:   "export FLOW",
		Short: "Export a workflow as a Kanban board",
		Long: `Export a workflow as a Kanban board.

Scope full exports every node, partial exports the nodes given with --select
(and their descendants), tag exports the nodes carrying --tag. With
--reference-level the nodes at that depth become reference cards. With
--dynamic-list every node is classified as task, connection or skip and may
be assigned a board column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flowID, err := resolveFlowID(ctx, app, args[0])
			if err != nil {
				return err
			}
			sess, err := app.Export.NewSession(ctx, flowID)
			if err != nil {
				return err
			}

			if opts.interactive {
				ok, err := runExportWizard(sess)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Export cancelled.")
					return nil
				}
			} else if err := opts.apply(sess); err != nil {
				return exportFailure(err)
			}

			cfg := sess.Config()
			if opts.preview {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPreview(sess.Preview(), cfg.ExportDynamicList))
				return nil
			}

			board, err := app.Export.Export(ctx, flowID, cfg)
			if err != nil {
				return exportFailure(err)
			}
			printExported(cmd.OutOrStdout(), board)
			return nil
		},
	}

	f := cmd.Flags()
	f.Var(&opts.scope, "scope", "Export scope: full, partial or tag")
	f.StringSliceVar(&opts.selected, "select", nil, "Node IDs to export with --scope partial")
	f.StringVar(&opts.tag, "tag", "", "Tag to export with --scope tag")
	f.StringVar(&opts.name, "name", "", "Board name (default derived from flow and scope)")
	f.StringVar(&opts.description, "description", "", "Board description")
	f.IntVar(&opts.referenceLevel, "reference-level", -1, "Template depth (0-based) whose nodes become reference cards")
	f.BoolVar(&opts.dynamicList, "dynamic-list", false, "Build the dynamic list")
	f.Var(opts.types, "type", "Dynamic list type override NODE=task|connection|skip (repeatable)")
	f.Var(opts.columns, "column", "Board column NODE=todo|in-progress|review|done|none (repeatable)")
	f.BoolVar(&opts.preview, "preview", false, "Print what would be exported without creating a board")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "Choose export options interactively")

	return cmd
}

// apply replays the flags onto sess in the order a user would make the
// same choices interactively, so derived defaults match.
func (o *exportOptions) apply(sess *export.Session) error {
	if err := sess.SetScope(domain.Scope(o.scope)); err != nil {
		return err
	}
	if o.tag != "" {
		sess.SetTag(o.tag)
	}
	for _, id := range o.selected {
		if err := sess.ToggleNode(id, true); err != nil {
			return err
		}
	}
	if o.referenceLevel >= 0 {
		sess.SetReference(true)
		if err := sess.SetReferenceLevel(o.referenceLevel); err != nil {
			return err
		}
	}
	if o.dynamicList {
		sess.SetDynamicList(true)
	}
	for _, id := range o.types.IDs() {
		if err := sess.SetNodeType(id, domain.DynamicListType(o.types.Get(id))); err != nil {
			return err
		}
	}
	for _, id := range o.columns.IDs() {
		key := domain.ColumnKey(o.columns.Get(id))
		if key == "none" {
			key = domain.ColumnNone
		}
		if err := sess.SetNodeColumn(id, key); err != nil {
			return err
		}
	}
	if o.name != "" {
		sess.SetBoardName(o.name)
	}
	if o.description != "" {
		sess.SetBoardDescription(o.description)
	}
	return nil
}

func exportFailure(err error) error {
	var e *export.Error
	if errors.As(err, &e) {
		return errors.New(formatter.FormatExportError(e))
	}
	return err
}

func printExported(w io.Writer, b *domain.Board) {
	fmt.Fprintf(w, "Exported board %s [%s]\n", formatter.Bold(b.Name), b.ID)
	for _, col := range b.Columns {
		if n := len(b.CardsInColumn(col.Name)); n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", formatter.ColumnStyle(col.Name).Render(col.Name), n)
		}
	}
	if b.DynamicList.IsActive {
		fmt.Fprintf(w, "  dynamic list: %d\n", len(b.DynamicList.Nodes))
	}
}
