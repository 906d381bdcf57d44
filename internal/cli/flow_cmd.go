package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/flowboard/internal/cli/formatter"
	"github.com/alexanderramin/flowboard/internal/importer"
	"github.com/alexanderramin/flowboard/internal/service"
	"github.com/spf13/cobra"
)

func newFlowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flow",
		Aliases: []string{"workflow"},
		Short:   "Manage workflows",
	}

	cmd.AddCommand(
		newFlowCreateCmd(app),
		newFlowListCmd(app),
		newFlowShowCmd(app),
		newFlowRenameCmd(app),
		newFlowDeleteCmd(app),
		newFlowCopyCmd(app),
		newFlowLinkCmd(app),
		newFlowUnlinkCmd(app),
		newFlowImportCmd(app),
		newFlowCompleteCmd(app),
		newFlowSaveCmd(app),
		newFlowPropagateCmd(app),
	)

	return cmd
}

func newFlowCreateCmd(app *App) *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if templateID != "" {
				id, err := resolveTemplateID(ctx, app, templateID)
				if err != nil {
					return err
				}
				templateID = id
			}
			f, err := app.Flows.Create(ctx, args[0], templateID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created flow %s [%s]\n", f.Name, f.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Template ID (default: the built-in empty template)")

	return cmd
}

func newFlowListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flows, err := app.Flows.List(ctx)
			if err != nil {
				return err
			}
			if len(flows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No flows found.")
				return nil
			}

			entries := make([]formatter.FlowListEntry, 0, len(flows))
			for _, f := range flows {
				completion, err := app.Flows.Completion(ctx, f.ID)
				if err != nil {
					return err
				}
				g, _, err := app.Flows.LinkGroup(ctx, f.ID)
				if err != nil {
					return err
				}
				entries = append(entries, formatter.FlowListEntry{Flow: f, Completed: completion.Count(), GroupID: g.GroupID})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFlowList(entries, time.Now()))
			return nil
		},
	}
}

func newFlowShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a workflow tree with completion, grades and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveFlowID(ctx, app, args[0])
			if err != nil {
				return err
			}
			f, err := app.Flows.Get(ctx, id)
			if err != nil {
				return err
			}
			completion, err := app.Flows.Completion(ctx, id)
			if err != nil {
				return err
			}
			view := formatter.FlowView{Flow: f, Completion: completion}
			if g, ok, err := app.Flows.LinkGroup(ctx, id); err != nil {
				return err
			} else if ok {
				view.Group = &g
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFlowTree(view))
			return nil
		},
	}
}

func newFlowRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveFlowID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Flows.Rename(ctx, id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed flow %s to %s\n", id, args[1])
			return nil
		},
	}
}

func newFlowDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a workflow and its completion state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveFlowID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Flows.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted flow %s\n", id)
			return nil
		},
	}
}

func newFlowCopyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "copy SOURCE [NAME]",
		Short: "Create an independent copy of a workflow",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveFlowID(ctx, app, args[0])
			if err != nil {
				return err
			}
			f, err := app.Flows.Copy(ctx, id, optionalArg(args, 1))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created copy %s [%s]\n", f.Name, f.ID)
			return nil
		},
	}
}

func newFlowLinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link SOURCE [NAME]",
		Short: "Create a copy kept structurally in sync with its source",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveFlowID(ctx, app, args[0])
			if err != nil {
				return err
			}
			linked, err := app.Flows.CreateLinked(ctx, id, optionalArg(args, 1))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created linked flow %s [%s] in group %s\n",
				linked.Flow.Name, linked.Flow.ID, linked.GroupID)
			return nil
		},
	}
}

func newFlowUnlinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink ID",
		Short: "Remove a workflow from its link group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveFlowID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Flows.Unlink(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlinked flow %s\n", id)
			return nil
		},
	}
}

func newFlowImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import PATH",
		Short: "Import workflows from a document or a whole data directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Imports.ImportFlows(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d template(s), %d flow(s), %d link group(s).\n",
				res.Templates, res.Flows, res.Links)
			return nil
		},
	}
}

func newFlowCompleteCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete ID NODE",
		Short: "Mark a node done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveFlowID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Flows.SetCompletion(ctx, id, args[1], !undo); err != nil {
				return err
			}
			state := "done"
			if undo {
				state = "not done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s\n", args[1], state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the node not done")

	return cmd
}

func newFlowSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save ID FILE",
		Short: "Replace a workflow's structure and propagate it to linked flows",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveFlowID(ctx, app, args[0])
			if err != nil {
				return err
			}
			nodes, err := importer.LoadNodes(args[1])
			if err != nil {
				return err
			}
			res, err := app.Flows.SaveStructure(ctx, id, nodes)
			if err != nil {
				var perr *service.PersistError
				if errors.As(err, &perr) {
					return fmt.Errorf("%w (nothing was saved)", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved flow %s\n", id)
			printPropagation(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newFlowPropagateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "propagate ID",
		Short: "Push a workflow's structure to its linked flows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveFlowID(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Flows.Propagate(ctx, id)
			if err != nil {
				return err
			}
			printPropagation(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func printPropagation(w io.Writer, res *service.SaveResult) {
	for _, id := range res.Updated {
		fmt.Fprintf(w, "  %s updated linked flow %s\n", formatter.StyleGreen.Render("✔"), id)
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "  %s skipped %s: %s\n", formatter.StyleYellow.Render("!"), s.FlowID, s.Reason)
	}
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
