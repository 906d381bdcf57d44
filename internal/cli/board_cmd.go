package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/flowboard/internal/cli/formatter"
	"github.com/alexanderramin/flowboard/internal/repository"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Browse exported boards",
	}

	cmd.AddCommand(
		newBoardListCmd(app),
		newBoardShowCmd(app),
		newBoardDeleteCmd(app),
	)

	return cmd
}

func newBoardListCmd(app *App) *cobra.Command {
	var flowID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exported boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				boards []repository.BoardSummary
				err    error
			)
			if flowID != "" {
				id, rerr := resolveFlowID(ctx, app, flowID)
				if rerr != nil {
					return rerr
				}
				boards, err = app.Boards.ListByFlow(ctx, id)
			} else {
				boards, err = app.Boards.List(ctx)
			}
			if err != nil {
				return err
			}
			if len(boards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No boards found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBoardList(boards, time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&flowID, "flow", "", "Only boards exported from this flow")

	return cmd
}

func newBoardShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a board's columns, cards and dynamic list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveBoardID(ctx, app, args[0])
			if err != nil {
				return err
			}
			b, err := app.Boards.Get(ctx, id)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(b))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the board as JSON")

	return cmd
}

func newBoardDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an exported board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveBoardID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Boards.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted board %s\n", id)
			return nil
		},
	}
}
