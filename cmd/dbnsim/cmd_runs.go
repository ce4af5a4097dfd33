package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvandessel/dbnsim/internal/store"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect and export archived runs",
	}
	cmd.PersistentFlags().String("store-dir", ".dbnsim", "Run store directory")

	cmd.AddCommand(newRunsListCmd(), newRunsShowCmd(), newRunsExportCmd(), newRunsDeleteCmd())
	return cmd
}

func openRunStore(cmd *cobra.Command) (*store.RunStore, error) {
	dir, _ := cmd.Flags().GetString("store-dir")
	rs, err := store.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return rs, nil
}

func newRunsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			rs, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer rs.Close()

			runs, err := rs.ListRuns(context.Background())
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(runs)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tMODEL\tCREATED\tSTEPS\tCOLUMNS")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
					r.ID, r.Model, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Steps, len(r.Columns))
			}
			return tw.Flush()
		},
	}
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one archived run's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			rs, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer rs.Close()

			meta, err := rs.GetRun(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(meta)
			}
			axis := "integer"
			if meta.Calendar {
				axis = "calendar"
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "ID:\t%s\n", meta.ID)
			fmt.Fprintf(tw, "Model:\t%s\n", meta.Model)
			fmt.Fprintf(tw, "Created:\t%s\n", meta.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(tw, "Steps:\t%d\n", meta.Steps)
			fmt.Fprintf(tw, "Time column:\t%s (%s axis)\n", meta.TimeColumn, axis)
			fmt.Fprintf(tw, "Columns:\t%s\n", strings.Join(meta.Columns, ", "))
			return tw.Flush()
		},
	}
}

func newRunsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			rs, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer rs.Close()

			frame, err := rs.LoadRun(context.Background(), args[0])
			if err != nil {
				return err
			}
			return writeFrame(cmd, frame, format, output)
		},
	}
	cmd.Flags().String("format", "csv", "Output format: table, csv or arrow")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newRunsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer rs.Close()

			if err := rs.DeleteRun(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", args[0])
			return nil
		},
	}
}
