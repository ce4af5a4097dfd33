package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/dbnsim/internal/config"
	"github.com/nvandessel/dbnsim/internal/visualization"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <model.yaml>",
		Short: "Render the network structure",
		Long: `Output the network in DOT (Graphviz) or JSON format. The DOT rendering
unrolls the network over time: one copy of every node per slice up to the
maximum lag, with lagged edges crossing slices.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			model, err := config.Load(args[0])
			if err != nil {
				return err
			}
			net, err := model.Build()
			if err != nil {
				return err
			}

			switch format {
			case "dot":
				fmt.Fprint(cmd.OutOrStdout(), visualization.RenderDOT(net))
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(visualization.RenderJSON(net)); err != nil {
					return fmt.Errorf("encode JSON: %w", err)
				}
			default:
				return fmt.Errorf("unsupported format %q (use 'dot' or 'json')", format)
			}
			return nil
		},
	}

	cmd.Flags().String("format", "dot", "Output format: dot or json")
	return cmd
}
