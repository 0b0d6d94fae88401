package main

import (
	"github.com/aretw0/canvas/internal/scenario"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <scenario.yaml>",
	Short: "Export the final diagram as a Mermaid graph",
	Long:  `Replays a scenario and outputs a Mermaid diagram (graph TD) of the resulting snapshot.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		st, err := newStack(cmd, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		trace, err := st.runner.Run(cmd.Context(), s)
		if err != nil {
			return err
		}
		return printSnapshot(cmd.OutOrStdout(), "mermaid", s.Name, trace.Final)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
