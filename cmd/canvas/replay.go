package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/canvas/internal/presentation/graph"
	"github.com/aretw0/canvas/internal/presentation/tui"
	"github.com/aretw0/canvas/internal/scenario"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>",
	Short: "Replay a scenario and print its trace",
	Long: `Replays every step of a scenario file against a fresh diagram, printing one
trace line per step followed by the final snapshot. The snapshot format is
chosen with --format: table (default), mermaid or json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		quiet, _ := cmd.Flags().GetBool("quiet")

		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		st, err := newStack(cmd, domain.LifecycleHooks{})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		trace, runErr := st.runner.Run(cmd.Context(), s)
		if trace != nil && !quiet {
			fmt.Fprint(out, trace.String())
			fmt.Fprintln(out)
		}
		if runErr != nil {
			return runErr
		}
		return printSnapshot(out, format, s.Name, trace.Final)
	},
}

func printSnapshot(w io.Writer, format, title string, state *domain.State) error {
	switch format {
	case "mermaid":
		_, err := fmt.Fprint(w, graph.GenerateMermaid(state))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state.Elements())
	case "table", "":
		render := tui.Plain
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			render = tui.NewRenderer()
		}
		text, err := render(tui.ElementTable(title, state))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, text)
		return err
	}
	return fmt.Errorf("unknown format %q (want table, mermaid or json)", format)
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringP("format", "f", "table", "Snapshot format: table, mermaid or json")
	replayCmd.Flags().BoolP("quiet", "q", false, "Only print the final snapshot")
}
