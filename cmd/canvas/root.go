package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/canvas"
	"github.com/aretw0/canvas/internal/idgen"
	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/internal/scenario"
	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/observability"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/aretw0/canvas/pkg/session"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "canvas",
	Short: "Canvas is an action engine for class and activity diagrams",
	Long: `Canvas applies editing actions to UML-style diagrams through a reducer and
a cascade of follow-up effects. Scenarios written in YAML can be replayed,
rendered as Mermaid graphs or served read-only over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().Int("cascade-limit", canvas.DefaultCascadeLimit, "Maximum actions applied per dispatch")
	rootCmd.PersistentFlags().Int("history", session.DefaultHistoryLimit, "Undo history depth per diagram (0 disables undo)")
	rootCmd.PersistentFlags().Bool("uuid", false, "Mint random UUIDs instead of sequential ids")
}

// stack bundles everything a command needs to replay scenarios.
type stack struct {
	logger  *slog.Logger
	manager *session.Manager
	runner  *scenario.Runner
}

// newStack wires logger, engine, session manager and scenario runner from the
// persistent flags. Extra hooks are merged after the logging hooks.
func newStack(cmd *cobra.Command, hooks domain.LifecycleHooks) (*stack, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	formatName, _ := cmd.Flags().GetString("log-format")
	limit, _ := cmd.Flags().GetInt("cascade-limit")
	history, _ := cmd.Flags().GetInt("history")
	random, _ := cmd.Flags().GetBool("uuid")

	cfg, err := logging.ParseConfig(levelName, formatName)
	if err != nil {
		return nil, err
	}
	if history < 0 {
		return nil, fmt.Errorf("invalid --history %d: must not be negative", history)
	}
	logger := logging.NewWithConfig(cfg)

	var ids ports.IDGenerator = idgen.NewSequence("el-")
	if random {
		ids = idgen.UUID{}
	}
	hooks = observability.LogHooks(logger).Merge(hooks)

	engine := canvas.New(
		canvas.WithIDGenerator(ids),
		canvas.WithLogger(logger),
		canvas.WithLifecycleHooks(hooks),
		canvas.WithCascadeLimit(limit),
	)
	manager := session.NewManager(memory.NewStore(),
		session.WithEngine(engine),
		session.WithHistoryLimit(history),
		session.WithLogger(logger),
	)
	runner := scenario.NewRunner(manager,
		scenario.WithIDGenerator(ids),
		scenario.WithLifecycleHooks(hooks),
		scenario.WithLogger(logger),
	)
	return &stack{logger: logger, manager: manager, runner: runner}, nil
}
