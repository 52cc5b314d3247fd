// Package cli provides the cobra commands of the eigentrust binary.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/eigentrust/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootOptions is the state shared by every subcommand of one invocation.
type rootOptions struct {
	configPath string
	logLevel   string
	logJSON    bool

	cfg    *config.Config
	logger zerolog.Logger
	runID  string
}

// newRootCmd builds a fresh command tree.
func newRootCmd() *cobra.Command {
	ro := &rootOptions{}
	root := &cobra.Command{
		Use:   "eigentrust",
		Short: "EigenTrust - global trust from peer interaction counts",
		Long: `eigentrust computes the EigenTrust global trust vector of a fixed set of
peers from two CSV matrices of satisfactory and unsatisfactory interaction
counts.

Examples:
  eigentrust generate --peers 10 --seed 1
  eigentrust compute
  eigentrust compute --variant damped --damping 0.15 --pretrusted 0,3
  eigentrust compute --variant fixed-depth --depth 10 --all --json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ro.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&ro.configPath, "config", "c", "", "YAML run configuration")
	pf.StringVar(&ro.logLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides the config")
	pf.BoolVar(&ro.logJSON, "log-json", false, "emit logs as JSON instead of console text")

	root.AddCommand(newGenerateCmd(ro), newComputeCmd(ro), newVersionCmd())

	return root
}

// init loads the configuration and builds the run logger.
func (ro *rootOptions) init(cmd *cobra.Command) error {
	var err error
	if ro.configPath != "" {
		ro.cfg, err = config.Load(ro.configPath)
	} else {
		ro.cfg, err = config.FromEnv()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		ro.cfg.Log.Level = ro.logLevel
	}
	if flags.Changed("log-json") {
		ro.cfg.Log.JSON = ro.logJSON
	}

	ro.runID = uuid.NewString()
	ro.logger, err = newLogger(cmd.ErrOrStderr(), ro.cfg.Log.Level, ro.cfg.Log.JSON, ro.runID)

	return err
}

// newLogger creates a logger with component and run metadata.
func newLogger(w io.Writer, level string, asJSON bool, runID string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, config.ErrInvalidConfiguration)
	}
	out := w
	if !asJSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zerolog.DurationFieldUnit = time.Millisecond

	return zerolog.New(out).Level(lvl).With().
		Timestamp().
		Str("component", "eigentrust").
		Str("run_id", runID).
		Logger(), nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return 1
	}

	return 0
}
