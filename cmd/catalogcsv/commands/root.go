// Package commands wires the catalogcsv subcommands.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"catalogcsv/internal/config"
	"catalogcsv/internal/csvio"
	"catalogcsv/internal/formatter"
	"catalogcsv/internal/logger"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfg *config.Config
	log *logger.Logger
	now func() time.Time
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	var (
		configPath string
		logLevel   string
		logFormat  string
		reportPath string
		lineEnding string
	)

	root := &cobra.Command{
		Use:   "catalogcsv",
		Short: "catalogcsv repairs and regenerates the product export CSV.",
		// Loads the config file and applies the global flags; each subcommand
		// applies its own flags and calls setup in PreRunE.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.Logging.Level = logLevel
			}

			if flags.Changed("log-format") {
				cfg.Logging.Format = logFormat
			}

			if flags.Changed("report") {
				cfg.Report.Path = reportPath
			}

			if flags.Changed("line-ending") {
				cfg.Output.LineEnding = lineEnding
			}

			a.cfg = cfg

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default "+config.DefaultPath+" when present)")
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&reportPath, "report", "", "Write a markdown run report to this path")
	pf.StringVar(&lineEnding, "line-ending", "crlf", "Row terminator for written CSV: lf or crlf")

	root.AddCommand(newNormalizeCmd(a), newMaterializeCmd(a))

	return root
}

// setup validates the final configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	a.log = logger.NewLoggerWithWriter(cmd.ErrOrStderr(), a.cfg.Logging.Level, a.cfg.Logging.Format).
		With("tool", cmd.Name())
	a.log.Debug("configuration loaded", "config", a.cfg.String())

	return nil
}

// ExecuteContext runs the command tree and exits non-zero on error.
func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

// writeReport renders r to the configured report path, if any.
func (a *app) writeReport(r formatter.Report) error {
	if a.cfg.Report.Path == "" {
		return nil
	}

	r.GeneratedAt = a.now()

	if err := csvio.WriteFileAtomic(a.cfg.Report.Path, []byte(formatter.Render(r)), csvio.WriteOptions{}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	a.log.Info("report written", "path", a.cfg.Report.Path)

	return nil
}
