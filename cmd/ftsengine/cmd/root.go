// Package cmd provides the CLI commands for ftsengine.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ftskit/ftsengine/internal/config"
	"github.com/ftskit/ftsengine/internal/logging"
)

// version is the CLI's release version, printed via --version.
const version = "0.1.0"

// activeLogger and activeLogCleanup are populated by the root command's
// PersistentPreRunE and consumed by openEngine/runIndex, so every
// subcommand logs through the same configured handler.
var (
	activeLogger     *slog.Logger
	activeLogCleanup = func() {}
)

// NewRootCmd creates the root command for the ftsengine CLI.
func NewRootCmd() *cobra.Command {
	var logLevel string
	var logFile string
	var logStderr bool

	cmd := &cobra.Command{
		Use:     "ftsengine",
		Short:   "A full-text search engine you can embed or drive from the command line",
		Version: version,
		Long: `ftsengine indexes newline-delimited JSON documents and serves
BM25-ranked search over them, with fuzzy matching and prefix search
built in.

Every subcommand operates on a single bbolt database file:

  ftsengine index <db> <jsonl-file>   build or extend an index
  ftsengine search <db> <query>       run a one-shot search
  ftsengine stats <db>                print index statistics
  ftsengine repl <db>                 open an interactive search session`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCfg := config.LoggingConfig{
				Level:         logLevel,
				FilePath:      logFile,
				MaxSizeMB:     10,
				MaxFiles:      5,
				WriteToStderr: logStderr,
			}
			logger, cleanup, err := logging.Setup(logCfg)
			if err != nil {
				return err
			}
			activeLogger = logger
			activeLogCleanup = cleanup
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			activeLogCleanup()
			return nil
		},
	}
	cmd.SetVersionTemplate("ftsengine version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, or error")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (rotating); empty disables file logging")
	cmd.PersistentFlags().BoolVar(&logStderr, "log-stderr", false, "also write log lines to stderr")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newReplCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
