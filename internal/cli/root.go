// Package cli implements the cobra-based CLI commands for qv.
//
// Each subcommand (serve, levels, psi, export, square) is defined in its own
// file within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quantum-visualizer/internal/config"
	"github.com/shinji-kodama/quantum-visualizer/internal/logging"
	"github.com/shinji-kodama/quantum-visualizer/internal/model"
	"github.com/shinji-kodama/quantum-visualizer/internal/well"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command.
var (
	// jsonOutput switches command output and error output to JSON.
	jsonOutput bool

	// verbose forces debug logging and enables VerboseLog output.
	verbose bool

	// configPath is an optional YAML or JSONC config file.
	configPath string
)

// Build information, injected from the main package.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// The root command itself does not perform any action.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qv",
		Short: "Quantum infinite potential well calculator and HTTP service",
		Long: `qv computes energy levels and stationary wavefunctions of a particle
in a one-dimensional infinite potential well.

Results can be printed, exported to spreadsheets, or served over HTTP
for the quantum visualizer front end.`,

		// Errors are printed by Execute in text or JSON form.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSONC config file")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewLevelsCommand())
	rootCmd.AddCommand(NewPsiCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewSquareCommand())

	return rootCmd
}

// Execute runs the root command and translates errors into exit codes.
// CLIError values carry their own code; anything else exits with 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError writes an error to stderr as text or JSON, depending on --json.
// stdout stays reserved for successful command output.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig returns the built-in defaults, or the --config file overlaid on
// them. Failures are reported with ExitConfigError.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to load configuration", err)
	}
	VerboseLog("Loaded configuration from %s", configPath)
	return cfg, nil
}

// newLogger builds the logrus logger from cfg.Log. --verbose forces debug.
func newLogger(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = logrus.DebugLevel.String()
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Log.Format, Output: out})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "invalid log configuration", err)
	}
	return logger, nil
}

// wellError converts a well construction or evaluation error into a CLIError,
// keeping InvalidParameter distinguishable by exit code.
func wellError(err error) error {
	if errors.Is(err, well.ErrInvalidParameter) {
		return model.WrapCLIError(model.ExitInvalidParameter, "invalid well parameters", err)
	}
	return model.WrapCLIError(model.ExitGeneralError, "computation failed", err)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode output", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
