// Package cli parses mmmm's command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mmmm-dev/mmmm/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly (help text was
// printed), or an ExitError naming the process exit code.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("mmmm", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mmmm - a declarative modpack build workflow engine.

Usage:
  mmmm [options] WORKFLOW_PATH

Arguments:
  WORKFLOW_PATH
    Path to the workflow YAML file to run.

Options:
`)
		flagSet.PrintDefaults()
	}

	outputDirFlag := flagSet.String("output-dir", "", "Directory Output nodes write into (shorthand -o).")
	oFlag := flagSet.String("o", "", "Directory Output nodes write into (shorthand for --output-dir).")
	configDirFlag := flagSet.String("config-dir", "", "Directory containing mmmm.toml. Defaults to the OS user config directory.")
	cFlag := flagSet.String("c", "", "Directory containing mmmm.toml (shorthand for --config-dir).")
	clearCacheFlag := flagSet.Bool("clear-cache", false, "Clear the in-memory resolution cache before running.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "missing required argument WORKFLOW_PATH"}
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected extra arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}
	workflowPath := flagSet.Arg(0)

	outputDir := *outputDirFlag
	if outputDir == "" {
		outputDir = *oFlag
	}
	configDir := *configDirFlag
	if configDir == "" {
		configDir = *cFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		WorkflowPath: workflowPath,
		OutputDir:    outputDir,
		ConfigDir:    configDir,
		ClearCache:   *clearCacheFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
