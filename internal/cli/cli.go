package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/picharness/internal/app"
	"github.com/specialistvlad/picharness/internal/options"
)

// Exit codes.
const (
	ExitSuccess           = 0
	ExitScenarioFailure   = 1
	ExitInvalidInvocation = 2
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

func invalidInvocationf(format string, args ...any) error {
	return &ExitError{Code: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("picharness", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
picharness - integration harness for the picprogrammer executable.

Usage:
  picharness [options] [SCENARIO_PATH...]

Arguments:
  SCENARIO_PATH
    A .txtar scenario file or a directory searched for .txtar files.
    Defaults to the "scenarios" attribute of the harness file.

Options:
`)
		flagSet.PrintDefaults()
	}

	opts := options.Register(flagSet)
	configFlag := flagSet.String("config", "", "Path to an HCL harness file.")
	workersFlag := flagSet.Int("workers", 4, "Number of scenarios run concurrently.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Per-invocation timeout, overriding the harness file. 0 keeps the file's value.")
	logFormatFlag := flagSet.String("log-format", "auto", "Log output format. Options: 'auto', 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	updateFlag := flagSet.Bool("update", false, "Rewrite failing scenarios with the actual output.")
	printEnvFlag := flagSet.Bool("print-env", false, "Print the resolved environment as JSON and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitInvalidInvocation, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "auto", "text", "json":
		// valid
	default:
		return nil, false, invalidInvocationf("invalid log-format: must be 'auto', 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, invalidInvocationf("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if *updateFlag && *printEnvFlag {
		return nil, false, invalidInvocationf("-update and -print-env are mutually exclusive")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Options:    opts,
		ConfigPath: *configFlag,
		Scenarios:  flagSet.Args(),
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		Workers:    *workersFlag,
		Timeout:    *timeoutFlag,
		Update:     *updateFlag,
		PrintEnv:   *printEnvFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitInvalidInvocation, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
