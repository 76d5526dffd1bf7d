package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/specialistvlad/picharness/internal/app"
	"github.com/specialistvlad/picharness/internal/cli"
)

// main is the entrypoint for the picharness command.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	err = app.NewApp(outW, logW, appConfig).Run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, app.ErrInvalidConfig):
		return &cli.ExitError{Code: cli.ExitInvalidInvocation, Message: err.Error()}
	case errors.Is(err, app.ErrScenariosFailed):
		return &cli.ExitError{Code: cli.ExitScenarioFailure, Message: err.Error()}
	default:
		return err
	}
}
