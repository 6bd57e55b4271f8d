package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mmmm-dev/mmmm/internal/app"
	"github.com/mmmm-dev/mmmm/internal/cli"
)

// main is the entrypoint for the mmmm binary.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing.
func run(outW io.Writer, args []string) (runErr error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			runErr = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	mmmmApp, err := app.NewApp(outW, appConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return mmmmApp.Run(context.Background(), appConfig)
}
