package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/calcbench/internal/cli"
	"github.com/agbru/calcbench/internal/config"
	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/expr"
	"github.com/agbru/calcbench/internal/logging"
	"github.com/agbru/calcbench/internal/server"
	"github.com/agbru/calcbench/internal/tui"
	"github.com/agbru/calcbench/internal/ui"
)

// Application represents the calcbench application instance.
type Application struct {
	Config    config.AppConfig
	Factory   *expr.Factory
	ErrWriter io.Writer

	input io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom evaluator factory for the application.
func WithFactory(f *expr.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithInput sets the reader the REPL consumes instead of stdin.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.input = r }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = expr.NewDefaultFactory()
	}

	programName := "calcbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}

	app.Config = config.ApplyAdaptiveDefaults(cfg)
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	if err := logging.ParseLevel(a.Config.LogLevel); err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	ui.InitTheme(a.Config.Theme, a.Config.NoColor)

	switch {
	case a.Config.Expr != "":
		return a.runExpression(out)
	case a.Config.Bench:
		return a.runBench(ctx, out)
	case a.Config.TUI:
		return a.runTUI(ctx, out)
	case a.Config.Serve != "":
		return a.runServe(ctx, out)
	}
	return a.runREPL(out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runTUI launches the keypad interface.
func (a *Application) runTUI(ctx context.Context, _ io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return tui.Run(ctx, a.Factory, a.Config, Version)
}

// runServe serves the HTTP API until interrupted.
func (a *Application) runServe(ctx context.Context, _ io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger := logging.NewLogger(a.ErrWriter, "server")
	srv := server.NewServer(a.Factory, a.Config, server.WithLogger(logger))
	if err := srv.Start(ctx); err != nil {
		logger.Error("server stopped", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive calculator, the default mode.
func (a *Application) runREPL(out io.Writer) int {
	logger := logging.NewLogger(a.ErrWriter, "repl")
	repl := cli.NewREPL(a.Factory, cli.REPLConfig{
		Backend: a.Config.Backend,
		Timeout: a.Config.Timeout,
		Bench:   a.Config,
		Logger:  logger.Zerolog(),
	})
	if a.input != nil {
		repl.SetInput(a.input)
	}
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
