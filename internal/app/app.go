// Package app wires configuration, the reducer and the presentation layers
// into the rangecalc application.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/rangecalc/internal/calibration"
	"github.com/agbru/rangecalc/internal/config"
	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/logging"
	"github.com/agbru/rangecalc/internal/metrics"
	"github.com/agbru/rangecalc/internal/orchestration"
	"github.com/agbru/rangecalc/internal/reducer"
	"github.com/agbru/rangecalc/internal/tui"
	"github.com/agbru/rangecalc/internal/ui"
)

// Application represents the rangecalc application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	logger   logging.Logger
	recorder *metrics.Recorder
}

// New creates a new Application by parsing command-line arguments. args
// includes the program name.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "rangecalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	return &Application{
		Config:    config.ApplyAdaptiveWorkers(cfg),
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application in the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	zerolog.SetGlobalLevel(level)
	a.logger = logging.NewLogger(a.ErrWriter, "rangecalc")
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Metrics {
		a.recorder = metrics.NewRecorder(true)
		defer a.writeMetrics(out)
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	switch {
	case a.Config.Calibrate:
		return a.runCalibration(ctx, out)
	case a.Config.TUI:
		return a.runTUI(ctx)
	default:
		return a.runCalculate(ctx, out)
	}
}

// runCalibration runs the worker-count sweep.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	return calibration.RunCalibration(ctx, out, a.Config.CalibrationN, a.Config.Threads, a.logger)
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	variants, r, code := a.prepare()
	if code != apperrors.ExitSuccess {
		return code
	}
	// Log lines would tear the alternate screen.
	opts := a.execOptions()
	opts.Logger = logging.NewNopLogger()

	info := fmt.Sprintf("[1, %d] | %d worker(s) | %d variant(s)", a.Config.N, r.Workers(), len(variants))
	return tui.Run(ctx, tui.NewComparisonRunner(r, variants, a.Config.N, opts), info, Version)
}

// prepare selects the variants and builds the reducer. A non-zero code
// means the run cannot start.
func (a *Application) prepare() ([]reducer.Variant, *reducer.Reducer, int) {
	variants, err := orchestration.GetVariantsToRun(a.Config.Op, a.Config.Variant, a.Config.Wide)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return nil, nil, apperrors.ExitErrorConfig
	}

	r, err := reducer.New(append(a.Config.ToReducerOptions(), reducer.WithLogger(a.logger))...)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return nil, nil, apperrors.ExitErrorConfig
	}
	if a.recorder != nil {
		a.recorder.SetWorkers(r.Workers())
	}
	return variants, r, apperrors.ExitSuccess
}

func (a *Application) execOptions() orchestration.ExecOptions {
	opts := orchestration.ExecOptions{Repeat: a.Config.Repeat, Logger: a.logger}
	if a.recorder != nil {
		opts.Recorder = a.recorder
		opts.Observer = a.recorder
	}
	return opts
}

func (a *Application) writeMetrics(out io.Writer) {
	fmt.Fprintf(out, "\n--- Metrics ---\n")
	if err := a.recorder.WriteText(out); err != nil {
		a.logger.Error("writing metrics failed", err)
	}
}

// IsHelpError checks if the error is a help flag error (-help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
