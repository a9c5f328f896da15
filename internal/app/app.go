// Package app wires the bigmul command: it parses the configuration,
// resolves the thresholds and dispatches to the comparison, calibration,
// dashboard, REPL or completion mode.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agbru/bigmul/internal/calibration"
	"github.com/agbru/bigmul/internal/cli"
	"github.com/agbru/bigmul/internal/config"
	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/logging"
	"github.com/agbru/bigmul/internal/metrics"
	"github.com/agbru/bigmul/internal/mul"
	"github.com/agbru/bigmul/internal/orchestration"
	"github.com/agbru/bigmul/internal/server"
	"github.com/agbru/bigmul/internal/tui"
	"github.com/agbru/bigmul/internal/ui"
)

// referenceCacheSize bounds the math/big products kept by the dashboard and
// the REPL across reruns.
const referenceCacheSize = 16

// Application represents the bigmul application instance.
type Application struct {
	Config config.AppConfig
	// Thresholds are the effective crossovers: the defaults, overlaid by the
	// calibration profile, overlaid by the threshold flags.
	Thresholds config.Thresholds
	// ParallelThreshold is the effective concurrent split threshold.
	ParallelThreshold int
	// ProfileLoaded is set when a calibration profile contributed.
	ProfileLoaded bool
	ErrWriter     io.Writer

	logger  zerolog.Logger
	metrics *metrics.Collector
}

// New creates a new Application instance by parsing command-line arguments.
//
// Parameters:
//   - args: The full argument vector, program name first.
//   - errWriter: Where parse errors and usage go.
//
// Returns:
//   - *Application: The configured application.
//   - error: A parse or validation error; see IsHelpError.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "bigmul"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	availableAlgos := orchestration.EngineNames(orchestration.NewEngines(mul.Default()))
	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, availableAlgos)
	if err != nil {
		return nil, err
	}

	app := &Application{
		Config:            cfg,
		ErrWriter:         errWriter,
		Thresholds:        config.DefaultThresholds(),
		ParallelThreshold: cfg.ParallelThreshold,
		logger:            zerolog.Nop(),
	}
	if !cfg.Calibrate {
		app.applyProfile()
	}
	return app, nil
}

// applyProfile overlays the cached calibration profile and then the
// threshold flags on the defaults. A profile whose thresholds do not
// validate is ignored.
func (a *Application) applyProfile() {
	if profile, ok := calibration.LoadCachedCalibration(a.Config.CalibrationProfile); ok {
		th := a.Thresholds.Merge(profile.Thresholds)
		if th.Validate() == nil {
			a.Thresholds = th
			a.ProfileLoaded = true
			if profile.ParallelThreshold > 0 && a.Config.ParallelThreshold == config.DefaultParallelThreshold {
				a.ParallelThreshold = profile.ParallelThreshold
			}
		}
	}
	a.Thresholds = a.Thresholds.Merge(a.Config.Thresholds)
}

// Run executes the application based on the configured mode.
//
// Returns:
//   - int: The process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	level, err := logging.ParseLogLevel(a.Config.LogLevel)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	a.logger = logging.NewLogger(a.ErrWriter, "bigmul", level)
	ui.InitTheme(a.Config.NoColor, ui.IsTerminal(os.Stdout))
	a.metrics = metrics.NewCollector()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	if a.Config.MetricsAddr != "" {
		if code := a.startMetricsServer(ctx); code != apperrors.ExitSuccess {
			return code
		}
	}

	mp, err := mul.New(a.Thresholds, mul.WithParallelThreshold(a.ParallelThreshold))
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	engines := orchestration.NewEngines(mp)

	switch {
	case a.Config.TUI:
		return a.runTUI(ctx, engines)
	case a.Config.Interactive:
		return a.runREPL(engines)
	default:
		return a.runCalculate(ctx, engines, out)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	algos := orchestration.EngineNames(orchestration.NewEngines(mul.Default()))
	if err := cli.GenerateCompletion(out, a.Config.Completion, algos); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration runs the calibration mode and saves the profile.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, cancel := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancel()
	return calibration.RunCalibration(ctx, out, calibration.CalibrationOptions{
		ProfilePath: a.Config.CalibrationProfile,
		SaveProfile: true,
		Quick:       a.Config.CalibrateQuick,
		Logger:      a.logger,
	})
}

// startMetricsServer serves /metrics in the background until ctx ends.
func (a *Application) startMetricsServer(ctx context.Context) int {
	srv := server.New(a.Config.MetricsAddr, a.metrics, server.WithLogger(a.logger))
	addr, err := srv.Start(ctx)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	a.logger.Info().Str("addr", addr.String()).Msg("metrics endpoint listening")
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context, engines []orchestration.Engine) int {
	refs, err := orchestration.NewReferenceCache(referenceCacheSize)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return tui.Run(ctx, tui.Session{
		Engines:    orchestration.SelectEngines(engines, a.Config.Algo, a.Config.Parallel),
		References: refs,
		Config:     a.Config,
		RunID:      uuid.NewString(),
		Metrics:    a.metrics,
		Logger:     a.logger,
		Version:    Version,
	})
}

// runREPL starts an interactive multiplication session on stdin.
func (a *Application) runREPL(engines []orchestration.Engine) int {
	refs, err := orchestration.NewReferenceCache(referenceCacheSize)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	cli.NewREPL(engines, refs, cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
		Seed:        a.Config.Seed,
		HexOutput:   a.Config.HexOutput,
	}).Start()
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
