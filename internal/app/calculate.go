package app

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/cli"
	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/logging"
	"github.com/agbru/bigmul/internal/memory"
	"github.com/agbru/bigmul/internal/metrics"
	"github.com/agbru/bigmul/internal/orchestration"
	"github.com/agbru/bigmul/internal/ui"
)

// runCalculate orchestrates one comparison: it generates the operands,
// runs the selected engines, verifies them against math/big and reports.
func (a *Application) runCalculate(ctx context.Context, all []orchestration.Engine, out io.Writer) int {
	cfg := a.Config
	an, bn := max(cfg.A, cfg.OperandB()), min(cfg.A, cfg.OperandB())
	runID := uuid.NewString()
	logger := logging.ForRun(a.logger, runID, an, bn)

	engines := orchestration.SelectEngines(all, cfg.Algo, cfg.Parallel)
	if len(engines) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no engine selected for -algo %s\n", cfg.Algo)
		return apperrors.ExitErrorConfig
	}

	est := memory.EstimateMemoryUsage(an, bn, len(engines), maxScratch(engines, an, bn))
	if cfg.MemoryLimit != "" {
		if code := a.validateMemoryBudget(est, out); code != apperrors.ExitSuccess {
			return code
		}
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelTimeout()

	arena := memory.NewArena(an, bn, len(engines))
	ops := orchestration.GenerateOperands(arena, an, bn, cfg.Seed)

	if !cfg.Quiet {
		cli.PrintExecutionConfig(cfg, a.Thresholds, out)
		cli.PrintExecutionMode(engines, out)
	}

	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if cfg.Quiet {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	gc := memory.NewGCController(cfg.GCMode, an+bn)
	gc.SetLogger(logger)
	memStats := metrics.NewMemoryCollector()
	before := memStats.Snapshot()

	gc.Begin()
	results := orchestration.ExecuteMultiplications(ctx, engines, ops, arena, orchestration.RunOptions{
		RunID:   runID,
		Reps:    cfg.Reps,
		Metrics: a.metrics,
		Logger:  logger,
	}, progressReporter, progressOut)
	gc.End()
	delta := memStats.Snapshot().Delta(before)

	refs, err := orchestration.NewReferenceCache(1)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	want := refs.Product(ops)

	outputCfg := cli.OutputConfig{
		OutputFile: cfg.OutputFile,
		Quiet:      cfg.Quiet,
		Presentation: orchestration.PresentationOptions{
			RunID:   runID,
			ALimbs:  an,
			BLimbs:  bn,
			Verbose: cfg.Verbose,
			Hex:     cfg.HexOutput,
		},
	}

	var exitCode int
	if cfg.Quiet {
		exitCode = a.analyzeQuiet(results, want, outputCfg, out)
	} else {
		exitCode = orchestration.AnalyzeComparisonResults(results, want, outputCfg.Presentation, cli.CLIResultPresenter{}, a.metrics, out)
		if exitCode == apperrors.ExitSuccess && cfg.OutputFile != "" {
			exitCode = a.saveResult(results[0], outputCfg, out)
		}
	}

	if cfg.Verbose && !cfg.Quiet {
		cli.DisplayMemoryStats(delta, est, gc.Active(), out)
	}
	logger.Debug().Int("exit_code", exitCode).Msg("run finished")
	return exitCode
}

// analyzeQuiet verifies the results and prints only the fastest verified
// product on one line.
func (a *Application) analyzeQuiet(results []orchestration.MultiplicationResult, want []arith.Word, outputCfg cli.OutputConfig, out io.Writer) int {
	if err := orchestration.VerifyResults(results, want, a.metrics); err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, nil)
	}
	orchestration.SortResults(results)
	best := results[0]
	if best.Err != nil {
		return apperrors.HandleCalculationError(best.Err, 0, a.ErrWriter, nil)
	}
	if err := cli.DisplayResultWithConfig(out, best, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// saveResult writes the fastest verified product to the output file.
func (a *Application) saveResult(best orchestration.MultiplicationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	if err := cli.WriteResultToFile(best.Product, best.Name, best.Duration, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "\n%s✓ Product saved to: %s%s%s\n",
		ui.ColorGreen(), ui.ColorCyan(), outputCfg.OutputFile, ui.ColorReset())
	return apperrors.ExitSuccess
}

// validateMemoryBudget checks the estimate against -memory-limit.
func (a *Application) validateMemoryBudget(est memory.Estimate, out io.Writer) int {
	limit, err := memory.ParseMemoryLimit(a.Config.MemoryLimit)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Invalid -memory-limit: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	if est.TotalBytes > limit {
		err := apperrors.MemoryError{Estimated: est.TotalBytes, Limit: limit}
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCode(err)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Memory estimate: %s (limit: %s)\n",
			memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
	}
	return apperrors.ExitSuccess
}

// maxScratch is the largest scratch any engine needs for an x bn; engines
// that reject the sizes do not count.
func maxScratch(engines []orchestration.Engine, an, bn int) int {
	limbs := 0
	for _, e := range engines {
		if n, err := e.Itch(an, bn); err == nil {
			limbs = max(limbs, n)
		}
	}
	return limbs
}
