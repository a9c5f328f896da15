package cli

import (
	"fmt"
	"io"
	"math/bits"
	"runtime"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/config"
	"github.com/agbru/bigmul/internal/format"
	"github.com/agbru/bigmul/internal/orchestration"
	"github.com/agbru/bigmul/internal/ui"
)

// PrintExecutionConfig displays the operands, environment and active
// thresholds of the run.
//
// Parameters:
//   - cfg: The application configuration.
//   - th: The thresholds the engines use, after profile and flag overrides.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, th config.Thresholds, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Multiplying %s%s%s by %s%s%s (seed %d) with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), format.FormatLimbs(cfg.A, bits.UintSize), ui.ColorReset(),
		ui.ColorMagenta(), format.FormatLimbs(cfg.OperandB(), bits.UintSize), ui.ColorReset(),
		cfg.Seed, ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		ui.ColorCyan(), arith.Features(), ui.ColorReset())
	fmt.Fprintf(out, "Thresholds: %s%s%s.\n", ui.ColorCyan(), th, ui.ColorReset())
	if cfg.Reps > 1 {
		fmt.Fprintf(out, "Repetitions: %s%d%s per algorithm.\n", ui.ColorCyan(), cfg.Reps, ui.ColorReset())
	}
}

// PrintExecutionMode displays whether one engine runs or several are
// compared.
func PrintExecutionMode(engines []orchestration.Engine, out io.Writer) {
	var modeDesc string
	if len(engines) > 1 {
		modeDesc = fmt.Sprintf("Concurrent comparison of %d algorithms", len(engines))
	} else {
		modeDesc = fmt.Sprintf("Single multiplication with the %s%s%s algorithm",
			ui.ColorGreen(), engines[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
