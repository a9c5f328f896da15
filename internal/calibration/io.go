package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/bigmul/internal/format"
	"github.com/agbru/bigmul/internal/ui"
)

// printCalibrationResults prints one row per crossover with the speedup of
// the upper engine at the chosen size.
func printCalibrationResults(out io.Writer, res Result) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  Threshold\tEngines\tLimbs\tSizes\tSpeedup at threshold\n")
	fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", strings.Repeat("─", 12), strings.Repeat("─", 18), strings.Repeat("─", 6), strings.Repeat("─", 5), strings.Repeat("─", 20))
	for _, tier := range res.Tiers {
		engines := fmt.Sprintf("%s -> %s", tier.Lower, tier.Upper)
		limbs := fmt.Sprint(tier.Threshold)
		speedup := "N/A"
		if !tier.Found {
			limbs += " (kept)"
		}
		for _, p := range tier.Points {
			if p.BLimbs == tier.Threshold && p.Upper > 0 {
				speedup = fmt.Sprintf("x%.2f", float64(p.Lower)/float64(p.Upper))
			}
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%s\n", tier.Name, engines, limbs, len(tier.Points), speedup)
	}
	tw.Flush()
	fmt.Fprintf(out, "Parallel threshold: %s%d%s limbs. Calibration took %s.\n",
		ui.ColorCyan(), res.ParallelThreshold, ui.ColorReset(), format.FormatExecutionDuration(res.Duration))
}

// printCalibrationOutput prints the flags reproducing the calibration.
func printCalibrationOutput(res Result, out io.Writer) {
	th := res.Thresholds
	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine:%s %s-toom22 %d -toom33 %d -toom44 %d -toom6h %d -toom8h %d -toom32-to-43 %d -toom32-to-53 %d -toom42-to-53 %d -toom42-to-63 %d -parallel-threshold %d%s\n",
		ui.ColorGreen(), ui.ColorReset(), ui.ColorYellow(),
		th.Toom22, th.Toom33, th.Toom44, th.Toom6H, th.Toom8H, th.Toom32To43, th.Toom32To53, th.Toom42To53, th.Toom42To63,
		res.ParallelThreshold, ui.ColorReset())
}
