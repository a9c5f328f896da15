//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"math/big"
	"math/bits"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/format"
	"github.com/agbru/bigmul/internal/orchestration"
	"github.com/agbru/bigmul/internal/ui"
)

const (
	// HexTruncationLimit is the number of hex digits from which a product is
	// truncated on standard output.
	HexTruncationLimit = 100
	// HexDisplayEdges is the number of hex digits shown at each end of a
	// truncated product.
	HexDisplayEdges = 40
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

// newSpinner is a variable so that tests can substitute a mock.
var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with the average progress of the engines
// and an ETA until progressChan is closed, then prints the final line.
//
// Parameters:
//   - wg: Signaled when the display is done.
//   - progressChan: Updates from the engines.
//   - numTasks: The number of engines.
//   - out: The writer for the spinner.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numTasks int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numTasks)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	label := "Progress"
	if agg.IsMultiTask() {
		label = "Avg progress"
	}

	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintf(out, "%s: %s\n", label, format.FormatProgressBarWithETA(1, time.Nanosecond, ProgressBarWidth))
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(fmt.Sprintf(" %s: %s", label,
				format.FormatProgressBarWithETA(agg.CalculateAverage(), agg.GetETA(), ProgressBarWidth)))
		}
	}
}

// productInt converts a product to a big.Int without aliasing it.
func productInt(product []arith.Word) *big.Int {
	return new(big.Int).SetBits(append([]big.Word(nil), product...))
}

// DisplayResult prints the size of a verified product and, with hex set,
// its value in hexadecimal, truncated unless verbose is set.
//
// Parameters:
//   - product: The product limbs, least significant first.
//   - algo: The engine that computed it.
//   - duration: Its best time.
//   - opts: Operand sizes and display flags.
//   - out: The io.Writer for the output.
func DisplayResult(product []arith.Word, algo string, duration time.Duration, opts orchestration.PresentationOptions, out io.Writer) {
	p := productInt(product)
	fmt.Fprintf(out, "Product size: %s%s%s limbs, %s%s%s bits.\n",
		ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(len(product))), ui.ColorReset(),
		ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(p.BitLen())), ui.ColorReset())

	if opts.Verbose {
		fmt.Fprintf(out, "\n%s--- Run details ---%s\n", ui.ColorBold(), ui.ColorReset())
		if opts.RunID != "" {
			fmt.Fprintf(out, "Run ID          : %s\n", opts.RunID)
		}
		fmt.Fprintf(out, "Operands        : %s%s%s x %s%s%s\n",
			ui.ColorMagenta(), format.FormatLimbs(opts.ALimbs, bits.UintSize), ui.ColorReset(),
			ui.ColorMagenta(), format.FormatLimbs(opts.BLimbs, bits.UintSize), ui.ColorReset())
		fmt.Fprintf(out, "Fastest engine  : %s%s%s\n", ui.ColorBlue(), algo, ui.ColorReset())
		fmt.Fprintf(out, "Best time       : %s%s%s\n", ui.ColorGreen(), displayDuration(duration), ui.ColorReset())
		fmt.Fprintf(out, "Throughput      : %s\n", format.FormatThroughput(opts.ALimbs, opts.BLimbs, duration))
	}

	if !opts.Hex {
		return
	}
	hex := p.Text(16)
	fmt.Fprintf(out, "\n%s--- Product ---%s\n", ui.ColorBold(), ui.ColorReset())
	if !opts.Verbose && len(hex) > HexTruncationLimit {
		fmt.Fprintf(out, "0x%s%s...%s%s (truncated)\n",
			ui.ColorGreen(), hex[:HexDisplayEdges], hex[len(hex)-HexDisplayEdges:], ui.ColorReset())
		fmt.Fprintf(out, "(Tip: use the %s-v%s option to display the full value)\n", ui.ColorYellow(), ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "0x%s%s%s\n", ui.ColorGreen(), hex, ui.ColorReset())
}

func displayDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}
