// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/orchestration"
	"github.com/agbru/bigmul/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the product (empty for no file output).
	OutputFile string
	// Quiet mode prints a single summary line.
	Quiet bool
	// Presentation carries the operand sizes and the verbose and hex flags.
	Presentation orchestration.PresentationOptions
}

// WriteResultToFile writes a product in hexadecimal to config.OutputFile,
// after a commented header describing the run. Missing directories are
// created.
//
// Parameters:
//   - product: The product limbs.
//   - algo: The engine that computed it.
//   - duration: Its best time.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(product []arith.Word, algo string, duration time.Duration, config OutputConfig) (err error) {
	if config.OutputFile == "" {
		return nil
	}

	if dir := filepath.Dir(config.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	p := productInt(product)
	opts := config.Presentation
	fmt.Fprintf(file, "# bigmul product\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	if opts.RunID != "" {
		fmt.Fprintf(file, "# Run: %s\n", opts.RunID)
	}
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# Operands: %d x %d limbs\n", opts.ALimbs, opts.BLimbs)
	fmt.Fprintf(file, "# Limbs: %d\n", len(product))
	fmt.Fprintf(file, "# Bits: %d\n", p.BitLen())
	fmt.Fprintf(file, "\n")
	if _, err := fmt.Fprintf(file, "0x%s\n", p.Text(16)); err != nil {
		return fmt.Errorf("failed to write product: %w", err)
	}
	return nil
}

// FormatQuietResult formats a single-line summary for scripts:
// the engine, the best time in nanoseconds and the product bit length, or
// the hex product when hex is set.
func FormatQuietResult(product []arith.Word, algo string, duration time.Duration, hex bool) string {
	p := productInt(product)
	if hex {
		return "0x" + p.Text(16)
	}
	return fmt.Sprintf("%s %d %d", algo, duration.Nanoseconds(), p.BitLen())
}

// DisplayQuietResult outputs a result in quiet mode.
func DisplayQuietResult(out io.Writer, product []arith.Word, algo string, duration time.Duration, hex bool) {
	fmt.Fprintln(out, FormatQuietResult(product, algo, duration, hex))
}

// DisplayResultWithConfig displays a result in the configured mode and
// saves it when an output file is set.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, result orchestration.MultiplicationResult, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, result.Product, result.Name, result.Duration, config.Presentation.Hex)
	} else {
		DisplayResult(result.Product, result.Name, result.Duration, config.Presentation, out)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(result.Product, result.Name, result.Duration, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Product saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}
	return nil
}
