package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/mul"
	"github.com/agbru/bigmul/internal/orchestration"
	"github.com/agbru/bigmul/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the engine selected at start; "" or "all" picks the
	// dispatcher.
	DefaultAlgo string
	// Timeout is the maximum duration of each command.
	Timeout time.Duration
	// Seed drives the operand generator.
	Seed int64
	// HexOutput displays products in hexadecimal.
	HexOutput bool
}

// REPL is an interactive multiplication session over a set of engines.
type REPL struct {
	config      REPLConfig
	engines     []orchestration.Engine
	references  *orchestration.ReferenceCache
	currentAlgo string
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - engines: The engines the session can select.
//   - references: Caches math/big products across commands; may be nil.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(engines []orchestration.Engine, references *orchestration.ReferenceCache, config REPLConfig) *REPL {
	currentAlgo := strings.ToLower(config.DefaultAlgo)
	if currentAlgo == "" || currentAlgo == "all" {
		currentAlgo = mul.Auto.String()
	}
	return &REPL{
		config:      config,
		engines:     engines,
		references:  references,
		currentAlgo: currentAlgo,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// replCommands lists the commands in help order.
var replCommands = []struct{ usage, desc string }{
	{"mul <a> [b]", "multiply random a x b limb operands with the current engine"},
	{"algo <name>", "switch engine"},
	{"compare <a> [b]", "run every engine on the same operands"},
	{"seed <n>", "change the operand seed"},
	{"list", "list the engines"},
	{"hex", "toggle hexadecimal products"},
	{"status", "show the session settings"},
	{"help", "show this help"},
	{"exit | quit", "leave the session"},
}

// Start reads and runs commands until "exit" or the end of the input. A
// last line without a newline still runs.
func (r *REPL) Start() {
	fmt.Fprintf(r.out, "\n%sbigmul interactive session%s (engines: %s)\n\n", ui.ColorBold(), ui.ColorReset(), r.getAlgoList())
	r.printHelp()
	fmt.Fprintln(r.out)

	lines := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"mul> "+ui.ColorReset())
		if !lines.Scan() {
			if err := lines.Err(); err != nil {
				fmt.Fprintf(r.out, "%sread error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		if line := strings.TrimSpace(lines.Text()); line != "" && !r.processCommand(line) {
			return
		}
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sCommands:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, c := range replCommands {
		fmt.Fprintf(r.out, "  %s%-16s%s %s\n", ui.ColorYellow(), c.usage, ui.ColorReset(), c.desc)
	}
}

func (r *REPL) getAlgoList() string {
	return strings.Join(orchestration.EngineNames(r.engines), ", ")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "mul", "m":
		r.cmdMul(args)
	case "algo", "a":
		r.cmdAlgo(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "seed":
		r.cmdSeed(args)
	case "list", "ls":
		r.cmdList()
	case "hex":
		r.cmdHex()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		// A bare size multiplies square operands.
		if _, err := strconv.Atoi(cmd); err == nil {
			r.cmdMul(parts)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}
	return true
}

// parseSizes reads "<a> [b]" and orders the result so that an >= bn.
func parseSizes(args []string) (an, bn int, err error) {
	if len(args) == 0 || len(args) > 2 {
		return 0, 0, errors.New("expected one or two operand lengths")
	}
	sizes := []int{0, 0}
	for i, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("invalid operand length: %s", s)
		}
		sizes[i] = n
	}
	an, bn = sizes[0], sizes[1]
	if bn == 0 {
		bn = an
	}
	if bn > an {
		an, bn = bn, an
	}
	return an, bn, nil
}

func (r *REPL) findEngine(name string) orchestration.Engine {
	for _, e := range r.engines {
		if strings.EqualFold(e.Name(), name) {
			return e
		}
	}
	return nil
}

func (r *REPL) cmdMul(args []string) {
	an, bn, err := parseSizes(args)
	if err != nil {
		fmt.Fprintf(r.out, "%s%v. Usage: mul <a> [b]%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	engine := r.findEngine(r.currentAlgo)
	if engine == nil {
		fmt.Fprintf(r.out, "%sEngine not found: %s%s\n", ui.ColorRed(), r.currentAlgo, ui.ColorReset())
		return
	}
	if _, err := engine.Itch(an, bn); err != nil {
		fmt.Fprintf(r.out, "%s%s cannot multiply %d x %d limbs: %v%s\n", ui.ColorYellow(), engine.Name(), an, bn, err, ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	ops := orchestration.GenerateOperands(nil, an, bn, r.config.Seed)
	product := make([]arith.Word, an+bn)
	fmt.Fprintf(r.out, "Multiplying %s%d x %d%s limbs with %s%s%s...\n",
		ui.ColorMagenta(), an, bn, ui.ColorReset(), ui.ColorCyan(), engine.Name(), ui.ColorReset())

	start := time.Now()
	err = engine.Multiply(ctx, product, ops.A, ops.B)
	duration := time.Since(start)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	status := ui.ColorGreen() + "✓ matches math/big" + ui.ColorReset()
	if err := orchestration.Verify(engine.Name(), orchestration.ReferenceName, product, r.references.Product(ops)); err != nil {
		status = ui.ColorRed() + "✗ " + err.Error() + ui.ColorReset()
	}

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:   %s%s%s\n", ui.ColorGreen(), displayDuration(duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  Bits:   %s%d%s\n", ui.ColorCyan(), productInt(product).BitLen(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Check:  %s\n", status)
	if r.config.HexOutput {
		hex := productInt(product).Text(16)
		if len(hex) > HexTruncationLimit {
			hex = hex[:HexDisplayEdges] + "..." + hex[len(hex)-HexDisplayEdges:]
		}
		fmt.Fprintf(r.out, "  Product: %s0x%s%s\n", ui.ColorGreen(), hex, ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available engines: %s\n", r.getAlgoList())
		return
	}
	engine := r.findEngine(args[0])
	if engine == nil {
		fmt.Fprintf(r.out, "%sUnknown engine: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		fmt.Fprintf(r.out, "Available engines: %s\n", r.getAlgoList())
		return
	}
	r.currentAlgo = engine.Name()
	fmt.Fprintf(r.out, "Engine changed to: %s%s%s\n", ui.ColorGreen(), engine.Name(), ui.ColorReset())
}

func (r *REPL) cmdCompare(args []string) {
	an, bn, err := parseSizes(args)
	if err != nil {
		fmt.Fprintf(r.out, "%s%v. Usage: compare <a> [b]%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	ops := orchestration.GenerateOperands(nil, an, bn, r.config.Seed)
	results := orchestration.ExecuteMultiplications(ctx, r.engines, ops, nil,
		orchestration.RunOptions{Reps: 1}, orchestration.NullProgressReporter{}, r.out)
	// Mismatches show up in the status column.
	_ = orchestration.VerifyResults(results, r.references.Product(ops), nil)
	orchestration.SortResults(results)

	fmt.Fprintf(r.out, "\n%sComparison for %d x %d limbs:%s\n", ui.ColorBold(), an, bn, ui.ColorReset())
	CLIResultPresenter{}.PresentComparisonTable(results, r.out)
}

func (r *REPL) cmdSeed(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%sUsage: seed <n>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	seed, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid seed: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	r.config.Seed = seed
	fmt.Fprintf(r.out, "Seed changed to: %s%d%s\n", ui.ColorGreen(), seed, ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable engines:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, e := range r.engines {
		marker := "  "
		if strings.EqualFold(e.Name(), r.currentAlgo) {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%s%s\n", marker, ui.ColorYellow(), e.Name(), ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdHex() {
	r.config.HexOutput = !r.config.HexOutput
	status := "disabled"
	if r.config.HexOutput {
		status = "enabled"
	}
	fmt.Fprintf(r.out, "Hexadecimal display: %s%s%s\n", ui.ColorGreen(), status, ui.ColorReset())
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Engine:       %s%s%s\n", ui.ColorCyan(), r.currentAlgo, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:      %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(r.out, "  Seed:         %s%d%s\n", ui.ColorCyan(), r.config.Seed, ui.ColorReset())
	hexStatus := "no"
	if r.config.HexOutput {
		hexStatus = "yes"
	}
	fmt.Fprintf(r.out, "  Hexadecimal:  %s%s%s\n", ui.ColorCyan(), hexStatus, ui.ColorReset())
	if r.references != nil {
		fmt.Fprintf(r.out, "  Cached refs:  %s%d%s\n", ui.ColorCyan(), r.references.Len(), ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}
