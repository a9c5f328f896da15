// Package tui implements the -tui dashboard: a bubbletea program that runs
// a comparison and shows the engines' progress, their verified timings and
// the runtime memory figures while they multiply.
package tui

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/agbru/bigmul/internal/config"
	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/logging"
	"github.com/agbru/bigmul/internal/metrics"
	"github.com/agbru/bigmul/internal/orchestration"
)

// Session is what a dashboard needs to run comparisons.
type Session struct {
	Engines    []orchestration.Engine
	References *orchestration.ReferenceCache
	Config     config.AppConfig
	RunID      string
	Metrics    *metrics.Collector
	Logger     zerolog.Logger
	Version    string
}

// ExecutionState holds the execution-related fields of a dashboard session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	failed     bool
	exitCode   int
}

// Layout constants for the dashboard.
const (
	tickInterval = 500 * time.Millisecond
	minWidth     = 40
)

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header     HeaderModel
	algorithms AlgorithmsModel
	metrics    MetricsModel
	spinner    spinner.Model
	help       help.Model
	keymap     KeyMap

	ExecutionState
	width, height int

	parentCtx context.Context
	session   Session
	seed      int64
	ref       *programRef
	paused    bool
}

// NewModel creates a dashboard model for session.
func NewModel(parentCtx context.Context, session Session) Model {
	cfg := session.Config
	ctx, cancel := context.WithCancel(parentCtx)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = statusRunningStyle

	an, bn := cfg.A, cfg.OperandB()
	if bn > an {
		an, bn = bn, an
	}

	return Model{
		header:     NewHeaderModel(session.Version, an, bn, cfg.Seed),
		algorithms: NewAlgorithmsModel(orchestration.EngineNames(session.Engines)),
		metrics:    NewMetricsModel(),
		spinner:    sp,
		help:       help.New(),
		keymap:     DefaultKeyMap(),
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		session:   session,
		seed:      cfg.Seed,
		ref:       &programRef{},
	}
}

// ExitCode returns the exit code of the last completed run.
func (m Model) ExitCode() int {
	return m.exitCode
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(),
		startRunCmd(m.ref, m.ctx, m.session, m.seed, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, minWidth)
		m.height = msg.Height
		m.header.SetWidth(m.width)
		m.metrics.SetWidth(m.width)
		m.help.Width = m.width
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		if msg.Generation != m.generation || m.paused {
			return m, nil
		}
		m.algorithms.SetProgress(msg.TaskIndex, msg.Value)
		m.metrics.UpdateProgress(msg.AverageProgress, msg.ETA)
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.algorithms.SetResults(msg.Results)
		m.metrics.SetResults(msg.Results)
		return m, nil

	case FinalResultMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.metrics.SetFastest(msg.Result)
		return m, nil

	case ErrorMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.metrics.SetError(msg.Err)
		m.failed = true
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		return m, sampleMemStatsCmd()

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.done = true
		m.exitCode = apperrors.ExitCode(msg.Err)
		m.header.SetDone()
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Rerun):
		return m.restart(m.seed)

	case key.Matches(msg, m.keymap.NextSeed):
		return m.restart(m.seed + 1)

	case key.Matches(msg, m.keymap.Up):
		m.algorithms.MoveUp()
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.algorithms.MoveDown()
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// restart cancels the current run and starts a new generation with seed.
func (m Model) restart(seed int64) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.generation++
	m.ctx, m.cancel = context.WithCancel(m.parentCtx)
	m.seed = seed

	m.header.Reset(seed)
	m.algorithms.Reset()
	m.metrics.Reset()
	m.done = false
	m.failed = false
	m.paused = false
	m.exitCode = apperrors.ExitSuccess

	return m, tea.Batch(
		m.spinner.Tick,
		tickCmd(),
		startRunCmd(m.ref, m.ctx, m.session, m.seed, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	spin := ""
	if !m.done {
		spin = m.spinner.View()
	}
	sections := []string{
		m.header.View(spin),
		panelStyle.Width(m.width - 2).Render(m.algorithms.View()),
		m.metrics.View(),
	}
	if detail := m.algorithms.SelectedDetail(); detail != "" {
		sections = append(sections, " "+dimStyle.Render(truncateString(detail, m.width-2)))
	}
	sections = append(sections, m.footerView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// footerView renders the run status and the key help.
func (m Model) footerView() string {
	var status string
	switch {
	case m.done && m.failed:
		status = statusErrorStyle.Render(" ERROR ")
	case m.done:
		status = statusDoneStyle.Render(" DONE ")
	case m.paused:
		status = statusPausedStyle.Render(" PAUSED ")
	default:
		status = statusRunningStyle.Render(" RUNNING ")
	}
	return status + " " + m.help.View(m.keymap)
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, session Session) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, session)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		session.Logger.Error().Err(err).Msg("dashboard failed")
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startRunCmd returns a tea.Cmd that generates the operands, runs the
// comparison and analyzes it. Each run gets its own -timeout; the dashboard
// itself stays open until the user quits.
func startRunCmd(ref *programRef, ctx context.Context, session Session, seed int64, gen uint64) tea.Cmd {
	return func() tea.Msg {
		cfg := session.Config
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		bridge := runBridge{to: ref, gen: gen}

		ops := orchestration.GenerateOperands(nil, cfg.A, cfg.OperandB(), seed)
		results := orchestration.ExecuteMultiplications(ctx, session.Engines, ops, nil, orchestration.RunOptions{
			RunID:   session.RunID,
			Reps:    cfg.Reps,
			Metrics: session.Metrics,
			Logger:  logging.ForRun(session.Logger, session.RunID, len(ops.A), len(ops.B)),
		}, bridge, io.Discard)

		want := session.References.Product(ops)
		opts := orchestration.PresentationOptions{
			RunID:   session.RunID,
			ALimbs:  len(ops.A),
			BLimbs:  len(ops.B),
			Verbose: cfg.Verbose,
			Hex:     cfg.HexOutput,
		}
		exitCode := orchestration.AnalyzeComparisonResults(results, want, opts, bridge, session.Metrics, io.Discard)

		return RunCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
