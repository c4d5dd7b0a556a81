package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/agbru/iterprogress/internal/config"
	apperrors "github.com/agbru/iterprogress/internal/errors"
	"github.com/agbru/iterprogress/internal/orchestration"
	"github.com/agbru/iterprogress/internal/sysmon"
	"github.com/agbru/iterprogress/internal/workload"
)

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	selected   []workload.Workload
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// Layout constants for the TUI dashboard.
const (
	headerHeight  = 1
	footerHeight  = 1
	minBodyHeight = 10

	// MetricsPanelHeight fits the runtime line, the host line, the totals
	// and the sparkline inside the border.
	MetricsPanelHeight = 6
)

// bodyHeight returns the available height for the panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

// workloadsHeight returns the height allocated to the workloads panel.
func (l LayoutManager) workloadsHeight() int {
	return l.bodyHeight() - MetricsPanelHeight
}

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header    HeaderModel
	workloads WorkloadsModel
	metrics   MetricsModel
	footer    FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	opts      orchestration.RunOptions
	ref       *programRef
	paused    bool
}

// NewModel creates a new TUI model.
func NewModel(parentCtx context.Context, workloads []workload.Workload, cfg config.AppConfig, opts orchestration.RunOptions, version string) Model {
	names := make([]string, len(workloads))
	for i, w := range workloads {
		names[i] = w.Name
	}

	ctx, cancel := context.WithCancel(parentCtx)
	keymap := DefaultKeyMap()

	return Model{
		header:    NewHeaderModel(version),
		workloads: NewWorkloadsModel(names),
		metrics:   NewMetricsModel(),
		footer:    NewFooterModel(keymap),
		keymap:    keymap,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			selected: workloads,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		opts:      opts,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.workloads.spinner.Tick,
		startRunCmd(m.ref, m.ctx, m.selected, m.config, m.opts, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case WorkloadProgressMsg:
		if msg.Generation != m.generation || m.paused {
			return m, nil
		}
		m.workloads.Apply(msg)
		m.metrics.UpdateItems(msg.TotalItems)
		m.header.SetProgress(msg.AverageProgress, msg.ETA, msg.HasFraction || msg.Done)
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case SummaryMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.workloads.ApplySummary(msg.Results)
		var total uint64
		for _, res := range msg.Results {
			total += res.Items
		}
		m.metrics.UpdateItems(total)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.workloads, cmd = m.workloads.Update(msg)
		return m, cmd

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			m.metrics.Sample(time.Time(msg))
			return m, tea.Batch(sampleRuntimeStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case RuntimeStatsMsg:
		m.metrics.UpdateRuntimeStats(msg)
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		m.footer.SetDone(true)
		m.footer.SetError(msg.ExitCode != apperrors.ExitSuccess)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		if !m.done {
			m.exitCode = apperrors.ExitCodeFor(msg.Err)
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		if m.cancel != nil {
			m.cancel()
		}

		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel
		m.opts.RunID = uuid.New()

		m.header.Reset()
		m.workloads.Reset()
		m.metrics = NewMetricsModel()
		m.metrics.SetSize(m.width, MetricsPanelHeight)
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess

		return m, tea.Batch(
			tickCmd(),
			startRunCmd(m.ref, m.ctx, m.selected, m.config, m.opts, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)

	case key.Matches(msg, m.keymap.Up):
		m.workloads.ScrollUp()
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.workloads.ScrollDown()
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.workloads.View(),
		m.metrics.View(),
		m.footer.View(),
	)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.workloads.SetSize(m.width, m.workloadsHeight())
	m.metrics.SetSize(m.width, MetricsPanelHeight)
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, workloads []workload.Workload, cfg config.AppConfig, opts orchestration.RunOptions, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, workloads, cfg, opts, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startRunCmd returns a tea.Cmd that runs the workloads to completion.
func startRunCmd(ref *programRef, ctx context.Context, workloads []workload.Workload, cfg config.AppConfig, opts orchestration.RunOptions, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, gen: gen}
		presenter := &TUIResultPresenter{ref: ref, gen: gen}

		results := orchestration.ExecuteWorkloads(ctx, workloads, cfg, opts, reporter, io.Discard)
		exitCode := orchestration.Summarize(results, presenter, io.Discard)

		return RunCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleRuntimeStatsCmd reads process and host resource usage.
func sampleRuntimeStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return RuntimeStatsMsg{Snapshot: sysmon.Sample()}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
