package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/rangecalc/internal/cli"
	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/format"
	"github.com/agbru/rangecalc/internal/orchestration"
	"github.com/agbru/rangecalc/internal/reducer"
	"github.com/agbru/rangecalc/internal/sysmon"
	"github.com/agbru/rangecalc/internal/ui"
)

const (
	// tickInterval is the system sampling period.
	tickInterval = 500 * time.Millisecond
	// cpuHistory is the number of CPU samples shown for a run.
	cpuHistory = 40
	// progressBarWidth is the width of the dashboard progress bar.
	progressBarWidth = 30
)

// Runner executes one comparison run, reporting through reporter and
// presenter, and returns its exit code.
type Runner func(ctx context.Context, reporter orchestration.ProgressReporter, presenter orchestration.ResultPresenter) int

// NewComparisonRunner returns a Runner that executes the variants on r for
// n and analyzes their results.
func NewComparisonRunner(r *reducer.Reducer, variants []reducer.Variant, n int64, opts orchestration.ExecOptions) Runner {
	return func(ctx context.Context, reporter orchestration.ProgressReporter, presenter orchestration.ResultPresenter) int {
		results := orchestration.ExecuteVariants(ctx, r, variants, n, opts, reporter, io.Discard)
		return orchestration.AnalyzeComparisonResults(results, orchestration.PresentationOptions{N: n}, presenter, io.Discard)
	}
}

// ExecutionState holds the fields of the current run.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	spinner spinner.Model
	help    help.Model
	keymap  KeyMap

	ExecutionState

	progress float64
	eta      time.Duration
	results  []orchestration.VariantResult
	finals   []FinalResultMsg
	errs     []error
	cpu      *CPUHistory
	mem      float64
	width    int

	parentCtx context.Context
	runner    Runner
	ref       *programRef
}

// NewModel creates a dashboard that runs runner on start and on every
// rerun. info is shown in the header.
func NewModel(parentCtx context.Context, runner Runner, info, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	return Model{
		header:  NewHeaderModel(version, info),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusRunningStyle)),
		help:    help.New(),
		keymap:  DefaultKeyMap(),
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		cpu:       NewCPUHistory(cpuHistory),
		parentCtx: parentCtx,
		runner:    runner,
		ref:       &programRef{},
	}
}

// Init starts the first run.
func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(),
		startRunCmd(m.ref, m.ctx, m.runner, m.generation),
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
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		if msg.Generation == m.generation {
			m.progress = msg.AverageProgress
			m.eta = msg.ETA
		}
		return m, nil

	case ResultsMsg:
		if msg.Generation == m.generation {
			m.results = msg.Results
		}
		return m, nil

	case FinalResultMsg:
		if msg.Generation == m.generation {
			m.finals = append(m.finals, msg)
		}
		return m, nil

	case ErrorMsg:
		if msg.Generation == m.generation {
			m.errs = append(m.errs, msg.Err)
		}
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.progress = 1
		m.header.SetDone()
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.exitCode = apperrors.ExitCodeFor(msg.Err)
		}
		m.done = true
		m.header.SetDone()
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleSysStatsCmd(), tickCmd())

	case SysStatsMsg:
		m.cpu.Record(msg.CPUPercent)
		m.mem = msg.MemPercent
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Rerun):
		m.cancel()
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.done = false
		m.exitCode = apperrors.ExitSuccess
		m.progress, m.eta = 0, 0
		m.results, m.finals, m.errs = nil, nil, nil
		m.cpu.Clear()
		m.header.Reset()
		return m, m.startCmds()
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header.View())
	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if len(m.results) > 0 {
		b.WriteString("\n")
		b.WriteString(cli.RenderComparisonTable(m.results, ui.CurrentPalette()))
		b.WriteString("\n")
	}

	if len(m.finals) > 0 || len(m.errs) > 0 {
		var lines []string
		for _, f := range m.finals {
			lines = append(lines, fmt.Sprintf("%s of [1, %d] = %s  (%s)",
				opTitle(f.Result.Op), f.N, valueStyle.Render(cli.FormatValue(f.Result.Value, false)), f.Result.Name))
		}
		for _, err := range m.errs {
			lines = append(lines, errorStyle.Render("Error: "+err.Error()))
		}
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render("CPU ") + cpuSparklineStyle.Render(m.cpu.Render()))
	b.WriteString(infoStyle.Render(fmt.Sprintf(" %5.1f%% (peak %5.1f%%)  MEM %5.1f%%", m.cpu.Latest(), m.cpu.Peak(), m.mem)))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case !m.done:
		return m.spinner.View() + " " + statusRunningStyle.Render("Running") + "  " +
			format.FormatProgressBarWithETA(m.progress, m.eta, progressBarWidth)
	case m.exitCode == apperrors.ExitSuccess:
		return statusDoneStyle.Render("Done") + "  " + infoStyle.Render("press r to rerun")
	default:
		return statusErrorStyle.Render(fmt.Sprintf("Finished with exit code %d", m.exitCode))
	}
}

func opTitle(op string) string {
	if op == reducer.OpProduct {
		return "Product"
	}
	return "Sum"
}

// ExitCode returns the exit code of the last run.
func (m Model) ExitCode() int { return m.exitCode }

// Run creates the bubbletea program, runs it and returns the exit code.
func Run(ctx context.Context, runner Runner, info, version string) int {
	// Rebuild styles from the theme selected by the app.
	initTUIStyles()

	model := NewModel(ctx, runner, info, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// The bridge goroutines need the program before the first run starts.
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

// startRunCmd returns a command that executes one run.
func startRunCmd(ref *programRef, ctx context.Context, runner Runner, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		presenter := &TUIResultPresenter{ref: ref, generation: gen}
		return RunCompleteMsg{Generation: gen, ExitCode: runner(ctx, reporter, presenter)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd waits for the run context to be done.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Generation: gen, Err: ctx.Err()}
	}
}
