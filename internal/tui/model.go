// Package tui renders run progress, either as an interactive bubbletea
// program or as plain lines for non-terminal output.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/raoulx24/imgshrink/internal/batch"
	"github.com/raoulx24/imgshrink/internal/display"
)

// DefaultInterval is how often progress is polled.
const DefaultInterval = 100 * time.Millisecond

// ErrInterrupted is returned when the user quits before the run finishes.
var ErrInterrupted = errors.New("interrupted")

// Source is polled for progress. *runner.Session satisfies it.
type Source interface {
	Progress() batch.Progress
}

type Options struct {
	Light    bool
	Interval time.Duration
}

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	src      Source
	interval time.Duration
	sp       spinner.Model
	bar      progress.Model
	st       styles
	started  time.Time

	p           batch.Progress
	finished    bool
	interrupted bool

	termW int
	termH int
}

func newModel(src Source, opts Options) model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	bar := progress.New(progress.WithDefaultGradient())

	return model{
		src:      src,
		interval: opts.Interval,
		sp:       sp,
		bar:      bar,
		st:       newStyles(opts.Light),
		started:  time.Now(),
		p:        src.Progress(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.sp.Tick, tick(m.interval))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.interrupted = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.termW, m.termH = msg.Width, msg.Height
		m.bar.Width = max(10, msg.Width-20)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd

	case tickMsg:
		m.p = m.src.Progress()
		if m.p.Finished() {
			m.finished = true
			return m, tea.Quit
		}
		return m, tick(m.interval)
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	state := m.sp.View()
	if m.finished {
		state = m.st.ok.Render("done")
	}
	fmt.Fprintf(&b, "%s %s\n", m.st.header.Render(fmt.Sprintf("Shrinking %d files", m.p.Total)), state)
	fmt.Fprintf(&b, "%s %5.1f%%  %d/%d\n\n", m.bar.ViewAs(m.p.Percent()/100), m.p.Percent(), m.p.Done, m.p.Total)

	for _, r := range m.visibleRows() {
		b.WriteString(m.renderRow(r))
		b.WriteByte('\n')
	}
	if hidden := len(m.p.Rows) - len(m.visibleRows()); hidden > 0 {
		b.WriteString(m.st.pending.Render(fmt.Sprintf("  … %d more", hidden)))
		b.WriteByte('\n')
	}

	b.WriteString(m.st.summary.Render(summaryLine(m.p, time.Since(m.started))))
	b.WriteByte('\n')
	if !m.finished {
		b.WriteString(m.st.help.Render("q: quit"))
		b.WriteByte('\n')
	}
	return b.String()
}

// visibleRows keeps the list inside the terminal height.
func (m model) visibleRows() []batch.Row {
	rows := m.p.Rows
	if m.termH == 0 {
		return rows
	}
	room := max(3, m.termH-8)
	if len(rows) > room {
		return rows[:room]
	}
	return rows
}

func (m model) renderRow(r batch.Row) string {
	mark := m.st.pending.Render(m.sp.View())
	sizes := display.FormatBytes(r.SizeOriginal)
	switch {
	case r.Done && r.Outcome == batch.Succeeded:
		mark = m.st.ok.Render("✓")
		sizes = fmt.Sprintf("%s → %s", display.FormatBytes(r.SizeOriginal), display.FormatBytes(r.SizeNew))
	case r.Done && r.Outcome == batch.Failed:
		mark = m.st.failed.Render("✗")
		sizes = r.Err
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		mark, " ",
		m.st.name.Render(r.Name), "  ",
		m.st.size.Render(sizes),
	)
}

func summaryLine(p batch.Progress, elapsed time.Duration) string {
	return fmt.Sprintf("%d ok, %d failed  %s → %s (saved %.1f%%)  %s",
		p.Succeeded, p.Failed,
		display.FormatBytes(p.SucceededOriginal()), display.FormatBytes(p.TotalNew),
		p.SavedPercent(), elapsed.Round(100*time.Millisecond))
}

// Run shows the interactive view until the run finishes, the user quits
// or ctx is done, and returns the last progress seen.
func Run(ctx context.Context, src Source, opts Options) (batch.Progress, error) {
	lipgloss.SetHasDarkBackground(!opts.Light)
	p := tea.NewProgram(newModel(src, opts), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return src.Progress(), err
	}
	m := final.(model)
	if m.interrupted {
		return m.p, ErrInterrupted
	}
	return m.p, nil
}
