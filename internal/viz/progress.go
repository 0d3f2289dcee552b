package viz

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressStatus is one progress report from a running job.
type ProgressStatus struct {
	Done  int
	Total int
}

func (s ProgressStatus) Percent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Done) / float64(s.Total)
}

type progressStatusMsg ProgressStatus

type progressDoneMsg struct{ err error }

// Work is a job reporting its progress through report. report never blocks.
type Work func(report func(done, total int)) error

// Progress shows a spinner and progress bar while work runs.
type Progress struct {
	title    string
	work     Work
	cancel   func()
	spinner  spinner.Model
	progress progress.Model
	status   ProgressStatus
	statusCh chan ProgressStatus
	started  time.Time
	err      error
	done     bool
}

// NewProgress wraps work. cancel is invoked when the user quits early.
func NewProgress(title string, work Work, cancel func()) Progress {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#00a8cc", "#ffd700"),
		progress.WithoutPercentage(),
	)
	p.Width = 40

	return Progress{
		title:    title,
		work:     work,
		cancel:   cancel,
		spinner:  s,
		progress: p,
		statusCh: make(chan ProgressStatus, 64),
		started:  time.Now(),
	}
}

// Err is the job's error, or a cancellation error if the user quit.
func (m Progress) Err() error { return m.err }

func (m Progress) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startWork(),
		m.waitForStatus(),
	)
}

func (m Progress) startWork() tea.Cmd {
	return func() tea.Msg {
		err := m.work(func(done, total int) {
			select {
			case m.statusCh <- ProgressStatus{Done: done, Total: total}:
			default:
			}
		})
		close(m.statusCh)
		return progressDoneMsg{err: err}
	}
}

func (m Progress) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-m.statusCh
		if !ok {
			return nil
		}
		return progressStatusMsg(s)
	}
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			if m.cancel != nil {
				m.cancel()
			}
			m.err = fmt.Errorf("render cancelled")
			m.done = true
			return m, tea.Quit
		}

	case progressStatusMsg:
		m.status = ProgressStatus(msg)
		return m, m.waitForStatus()

	case progressDoneMsg:
		if m.err == nil {
			m.err = msg.err
		}
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.progress.Width = max(20, min(60, msg.Width-20))
		return m, nil
	}

	return m, nil
}

func (m Progress) View() string {
	if m.done {
		return ""
	}

	lines := "\n  " + headerStyle.Render(m.title) + "\n"
	if m.status.Total > 0 {
		lines += fmt.Sprintf("  %s %s  %d/%d frames\n",
			m.spinner.View(),
			m.progress.ViewAs(m.status.Percent()),
			m.status.Done, m.status.Total,
		)
		lines += "  " + helpStyle.Render(fmt.Sprintf("%s elapsed  ·  q to cancel", time.Since(m.started).Round(time.Second))) + "\n"
	} else {
		lines += "  " + m.spinner.View() + " " + valueStyle.Render("Preparing...") + "\n"
	}
	return lines + "\n"
}
