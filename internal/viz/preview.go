package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/splineanim/internal/anim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 600
)

type TickMsg time.Time

// restartMsg replays the animation once the repeat delay has passed. gen
// guards against restarts scheduled before a manual reset.
type restartMsg struct{ gen int }

type PreviewOptions struct {
	Title       string
	ControlX    []float64
	FPS         int
	RepeatDelay time.Duration
	Theme       string
	Loop        bool
}

// Preview plays an animation in the terminal.
type Preview struct {
	driver   *anim.Driver
	opts     PreviewOptions
	canvas   *Canvas
	theme    Theme
	frame    anim.Frame
	history  []float64
	running  bool
	finished bool
	gen      int
	err      error
}

func NewPreview(d *anim.Driver, opts PreviewOptions) Preview {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	m := Preview{
		driver:  d,
		opts:    opts,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		theme:   GetTheme(opts.Theme),
		history: make([]float64, 0, historyCapacity),
		running: true,
	}
	m.frame, m.err = d.Baseline()
	return m
}

// Err reports the evaluation error that stopped playback, if any.
func (m Preview) Err() error { return m.err }

func (m Preview) Init() tea.Cmd {
	if m.err != nil {
		return tea.Quit
	}
	return m.tick()
}

func (m Preview) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			wasFinished := m.finished
			m.restart()
			if wasFinished {
				return m, m.tick()
			}
		case "t":
			m.theme = NextTheme(m.theme.Name)
		}

	case TickMsg:
		if !m.running || m.finished {
			return m, m.tick()
		}
		f, err := m.driver.Next()
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.frame = f
		m.history = append(m.history, f.Value)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
		if m.driver.Done() {
			m.finished = true
			if !m.opts.Loop {
				return m, nil
			}
			gen := m.gen
			return m, tea.Tick(m.opts.RepeatDelay, func(time.Time) tea.Msg { return restartMsg{gen: gen} })
		}
		return m, m.tick()

	case restartMsg:
		if msg.gen != m.gen || !m.finished {
			return m, nil
		}
		m.restart()
		return m, m.tick()
	}
	return m, nil
}

func (m *Preview) restart() {
	m.driver.Reset()
	m.history = m.history[:0]
	m.finished = false
	m.gen++
	if f, err := m.driver.Baseline(); err == nil {
		m.frame = f
	}
}

func (m *Preview) draw() {
	m.canvas.Clear()
	grid := m.driver.Grid()
	if len(grid) == 0 {
		return
	}
	b := m.frame.Bounds
	v := m.canvas.Viewport(grid.Min(), grid.Max(), b.Min, b.Max)

	m.canvas.HLine(v, 0)
	m.canvas.Plot(v, grid, m.frame.Samples)
	for i, x := range m.opts.ControlX {
		if i >= len(m.frame.ControlPoints) {
			break
		}
		px, py := v.Project(x, m.frame.ControlPoints[i])
		r := 0
		if i == m.frame.Active {
			r = 1
		}
		m.canvas.DrawDot(px, py, r)
	}
}

func (m Preview) status() string {
	switch {
	case m.err != nil:
		return StatusError.Render("ERROR")
	case m.finished && m.opts.Loop:
		return StatusPaused.Render(fmt.Sprintf("REPEAT IN %s", m.opts.RepeatDelay))
	case m.finished:
		return StatusPaused.Render("DONE")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("PLAYING")
}

func (m Preview) View() string {
	m.draw()
	th := m.theme
	canvasView := canvasStyle.Foreground(th.Curve).Render(m.canvas.String())

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "spline"
	}
	s.WriteString(headerStyle.Render(GradientText(strings.ToUpper(title), th.Curve, th.Active)) + "\n")
	s.WriteString(m.status() + "\n\n")

	f := m.frame
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	if f.Index >= 0 {
		row("Frame", fmt.Sprintf("%d / %d", f.Index+1, f.Total))
		row("Segment", fmt.Sprintf("%d", f.Segment))
		row("Moving", fmt.Sprintf("cp[%d]", f.Active))
		row("Value", fmt.Sprintf("%+.4f %s", f.Value, Bar(f.Value, f.Bounds.Min, f.Bounds.Max, 10)))
	} else {
		row("Frame", fmt.Sprintf("- / %d", f.Total))
	}
	row("Y range", fmt.Sprintf("[%.2f, %.2f]", f.Bounds.Min, f.Bounds.Max))

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.LowerBound(f.Bounds.Min),
			asciigraph.UpperBound(f.Bounds.Max),
			asciigraph.Caption("moving control point"),
		)
		s.WriteString(graphStyle.Foreground(th.Active).Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + StatusError.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Restart\nT:Theme  Q:Quit  " + th.Name))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle(th).Render(s.String()))
}
