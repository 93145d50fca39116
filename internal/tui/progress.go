// internal/tui/progress.go
// Package tui renders the evaluation progress display.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shieldops/shieldeval/internal/util"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// progressMsg reports another completed classification.
type progressMsg struct {
	completed int
	total     int
}

// doneMsg reports that the run finished, possibly with an error.
type doneMsg struct {
	err error
}

// model is the Bubble Tea model for the progress display.
type model struct {
	spinner   spinner.Model
	bar       progress.Model
	completed int
	total     int
	err       error
	quitting  bool
}

func newModel(total int) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
		total:   total,
	}
}

// Init starts the spinner ticker.
func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update advances the display in response to progress and completion messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			m.err = fmt.Errorf("evaluation interrupted")
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		width := util.Min(msg.Width-12, 60)
		if width > 0 {
			m.bar.Width = width
		}
		return m, nil

	case progressMsg:
		m.completed = msg.completed
		m.total = msg.total
		if m.total > 0 {
			return m, m.bar.SetPercent(float64(m.completed) / float64(m.total))
		}
		return m, nil

	case doneMsg:
		m.quitting = true
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the spinner, bar, and completion counter on one line.
func (m model) View() string {
	if m.quitting {
		return ""
	}
	counter := counterStyle.Render(fmt.Sprintf("%d/%d", m.completed, m.total))
	return fmt.Sprintf("%s %s %s %s\n",
		m.spinner.View(),
		labelStyle.Render("Evaluating"),
		m.bar.View(),
		counter,
	)
}

// RunWithProgress executes run while showing a live progress display. The
// callback passed to run reports each completed unit of work and is safe to
// call from any goroutine. The returned error is run's error, or the display
// error if the UI itself failed.
func RunWithProgress(total int, run func(onResult func(completed, total int)) error) error {
	program := tea.NewProgram(newModel(total))

	go func() {
		err := run(func(completed, total int) {
			program.Send(progressMsg{completed: completed, total: total})
		})
		program.Send(doneMsg{err: err})
	}()

	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(model); ok {
		return m.err
	}
	return nil
}
