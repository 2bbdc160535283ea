package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/drumvis/internal/config"
)

type exportProgressMsg exportProgress

type exportDoneMsg struct {
	written int
	err     error
}

// exportModel shows a spinner until the first frame lands, then a progress
// bar. It quits when the export finishes or on q.
type exportModel struct {
	name     string
	cancel   context.CancelFunc
	start    tea.Cmd
	spinner  spinner.Model
	progress progress.Model
	status   exportProgress
	statusCh chan exportProgress
	written  int
	err      error
	finished bool
}

func newExportModel(name string, cancel context.CancelFunc) exportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#694868", "#F08989"),
		progress.WithoutPercentage(),
	)

	return exportModel{
		name:     name,
		cancel:   cancel,
		spinner:  s,
		progress: p,
		statusCh: make(chan exportProgress, 16),
	}
}

func (m exportModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForStatus(), m.start)
}

func (m exportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(max(msg.Width-8, 20), 60)
		return m, nil

	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case exportProgressMsg:
		m.status = exportProgress(msg)
		return m, m.waitForStatus()

	case exportDoneMsg:
		m.finished = true
		m.written = msg.written
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			// exportDoneMsg follows once the current frame is written
		}
	}
	return m, nil
}

func (m exportModel) waitForStatus() tea.Cmd {
	if m.statusCh == nil {
		return nil
	}
	statusCh := m.statusCh
	return func() tea.Msg {
		status, ok := <-statusCh
		if !ok {
			return nil
		}
		return exportProgressMsg(status)
	}
}

func (m exportModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(exportHeaderStyle.Render("drumvis"))
	b.WriteString("  ")
	b.WriteString(exportStatusStyle.Render(m.name))
	b.WriteString("\n\n  ")

	switch {
	case m.finished && m.err != nil:
		b.WriteString(exportErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case m.status.total > 0:
		frac := float64(m.status.done) / float64(m.status.total)
		b.WriteString(m.progress.ViewAs(frac))
		b.WriteString(fmt.Sprintf("  %d/%d\n", m.status.done, m.status.total))
	default:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(exportStatusStyle.Render("Decoding..."))
		b.WriteString("\n")
	}

	if !m.finished {
		b.WriteString("\n  ")
		b.WriteString(exportHelpStyle.Render("q cancel"))
		b.WriteString("\n")
	}
	return b.String()
}

// exportCmd runs the export and streams progress into statusCh, closing it
// when done.
func exportCmd(ctx context.Context, path string, cfg config.RenderConfig, opts exportOptions, statusCh chan exportProgress) tea.Cmd {
	return func() tea.Msg {
		defer close(statusCh)
		n, err := exportFrames(ctx, path, cfg, opts, func(p exportProgress) {
			select {
			case statusCh <- p:
			default:
			}
		})
		return exportDoneMsg{written: n, err: err}
	}
}

var (
	exportHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#91E7EB"))
	exportStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	exportHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	exportErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)
