package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"modshelf/db"
	"modshelf/logger"
	"modshelf/scanner"
	"modshelf/ui"
)

// scanDoneMsg signals that the scan goroutine finished and the event channel
// is drained.
type scanDoneMsg struct{}

// ScanModel controls the UI for the scan command
type ScanModel struct {
	spinner          spinner.Model
	progressChan     chan scanner.Event
	base             string
	fallbackCategory string

	// State
	status    string
	processed int
	total     int
	current   string
	pruned    []string
	errors    []string
	summary   string
	done      bool
}

func initialScanModel(base, fallbackCategory string) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ScanModel{
		spinner:          s,
		progressChan:     make(chan scanner.Event, 100), // Buffer slightly to avoid blocking
		base:             base,
		fallbackCategory: fallbackCategory,
		status:           "Initializing...",
	}
}

func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startScan(),
		m.waitForActivity(),
	)
}

func (m ScanModel) startScan() tea.Cmd {
	return func() tea.Msg {
		// Run the scan in a separate goroutine; events flow over the channel.
		go func() {
			defer close(m.progressChan)
			if _, err := scanner.Scan(db.DB, m.base, m.fallbackCategory, m.progressChan); err != nil {
				logger.Log.Errorw("Scan failed", zap.Error(err))
			}
		}()
		return nil
	}
}

func (m ScanModel) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.progressChan
		if !ok {
			return scanDoneMsg{}
		}
		return ev
	}
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.done {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanDoneMsg:
		m.done = true
		if m.status == "Initializing..." || m.summary == "" {
			m.status = "Finished"
		}
		return m, tea.Quit

	case scanner.Event:
		switch msg.Type {
		case scanner.EventScanProgress:
			m.processed = msg.Processed
			m.total = msg.Total
			m.current = msg.CurrentPath
			m.status = fmt.Sprintf("Scanning %d/%d", msg.Processed, msg.Total)

		case scanner.EventPruneStart:
			m.status = msg.Message

		case scanner.EventPruneProgress:
			m.status = fmt.Sprintf("Pruning %d/%d", msg.Processed, msg.Total)

		case scanner.EventPruneComplete:
			if msg.Processed > 0 {
				m.pruned = append(m.pruned, msg.Message)
			}

		case scanner.EventScanError, scanner.EventPruneError:
			m.errors = append(m.errors, msg.Message)

		case scanner.EventScanComplete:
			m.summary = msg.Message
			m.status = "Finished"
		}
		return m, m.waitForActivity()
	}

	return m, nil
}

func (m ScanModel) View() string {
	var symbol string
	if m.done {
		symbol = ui.SuccessStyle.Render("✓")
	} else {
		symbol = m.spinner.View()
	}

	s := fmt.Sprintf("\n %s %s\n", symbol, m.status)
	if m.current != "" && !m.done {
		s += fmt.Sprintf("   %s\n", ui.DimStyle.Render(ui.Truncate(m.current, 70)))
	}
	s += "\n"

	if len(m.pruned) > 0 {
		s += ui.WarnStyle.Render("Pruned:") + "\n"
		for _, p := range m.pruned {
			s += fmt.Sprintf("  • %s\n", p)
		}
		s += "\n"
	}

	if len(m.errors) > 0 {
		s += ui.ErrorStyle.Render("Errors:") + "\n"
		for _, e := range m.errors {
			s += fmt.Sprintf("  • %s\n", e)
		}
		s += "\n"
	}

	if m.done && m.summary != "" {
		s += ui.BoldStyle.Render(m.summary) + "\n"
	}

	return s
}

func runScanTUI(base, fallbackCategory string) {
	p := tea.NewProgram(initialScanModel(base, fallbackCategory))
	if _, err := p.Run(); err != nil {
		logger.Log.Fatalw("Failed to run scan view", zap.Error(err))
	}
}
