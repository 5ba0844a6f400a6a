package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all incoming messages (required by tea.Model interface)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "m":
			if m.input != nil && !m.calculating && m.bands == nil {
				m.calculating = true
				m.statusNote = "running Monte Carlo"
				return m, tea.Batch(m.spinner.Tick, monteCarloCmd(m.input))
			}
		case "r":
			if m.input != nil && !m.calculating {
				m.calculating = true
				m.statusNote = "recalculating"
				m.bands = nil
				return m, tea.Batch(m.spinner.Tick, calculateCmd(m.input))
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		tableHeight := m.height - 24
		if tableHeight < 4 {
			tableHeight = 4
		}
		if !m.ready {
			m.viewport = newTableViewport(m.width-4, tableHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width - 4
			m.viewport.Height = tableHeight
		}
		if m.result != nil {
			m.viewport.SetContent(m.projectionTable())
		}
		return m, nil

	case planLoadedMsg:
		m.input = msg.input
		m.warnings = msg.warnings
		m.statusNote = "calculating"
		return m, calculateCmd(msg.input)

	case calcDoneMsg:
		m.calculating = false
		m.statusNote = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.result = msg.result
		if m.ready {
			m.viewport.SetContent(m.projectionTable())
		}
		return m, nil

	case monteCarloDoneMsg:
		m.calculating = false
		m.statusNote = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.bands = msg.bands
		return m, nil

	case spinner.TickMsg:
		if !m.calculating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}
