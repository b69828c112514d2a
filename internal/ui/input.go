package ui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-browser/internal/logging/events"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

func (m *Model) focusPathField() {
	m.focus = focusPath
	m.input.Focus()
	m.input.CursorEnd()
	events.UI.Focus(m.focus.String())
}

func (m *Model) focusTreeField() {
	m.focus = focusTree
	m.input.Blur()
	m.sync()
	events.UI.Focus(m.focus.String())
}

// handlePathKey edits the path field. Every edit is forwarded to the
// browser's text box so the closest matching tree follows the typing.
func (m *Model) handlePathKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "tab":
		m.errMsg = ""
		m.focusTreeField()
		return nil
	case "enter":
		return m.submitPath()
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.errMsg = ""
		m.ui.Send(m.fileBrowser().PathText(), widget.TextChanged{Text: value})
		m.sync()
	}
	return cmd
}

// submitPath reveals the typed path, expanding directories as needed.
func (m *Model) submitPath() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.focusTreeField()
		return nil
	}
	if _, err := os.Stat(value); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	if !m.reveal(value) {
		m.errMsg = "not below " + m.fileBrowser().Path() + ": " + value
		return nil
	}
	m.errMsg = ""
	m.focusTreeField()
	return nil
}
