package ui

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-popup-browser/internal/filebrowser"
	"github.com/atomicstack/tmux-popup-browser/internal/logging/events"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.String() == "ctrl+c" {
		return m.cancel()
	}
	if m.focus == focusPath {
		return m.handlePathKey(keyMsg)
	}
	m.errMsg = ""
	switch keyMsg.String() {
	case "esc", "q":
		return m.cancel()
	case "enter":
		return m.confirm()
	case "tab", "/":
		m.focusPathField()
	case "up", "k":
		m.moveCursor(m.rows.MoveCursorUp)
	case "down", "j":
		m.moveCursor(m.rows.MoveCursorDown)
	case "home", "g":
		m.moveCursor(m.rows.MoveCursorHome)
	case "end", "G":
		m.moveCursor(m.rows.MoveCursorEnd)
	case "pgup":
		m.moveCursor(func() bool { return m.rows.MoveCursorPageUp(m.maxVisibleRows()) })
	case "pgdown":
		m.moveCursor(func() bool { return m.rows.MoveCursorPageDown(m.maxVisibleRows()) })
	case "right", "l":
		m.expandOrDescend()
	case "left", "h":
		m.collapseOrAscend()
	case " ", "space":
		m.toggleCurrent()
	case "ctrl+r":
		m.refreshCurrent()
	}
	return nil
}

func (m *Model) cancel() tea.Cmd {
	m.result, m.confirmed = "", false
	events.UI.Cancel()
	return tea.Quit
}

func (m *Model) confirm() tea.Cmd {
	path := m.Selection()
	if path == "" {
		if row, ok := m.rows.Current(); ok {
			path = row.Path
		}
	}
	if path == "" {
		return nil
	}
	m.result, m.confirmed = path, true
	events.UI.Confirm(path)
	return tea.Quit
}

// moveCursor applies move and selects the tree under the new cursor.
func (m *Model) moveCursor(move func() bool) {
	if !move() {
		return
	}
	m.selectCursor()
}

func (m *Model) selectCursor() {
	row, ok := m.rows.Current()
	if !ok {
		return
	}
	m.ui.Send(m.fileBrowser().TreeRoot(), widget.RootSelected{Selected: row.Tree})
	m.sync()
	events.UI.Cursor(m.rows.Cursor, row.Path)
}

func (m *Model) setExpanded(h widget.Handle, expand bool) {
	m.ui.Send(h, widget.TreeExpand{Expand: expand})
	m.sync()
}

func (m *Model) expandOrDescend() {
	row, ok := m.rows.Current()
	if !ok || !row.Expandable {
		return
	}
	if !row.Expanded {
		m.setExpanded(row.Tree, true)
		return
	}
	next := m.rows.Cursor + 1
	if next < len(m.rows.Items) && m.rows.Items[next].Depth > row.Depth {
		m.moveCursor(m.rows.MoveCursorDown)
	}
}

func (m *Model) collapseOrAscend() {
	row, ok := m.rows.Current()
	if !ok {
		return
	}
	if row.Expanded && row.Expandable {
		m.setExpanded(row.Tree, false)
		return
	}
	parent := m.rows.ParentIndex(m.rows.Cursor)
	if parent < 0 {
		return
	}
	m.moveCursor(func() bool {
		m.rows.Cursor = parent
		return true
	})
}

func (m *Model) toggleCurrent() {
	row, ok := m.rows.Current()
	if !ok || !row.Expandable {
		return
	}
	m.setExpanded(row.Tree, !row.Expanded)
}

func (m *Model) refreshCurrent() {
	row, ok := m.rows.Current()
	if !ok {
		return
	}
	dir := row.Path
	if !row.Expanded {
		dir = filepath.Dir(row.Path)
	}
	m.refreshDir(dir)
}

// reveal expands every directory between the root and path, then selects
// path. It reports whether the selection landed on path itself.
func (m *Model) reveal(path string) bool {
	root := m.fileBrowser().Path()
	path = filepath.Clean(path)
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	dirs := []string{root}
	if rel != "." {
		parts := strings.Split(rel, string(filepath.Separator))
		current := root
		for _, part := range parts[:len(parts)-1] {
			current = filepath.Join(current, part)
			dirs = append(dirs, current)
		}
	}
	for _, dir := range dirs {
		if samePath(dir, path) {
			break
		}
		h, t, ok := m.treeFor(dir)
		if !ok {
			return false
		}
		if !t.IsExpanded() {
			m.ui.Send(h, widget.TreeExpand{Expand: true})
			m.ui.Update()
		}
	}
	m.ui.Send(m.browser, widget.BrowserSelectionChanged{Path: path})
	m.ui.Update()
	return samePath(m.Selection(), path)
}

// refreshDir re-enumerates an expanded directory, restoring the expansion
// of its descendants and the current selection where they still exist.
func (m *Model) refreshDir(dir string) {
	h, t, ok := m.treeFor(dir)
	if !ok || !t.IsExpanded() {
		return
	}
	var expanded []string
	for _, row := range m.rows.Items {
		if row.Expanded && row.Path != dir && isWithin(dir, row.Path) {
			expanded = append(expanded, row.Path)
		}
	}
	m.ui.Send(h, widget.TreeExpand{Expand: true})
	m.ui.Update()
	for _, path := range expanded {
		if child, _, ok := m.treeFor(path); ok {
			m.ui.Send(child, widget.TreeExpand{Expand: true})
			m.ui.Update()
		}
	}
	if sel := m.Selection(); sel != "" {
		if target := filebrowser.FindTree(m.ui, m.fileBrowser().TreeRoot(), sel); target.IsSome() {
			m.ui.Send(m.fileBrowser().TreeRoot(), widget.RootSelected{Selected: target})
		}
	}
	m.sync()
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
