package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/tmux-popup-browser/internal/theme"
	uistate "github.com/atomicstack/tmux-popup-browser/internal/ui/state"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

const (
	// rowsTop is the screen line of the first tree row; the path field sits
	// above it.
	rowsTop     = 1
	indentWidth = 2
	keyHints    = "↑/↓ move  ←/→ collapse/expand  enter choose  tab path  esc quit"
)

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]string, 0, 16)
	lines = append(lines, fitWidth(m.input.View(), m.width))

	start, end := m.visibleRange()
	if len(m.rows.Items) == 0 {
		lines = append(lines, styles.Info.Render(fitWidth("(empty)", m.width)))
	}
	for idx := start; idx < end; idx++ {
		lines = append(lines, m.renderRow(m.rows.Items[idx], idx == m.rows.Cursor))
	}

	switch {
	case m.errMsg != "":
		lines = append(lines, styles.Error.Render(fitWidth("Error: "+m.errMsg, m.width)))
	case m.infoMsg != "":
		lines = append(lines, styles.Info.Render(fitWidth(m.infoMsg, m.width)))
	default:
		lines = append(lines, "")
	}

	if m.showFooter {
		lines = append(lines, "")
		lines = append(lines, styles.Footer.Render(fitWidth(m.details.String(), m.width)))
		lines = append(lines, styles.Footer.Render(fitWidth(keyHints, m.width)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) visibleRange() (int, int) {
	start := m.rows.ViewportOffset
	if start < 0 || start > len(m.rows.Items) {
		start = 0
	}
	end := len(m.rows.Items)
	if limit := m.maxVisibleRows(); limit > 0 && start+limit < end {
		end = start + limit
	}
	return start, end
}

func (m *Model) renderRow(row uistate.Row, atCursor bool) string {
	indicator := " "
	if atCursor && m.focus == focusTree {
		indicator = "›"
	}
	text := indicator + rowText(row)

	base := styles.Item
	if row.Expandable {
		base = styles.Directory
	}
	if row.Selected {
		base = styles.SelectedItem
	}
	style := theme.WithBrush(base, row.Brush)
	return style.Render(fitWidth(text, m.width))
}

func rowText(row uistate.Row) string {
	marker := " "
	if row.Expandable && row.Marker != "" {
		marker = row.Marker
	}
	return strings.Repeat(" ", row.Depth*indentWidth) + marker + " " + row.Label
}

// expanderColumn is the screen column of a row's expand marker.
func expanderColumn(row uistate.Row) int {
	return 1 + row.Depth*indentWidth
}

// fitWidth truncates or pads text to exactly width display cells. A
// non-positive width leaves text alone.
func fitWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	if ansi.StringWidth(text) > width {
		text = truncate.StringWithTail(text, uint(width), "…")
	}
	if pad := width - ansi.StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return text
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.rows.EnsureCursorVisible(m.maxVisibleRows())
	return nil
}

func (m *Model) maxVisibleRows() int {
	if m.height <= 0 {
		return -1
	}
	used := 2 // path field + status line
	if m.showFooter {
		used += 3
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

// handleMouseMsg turns wheel, motion and presses into routed messages on
// the row under the pointer.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok || !m.mouse {
		return nil
	}
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(m.rows.MoveCursorUp)
		return nil
	case tea.MouseButtonWheelDown:
		m.moveCursor(m.rows.MoveCursorDown)
		return nil
	}
	idx, hit := m.rowAt(ev.Y)
	switch ev.Action {
	case tea.MouseActionMotion:
		m.hover(idx, hit)
	case tea.MouseActionPress:
		if ev.Button != tea.MouseButtonLeft || !hit {
			return nil
		}
		if m.focus == focusPath {
			m.focus = focusTree
			m.input.Blur()
		}
		row := m.rows.Items[idx]
		target := row.Content
		if row.Expandable && ev.X == expanderColumn(row) {
			target = row.Expander
		}
		if target.IsNone() {
			target = row.Background
		}
		m.ui.Send(target, widget.MouseDown{})
		m.sync()
	}
	return nil
}

func (m *Model) rowAt(y int) (int, bool) {
	line := y - rowsTop
	if limit := m.maxVisibleRows(); limit > 0 && line >= limit {
		return -1, false
	}
	return m.rows.At(line)
}

func (m *Model) hover(idx int, hit bool) {
	next := widget.None
	if hit {
		next = m.rows.Items[idx].Background
	}
	if next == m.hovered {
		return
	}
	if m.hovered.IsSome() {
		m.ui.Send(m.hovered, widget.MouseLeave{})
	}
	if next.IsSome() {
		m.ui.Send(next, widget.MouseEnter{})
	}
	m.hovered = next
	m.sync()
}

// entryDetails describes the selected path for the footer.
type entryDetails struct {
	path    string
	isDir   bool
	size    int64
	modTime time.Time
	err     string
}

func loadDetails(path string, prev entryDetails) entryDetails {
	if path == "" {
		return entryDetails{}
	}
	if path == prev.path {
		return prev
	}
	info, err := os.Stat(path)
	if err != nil {
		return entryDetails{path: path, err: err.Error()}
	}
	return entryDetails{path: path, isDir: info.IsDir(), size: info.Size(), modTime: info.ModTime()}
}

func (d entryDetails) String() string {
	switch {
	case d.path == "":
		return ""
	case d.err != "":
		return d.err
	case d.isDir:
		return fmt.Sprintf("dir  modified %s", humanize.Time(d.modTime))
	}
	return fmt.Sprintf("file  %s  modified %s", humanize.Bytes(uint64(d.size)), humanize.Time(d.modTime))
}
