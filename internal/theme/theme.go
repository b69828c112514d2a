package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header          *lipgloss.Style
	Item            *lipgloss.Style
	Directory       *lipgloss.Style
	Expander        *lipgloss.Style
	SelectedItem    *lipgloss.Style
	PathPrompt      *lipgloss.Style
	PathText        *lipgloss.Style
	PathPlaceholder *lipgloss.Style
	Cursor          *lipgloss.Style
	Error           *lipgloss.Style
	Info            *lipgloss.Style
	Footer          *lipgloss.Style
}

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Directory: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	),
	Expander: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	PathPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	PathText: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	PathPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// WithBrush returns a copy of base painted with the brush's fill. A
// transparent brush leaves the background untouched.
func WithBrush(base *lipgloss.Style, brush widget.Brush) lipgloss.Style {
	style := lipgloss.NewStyle()
	if base != nil {
		style = *base
	}
	if brush.IsTransparent() {
		return style
	}
	return style.Background(brush.Fill)
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
