// Package splitpanel renders a bordered sidebar next to a content panel.
package splitpanel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/footprint-tools/argutil/internal/ui/style"
)

// Panel is the visible content of one side.
type Panel struct {
	Lines      []string // visible lines, already scrolled
	ScrollPos  int
	TotalItems int
}

// Config holds the sidebar sizing rules.
type Config struct {
	SidebarWidthPercent float64
	SidebarMinWidth     int
	SidebarMaxWidth     int
}

// Layout holds computed dimensions.
type Layout struct {
	Width        int
	SidebarWidth int
	ContentWidth int
	FocusSidebar bool
	Colors       style.ColorConfig
}

// NewLayout computes the panel widths for a terminal of the given width.
func NewLayout(width int, cfg Config, colors style.ColorConfig) *Layout {
	sidebarWidth := int(float64(width) * cfg.SidebarWidthPercent)
	sidebarWidth = max(sidebarWidth, cfg.SidebarMinWidth)
	sidebarWidth = min(sidebarWidth, cfg.SidebarMaxWidth)

	return &Layout{
		Width:        width,
		SidebarWidth: sidebarWidth,
		ContentWidth: max(width-sidebarWidth, 0),
		FocusSidebar: true,
		Colors:       colors,
	}
}

// SetFocus sets which panel is focused.
func (l *Layout) SetFocus(focusSidebar bool) {
	l.FocusSidebar = focusSidebar
}

// Render joins both panels, each height rows tall.
func (l *Layout) Render(sidebar, content Panel, height int) string {
	active := lipgloss.Color(l.Colors.Info)
	dim := lipgloss.Color(l.Colors.Muted)

	left := buildPanel(sidebar, l.SidebarWidth, height, l.FocusSidebar, active, dim)
	right := buildPanel(content, l.ContentWidth, height, !l.FocusSidebar, active, dim)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// MainContentWidth returns the usable width inside the content panel.
func (l *Layout) MainContentWidth() int {
	return l.ContentWidth - 6
}

// SidebarContentWidth returns the usable width inside the sidebar.
func (l *Layout) SidebarContentWidth() int {
	return l.SidebarWidth - 6
}

// buildPanel draws border(2), padding(2) and a scrollbar column(2) around
// the lines.
func buildPanel(panel Panel, width, height int, focused bool, active, dim lipgloss.Color) string {
	contentWidth := max(width-6, 1)
	visibleHeight := max(height-2, 1)

	lines := panel.Lines
	if len(lines) > visibleHeight {
		lines = lines[:visibleHeight]
	}
	for len(lines) < visibleHeight {
		lines = append(lines, "")
	}

	total := panel.TotalItems
	if total == 0 {
		total = len(panel.Lines)
	}
	scrollbar := BuildScrollbar(visibleHeight, total, panel.ScrollPos, active, dim, focused)

	rows := make([]string, len(lines))
	for i, line := range lines {
		w := lipgloss.Width(line)
		if w > contentWidth {
			line = Truncate(line, contentWidth)
		} else if w < contentWidth {
			line += strings.Repeat(" ", contentWidth-w)
		}
		rows[i] = line + " " + scrollbar[i]
	}

	border := dim
	if focused {
		border = active
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

// Truncate shortens s to maxWidth cells, ending in "...".
func Truncate(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for i := len(runes); i > 0; i-- {
		candidate := string(runes[:i])
		if lipgloss.Width(candidate) <= maxWidth-3 {
			return candidate + "..."
		}
	}
	return "..."
}
