package splitpanel

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	ScrollThumbChar = "█"
	ScrollTrackChar = "│"
)

// BuildScrollbar returns one cell per visible row. When everything fits the
// cells are blank; otherwise the thumb size and position are proportional to
// the visible share and the scroll offset.
func BuildScrollbar(viewHeight, totalItems, scrollOffset int, activeColor, trackColor lipgloss.Color, focused bool) []string {
	bar := make([]string, viewHeight)
	if totalItems <= viewHeight {
		for i := range bar {
			bar[i] = " "
		}
		return bar
	}

	thumbSize := max((viewHeight*viewHeight)/totalItems, 1)
	thumbSize = min(thumbSize, max(viewHeight-2, 1))

	maxScroll := max(totalItems-viewHeight, 1)
	trackSpace := max(viewHeight-thumbSize, 0)
	thumbPos := 0
	if trackSpace > 0 {
		thumbPos = (scrollOffset * trackSpace) / maxScroll
	}
	thumbPos = min(max(thumbPos, 0), trackSpace)

	thumbColor := trackColor
	if focused {
		thumbColor = activeColor
	}
	thumbStyle := lipgloss.NewStyle().Foreground(thumbColor)
	trackStyle := lipgloss.NewStyle().Foreground(trackColor)

	for i := 0; i < viewHeight; i++ {
		if i >= thumbPos && i < thumbPos+thumbSize {
			bar[i] = thumbStyle.Render(ScrollThumbChar)
		} else {
			bar[i] = trackStyle.Render(ScrollTrackChar)
		}
	}
	return bar
}
