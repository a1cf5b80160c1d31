package splitpanel

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/argutil/internal/ui/style"
)

func TestNewLayout_ClampsSidebar(t *testing.T) {
	cfg := Config{SidebarWidthPercent: 0.3, SidebarMinWidth: 20, SidebarMaxWidth: 30}

	tests := []struct {
		width       int
		wantSidebar int
	}{
		{width: 40, wantSidebar: 20},
		{width: 80, wantSidebar: 24},
		{width: 200, wantSidebar: 30},
	}
	for _, tt := range tests {
		l := NewLayout(tt.width, cfg, style.ColorConfig{})
		require.Equal(t, tt.wantSidebar, l.SidebarWidth)
		require.Equal(t, tt.width-tt.wantSidebar, l.ContentWidth)
	}
}

func TestBuildScrollbar(t *testing.T) {
	bar := BuildScrollbar(4, 3, 0, "1", "2", true)
	require.Equal(t, []string{" ", " ", " ", " "}, bar)

	bar = BuildScrollbar(10, 100, 90, "1", "2", true)
	require.Len(t, bar, 10)
	require.Contains(t, bar[9], ScrollThumbChar)
	require.Contains(t, bar[0], ScrollTrackChar)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "abcd...", Truncate("abcdefghij", 7))
	require.Equal(t, "...", Truncate("abcdef", 2))
}

func TestRender_Dimensions(t *testing.T) {
	l := NewLayout(60, Config{SidebarWidthPercent: 0.3, SidebarMinWidth: 10, SidebarMaxWidth: 30}, style.ColorConfig{})
	out := l.Render(Panel{Lines: []string{"a", "b"}}, Panel{Lines: []string{strings.Repeat("x", 100)}}, 6)

	rows := strings.Split(out, "\n")
	require.Len(t, rows, 6)
	for _, row := range rows {
		require.Equal(t, 60, lipgloss.Width(row))
	}
}
