package style

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// ColorConfig holds the colors of one theme.
// Values are ANSI color numbers (0-255) or "bold".
type ColorConfig struct {
	Success string
	Warning string
	Error   string
	Info    string
	Muted   string
	Header  string
}

// BaseThemeNames lists theme bases; the variant follows the terminal background.
var BaseThemeNames = []string{"default", "mono", "contrast"}

// Themes contains the built-in themes. Dark variants use bright colors,
// light variants dark ones.
var Themes = map[string]ColorConfig{
	"default-dark": {
		Success: "10",
		Warning: "11",
		Error:   "9",
		Info:    "14",
		Muted:   "245",
		Header:  "bold",
	},
	"default-light": {
		Success: "28",
		Warning: "130",
		Error:   "124",
		Info:    "27",
		Muted:   "242",
		Header:  "bold",
	},
	"mono-dark": {
		Success: "bold",
		Warning: "bold",
		Error:   "bold",
		Info:    "252",
		Muted:   "243",
		Header:  "bold",
	},
	"mono-light": {
		Success: "bold",
		Warning: "bold",
		Error:   "bold",
		Info:    "236",
		Muted:   "245",
		Header:  "bold",
	},
	"contrast-dark": {
		Success: "46",
		Warning: "226",
		Error:   "196",
		Info:    "51",
		Muted:   "250",
		Header:  "bold",
	},
	"contrast-light": {
		Success: "22",
		Warning: "94",
		Error:   "88",
		Info:    "18",
		Muted:   "239",
		Header:  "bold",
	},
}

// hasDarkBackground is replaced in tests.
var hasDarkBackground = termenv.HasDarkBackground

// ResolveThemeName turns a base name into its dark or light variant.
// Names that already carry a variant are returned unchanged.
func ResolveThemeName(name string) string {
	if name == "" {
		name = "default"
	}
	if strings.HasSuffix(name, "-dark") || strings.HasSuffix(name, "-light") {
		return name
	}
	if hasDarkBackground() {
		return name + "-dark"
	}
	return name + "-light"
}

// LoadColorConfig returns the colors of the named theme. ARGUTIL_COLOR_THEME
// overrides name; unknown themes fall back to default-dark.
func LoadColorConfig(name string) ColorConfig {
	if env := os.Getenv("ARGUTIL_COLOR_THEME"); env != "" {
		name = env
	}
	theme, ok := Themes[ResolveThemeName(name)]
	if !ok {
		return Themes["default-dark"]
	}
	return theme
}
