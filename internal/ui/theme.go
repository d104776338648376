package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	Surface  lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Accent   lipgloss.Color
	Border   lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	BarEmpty lipgloss.Color
}

// pathColors are fixed across themes so a path keeps its color everywhere:
// Alpha purple, Beta amber, C cyan.
var pathColors = []lipgloss.Color{"#a855f7", "#f59e0b", "#22d3ee"}

const defaultTheme = "humanos"

var palettes = map[string]palette{
	"humanos": {
		Surface:  lipgloss.Color("#0f1117"),
		Text:     lipgloss.Color("#e5e7eb"),
		Muted:    lipgloss.Color("#6b7280"),
		Accent:   lipgloss.Color("#22d3ee"),
		Border:   lipgloss.Color("#2a2e3b"),
		Success:  lipgloss.Color("#34d399"),
		Warning:  lipgloss.Color("#f59e0b"),
		BarEmpty: lipgloss.Color("#1a1d27"),
	},
	"catppuccin": {
		Surface:  lipgloss.Color("#313244"),
		Text:     lipgloss.Color("#cdd6f4"),
		Muted:    lipgloss.Color("#a6adc8"),
		Accent:   lipgloss.Color("#cba6f7"),
		Border:   lipgloss.Color("#585b70"),
		Success:  lipgloss.Color("#94e2d5"),
		Warning:  lipgloss.Color("#f9e2af"),
		BarEmpty: lipgloss.Color("#313244"),
	},
	"dracula": {
		Surface:  lipgloss.Color("#343746"),
		Text:     lipgloss.Color("#f8f8f2"),
		Muted:    lipgloss.Color("#6272a4"),
		Accent:   lipgloss.Color("#ff79c6"),
		Border:   lipgloss.Color("#44475a"),
		Success:  lipgloss.Color("#50fa7b"),
		Warning:  lipgloss.Color("#f1fa8c"),
		BarEmpty: lipgloss.Color("#343746"),
	},
	"gruvbox": {
		Surface:  lipgloss.Color("#3c3836"),
		Text:     lipgloss.Color("#ebdbb2"),
		Muted:    lipgloss.Color("#a89984"),
		Accent:   lipgloss.Color("#fabd2f"),
		Border:   lipgloss.Color("#665c54"),
		Success:  lipgloss.Color("#b8bb26"),
		Warning:  lipgloss.Color("#fe8019"),
		BarEmpty: lipgloss.Color("#3c3836"),
	},
	"solarized_dark": {
		Surface:  lipgloss.Color("#073642"),
		Text:     lipgloss.Color("#fdf6e3"),
		Muted:    lipgloss.Color("#93a1a1"),
		Accent:   lipgloss.Color("#b58900"),
		Border:   lipgloss.Color("#586e75"),
		Success:  lipgloss.Color("#859900"),
		Warning:  lipgloss.Color("#cb4b16"),
		BarEmpty: lipgloss.Color("#073642"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[defaultTheme]
}

type styles struct {
	topBar  lipgloss.Style
	text    lipgloss.Style
	success lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
	warning lipgloss.Style
	panel   lipgloss.Style
	focused lipgloss.Style
	overlay lipgloss.Style
	alert   lipgloss.Style
	status  lipgloss.Style
	path    []lipgloss.Style
}

func newStyles(p palette) styles {
	s := styles{
		topBar:  lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.Surface),
		text:    lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		success: lipgloss.NewStyle().Foreground(p.Success),
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		muted:   lipgloss.NewStyle().Foreground(p.Muted),
		accent:  lipgloss.NewStyle().Foreground(p.Accent),
		warning: lipgloss.NewStyle().Bold(true).Foreground(p.Warning),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		focused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Accent).Padding(0, 1),
		overlay: lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.Accent).Padding(1, 3),
		alert:   lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(p.Warning).Padding(1, 3),
		status:  lipgloss.NewStyle().Foreground(p.Muted),
	}
	for _, c := range pathColors {
		s.path = append(s.path, lipgloss.NewStyle().Foreground(c))
	}
	return s
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string, step int) string {
	names := themeNames()
	if len(names) == 0 {
		return current
	}
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}
