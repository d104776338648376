package text

import (
	"github.com/charmbracelet/glamour"
)

// Render renders markdown for the terminal. style is a glamour standard style
// ("dark", "light", "notty") or "" for auto detection. On renderer failure
// the markdown is returned unchanged.
func Render(md string, width int, style string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
