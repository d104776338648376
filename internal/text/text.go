// Package text turns simulation results into markdown, terminal renderings
// and export files.
package text

import (
	"fmt"
	"strings"
	"time"

	"github.com/DaanHessen/humanos-tui/internal/domain"
)

// Axis is one dimension of the comparison radar.
type Axis struct {
	Label string
	Value func(domain.Outcome) float64
}

// Axes are plotted clockwise from the top. Resistance inverts friction so
// that larger is better on every axis.
var Axes = []Axis{
	{Label: "Skill Growth", Value: func(o domain.Outcome) float64 { return o.SkillGrowth }},
	{Label: "Value Align", Value: func(o domain.Outcome) float64 { return o.ValueAlignment }},
	{Label: "Optionality", Value: func(o domain.Outcome) float64 { return o.FutureOptionality }},
	{Label: "Resistance", Value: func(o domain.Outcome) float64 { return Resistance(o) }},
}

// Resistance is 100 minus the friction indicator, clamped to [0,100].
func Resistance(o domain.Outcome) float64 { return clamp(100 - o.FrictionIndicator) }

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PathNames label the three outcomes in display order.
var PathNames = []string{"Path Alpha", "Path Beta", "Path C"}

// ResultMarkdown renders a full dashboard report.
func ResultMarkdown(p domain.Profile, a, b domain.Scenario, res domain.Result) string {
	var sb strings.Builder
	sb.WriteString("# HUMANOS Decision Report\n\n")
	fmt.Fprintf(&sb, "**Twin:** %s, %s\n\n", orDash(p.Name), orDash(p.Major))
	if len(p.CoreValues) > 0 {
		fmt.Fprintf(&sb, "**Core values:** %s\n\n", strings.Join(p.CoreValues, ", "))
	}
	if len(p.TopSkills) > 0 {
		fmt.Fprintf(&sb, "**Top skills:** %s\n\n", strings.Join(p.TopSkills, ", "))
	}
	fmt.Fprintf(&sb, "- **Alpha:** %s\n- **Beta:** %s\n\n", a.Title, b.Title)

	sb.WriteString("## Comparative Analysis\n\n")
	sb.WriteString(strings.TrimSpace(res.ComparativeAnalysis) + "\n\n")

	sb.WriteString("## Outcomes\n\n")
	sb.WriteString("| Path | Title | Skill Growth | Value Align | Optionality | Friction |\n")
	sb.WriteString("|---|---|---:|---:|---:|---:|\n")
	for i, o := range res.Outcomes() {
		fmt.Fprintf(&sb, "| %s | %s | %.0f | %.0f | %.0f | %.0f |\n", PathNames[i], cell(o.Title),
			o.SkillGrowth, o.ValueAlignment, o.FutureOptionality, o.FrictionIndicator)
	}
	sb.WriteString("\n")
	for i, o := range res.Outcomes() {
		fmt.Fprintf(&sb, "### %s: %s\n\n%s\n\n", PathNames[i], o.Title, strings.TrimSpace(o.NarrativeSnapshot))
	}

	if len(res.TradeOffs) > 0 {
		sb.WriteString("## Trade-offs\n\n")
		sb.WriteString("| Dimension | Alpha | Beta | C |\n|---|---:|---:|---:|\n")
		for _, t := range res.TradeOffs {
			fmt.Fprintf(&sb, "| %s | %.0f | %.0f | %.0f |\n", cell(t.Label), t.PathAValue, t.PathBValue, t.PathCValue)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RecordMarkdown renders a stored record with its id and timestamp.
func RecordMarkdown(rec domain.Record) string {
	var sb strings.Builder
	sb.WriteString(ResultMarkdown(rec.Profile, rec.ScenarioA, rec.ScenarioB, rec.Results))
	fmt.Fprintf(&sb, "---\n\nRecord `%s`, simulated %s\n", rec.ID, Timestamp(rec.Timestamp))
	return sb.String()
}

// Timestamp formats epoch milliseconds in local time.
func Timestamp(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func cell(s string) string { return strings.ReplaceAll(s, "|", "/") }

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
