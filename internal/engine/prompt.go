package engine

import (
	"fmt"
	"strings"

	"github.com/DaanHessen/humanos-tui/internal/domain"
)

// BuildPrompt assembles the instruction sent with every simulation request.
// Top skills are deliberately not included.
func BuildPrompt(p domain.Profile, a, b domain.Scenario) string {
	var sb strings.Builder
	sb.WriteString("Role: HUMANOS stochastic decision engine.\n")
	fmt.Fprintf(&sb, "Persona: %s (context: %s). Core values: [%s].\n\n",
		p.Name, p.Major, strings.Join(p.CoreValues, ", "))

	sb.WriteString("Scenarios to stress-test:\n")
	fmt.Fprintf(&sb, "- Scenario Alpha: %s - %s\n", a.Title, a.Description)
	fmt.Fprintf(&sb, "- Scenario Beta: %s - %s\n\n", b.Title, b.Description)

	sb.WriteString("Protocol:\n")
	sb.WriteString("1. Project the most likely outcomes of Alpha and Beta over a 3-year horizon.\n")
	sb.WriteString("2. Synthesize a third path, Scenario C \"Optimal Convergence\", that combines the strengths of Alpha and Beta while reducing their risks.\n")
	sb.WriteString("3. For every scenario give four indices from 0 to 100: skillGrowth, valueAlignment, futureOptionality and frictionIndicator (higher friction means more resistance).\n")
	sb.WriteString("4. Write a concise narrativeSnapshot for every scenario.\n")
	sb.WriteString("5. Write a comparativeAnalysis across the three paths and a list of tradeOffs, each with a label and a 0-100 value for paths A, B and C.\n\n")
	sb.WriteString("Respond with JSON only, strictly matching the requested schema.\n")
	return sb.String()
}
