// Package domain holds the data model shared by the simulation client, the
// history store and the flow controller.
package domain

import "strings"

// Profile is the user's "twin": who is making the decision.
type Profile struct {
	Name       string   `json:"name" yaml:"name"`
	Major      string   `json:"major" yaml:"major"`
	CoreValues []string `json:"coreValues" yaml:"coreValues"`
	TopSkills  []string `json:"topSkills" yaml:"topSkills"`
}

// Scenario is one user-authored candidate path.
type Scenario struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Outcome is the projected result of one path. All four indices are in [0,100].
type Outcome struct {
	Title             string  `json:"title"`
	SkillGrowth       float64 `json:"skillGrowth"`
	ValueAlignment    float64 `json:"valueAlignment"`
	FutureOptionality float64 `json:"futureOptionality"`
	// FrictionIndicator grows with expected resistance; higher is worse.
	FrictionIndicator float64 `json:"frictionIndicator"`
	NarrativeSnapshot string  `json:"narrativeSnapshot"`
}

// TradeOff is one labelled comparison row with a value per path.
type TradeOff struct {
	Label      string  `json:"label"`
	PathAValue float64 `json:"pathAValue"`
	PathBValue float64 `json:"pathBValue"`
	PathCValue float64 `json:"pathCValue"`
}

// Result is the full payload produced by the inference service. Nothing in it
// is computed locally.
type Result struct {
	ScenarioA           Outcome    `json:"scenarioA"`
	ScenarioB           Outcome    `json:"scenarioB"`
	ScenarioC           Outcome    `json:"scenarioC"`
	ComparativeAnalysis string     `json:"comparativeAnalysis"`
	TradeOffs           []TradeOff `json:"tradeOffs"`
}

// Outcomes returns A, B and C in display order.
func (r Result) Outcomes() []Outcome {
	return []Outcome{r.ScenarioA, r.ScenarioB, r.ScenarioC}
}

// Record is one completed simulation as persisted in history. Records are
// immutable once created.
type Record struct {
	ID        string   `json:"id"`
	Timestamp int64    `json:"timestamp"` // epoch milliseconds
	Profile   Profile  `json:"profile"`
	ScenarioA Scenario `json:"scenarioA"`
	ScenarioB Scenario `json:"scenarioB"`
	Results   Result   `json:"results"`
}

// ParseList splits comma-separated user input into trimmed, non-empty items.
func ParseList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of ParseList for display in an input field.
func JoinList(items []string) string { return strings.Join(items, ", ") }
