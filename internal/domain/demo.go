package domain

// Demonstration twin used by the "initialize demo twin" action.
var (
	DemoProfile = Profile{
		Name:       "Alex Chen",
		Major:      "Bio-Systems Engineering",
		CoreValues: []string{"Intellectual Autonomy", "Environmental Impact", "Stability"},
		TopSkills:  []string{"Systems Design", "Data Ethics", "Process Optimization"},
	}
	DemoScenarioA = Scenario{
		Title:       "Global Tech Corp R&D",
		Description: "Joining a tier-1 multinational lab as a specialist. High resources, high stability, rigid hierarchies, lower individual impact.",
	}
	DemoScenarioB = Scenario{
		Title:       "Eco-Tech Seed Startup",
		Description: "Founding member of a 4-person sustainability tech team. High agency, extreme volatility, high personal growth, uncertain funding.",
	}
)

// DemoTwin returns fresh copies of the demo dataset so callers may mutate them.
func DemoTwin() (Profile, Scenario, Scenario) {
	p := DemoProfile
	p.CoreValues = append([]string(nil), DemoProfile.CoreValues...)
	p.TopSkills = append([]string(nil), DemoProfile.TopSkills...)
	return p, DemoScenarioA, DemoScenarioB
}
