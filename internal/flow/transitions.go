package flow

// Screen is one step of the sandbox flow.
type Screen string

const (
	ScreenOnboarding    Screen = "onboarding"
	ScreenScenarioInput Screen = "scenario_input"
	ScreenSimulating    Screen = "simulating"
	ScreenDashboard     Screen = "dashboard"
	ScreenHistory       Screen = "history"
)

// validTransitions defines the legal screen transitions.
// Each key is a source screen, and the value is the set of valid targets.
var validTransitions = map[Screen]map[Screen]bool{
	ScreenOnboarding:    {ScreenScenarioInput: true, ScreenHistory: true},
	ScreenScenarioInput: {ScreenSimulating: true, ScreenOnboarding: true, ScreenHistory: true},
	ScreenSimulating:    {ScreenDashboard: true, ScreenScenarioInput: true},
	ScreenDashboard:     {ScreenOnboarding: true, ScreenHistory: true},
	ScreenHistory:       {ScreenDashboard: true, ScreenOnboarding: true, ScreenScenarioInput: true},
}

// IsValidTransition checks if a screen transition is legal.
func IsValidTransition(from, to Screen) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}
