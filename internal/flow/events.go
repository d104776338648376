package flow

import "github.com/DaanHessen/humanos-tui/internal/domain"

// Event is a user action or a completed effect fed to Dispatch.
type Event interface{ isEvent() }

// Slot picks one of the two user-authored scenarios.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

type (
	// EditProfile replaces the profile being edited on Onboarding.
	EditProfile struct{ Profile domain.Profile }
	// EditScenario replaces one scenario on ScenarioInput.
	EditScenario struct {
		Slot     Slot
		Scenario domain.Scenario
	}
	LoadDemo        struct{}
	ConfirmProfile  struct{}
	BackToProfile   struct{}
	RunSimulation   struct{}
	RetrySimulation struct{}
	// SimulationDone completes the attempt identified by Attempt.
	SimulationDone struct {
		Attempt int
		Result  domain.Result
		Err     error
	}
	ConnectKey struct{}
	// KeySelected completes a RequestKeySelection effect.
	KeySelected     struct{ Err error }
	DismissRecovery struct{}
	DismissAlert    struct{}
	OpenHistory     struct{}
	CloseHistory    struct{}
	SelectRecord    struct{ ID string }
	ClearHistory    struct{}
	Reset           struct{}
)

func (EditProfile) isEvent()     {}
func (EditScenario) isEvent()    {}
func (LoadDemo) isEvent()        {}
func (ConfirmProfile) isEvent()  {}
func (BackToProfile) isEvent()   {}
func (RunSimulation) isEvent()   {}
func (RetrySimulation) isEvent() {}
func (SimulationDone) isEvent()  {}
func (ConnectKey) isEvent()      {}
func (KeySelected) isEvent()     {}
func (DismissRecovery) isEvent() {}
func (DismissAlert) isEvent()    {}
func (OpenHistory) isEvent()     {}
func (CloseHistory) isEvent()    {}
func (SelectRecord) isEvent()    {}
func (ClearHistory) isEvent()    {}
func (Reset) isEvent()           {}

// Effect is work the caller must perform (see Controller.Perform).
type Effect interface{ isEffect() }

// RequestSimulation asks for one inference attempt. The payload is a
// snapshot, so performing it never reads controller state.
type RequestSimulation struct {
	Attempt int
	Profile domain.Profile
	A, B    domain.Scenario
}

// RequestKeySelection asks the credential bridge to select a key.
type RequestKeySelection struct{}

func (RequestSimulation) isEffect()   {}
func (RequestKeySelection) isEffect() {}
