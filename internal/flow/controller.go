// Package flow is the screen flow controller: the single owner of sandbox
// state. UI layers translate keys into Events, call Dispatch, and perform the
// returned Effect asynchronously.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DaanHessen/humanos-tui/internal/credentials"
	"github.com/DaanHessen/humanos-tui/internal/domain"
	"github.com/DaanHessen/humanos-tui/internal/logging"
)

// BillingURL is offered on the recovery overlay.
const BillingURL = "https://ai.google.dev/gemini-api/docs/billing"

// fallbackAlert is shown when a failure carries no message.
const fallbackAlert = "Stochastic process interrupted."

var (
	// ErrGuard rejects an event whose preconditions do not hold.
	ErrGuard = errors.New("guard rejected event")
	// ErrInvalidTransition rejects an event that would make an illegal move.
	ErrInvalidTransition = errors.New("invalid screen transition")
)

// Simulator runs one simulation attempt.
type Simulator interface {
	RunSimulation(ctx context.Context, p domain.Profile, a, b domain.Scenario) (domain.Result, error)
}

// HistoryStore is the subset of store.History the controller needs.
type HistoryStore interface {
	Save(ctx context.Context, rec domain.Record) error
	Load(ctx context.Context) []domain.Record
	Clear(ctx context.Context) error
}

// Recovery is the credential recovery overlay.
type Recovery struct {
	Open              bool
	BridgeUnavailable bool
	KeyPresent        bool
}

// State is a snapshot of everything the screens render.
type State struct {
	Screen    Screen
	Profile   domain.Profile
	ScenarioA domain.Scenario
	ScenarioB domain.Scenario
	Result    *domain.Result
	// RecordID is the history record the dashboard is showing.
	RecordID string
	History  []domain.Record
	Recovery Recovery
	// Alert holds the raw message of the last non-auth failure until dismissed.
	Alert string
	// LastError is the last failure as classified by the controller.
	LastError *domain.SimulationError
	// Attempt identifies the in-flight (or last) simulation attempt.
	Attempt int
}

// Controller owns State. Dispatch must be called from a single goroutine.
type Controller struct {
	sim     Simulator
	history HistoryStore
	bridge  credentials.Bridge
	log     logging.Logger

	state      State
	historyRet Screen

	now   func() time.Time
	newID func() string
}

// NewController starts on Onboarding. bridge may be nil.
func NewController(sim Simulator, history HistoryStore, bridge credentials.Bridge, logger logging.Logger) *Controller {
	return &Controller{
		sim:     sim,
		history: history,
		bridge:  bridge,
		log:     logging.OrNop(logger),
		state:   State{Screen: ScreenOnboarding},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	s.History = append([]domain.Record(nil), c.state.History...)
	if c.state.Result != nil {
		r := *c.state.Result
		s.Result = &r
	}
	return s
}

// Dispatch applies ev to the state and returns the effect to perform, if any.
// Rejected events leave the state untouched.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (Effect, error) {
	switch e := ev.(type) {
	case EditProfile:
		if err := c.require(ScreenOnboarding); err != nil {
			return nil, err
		}
		c.state.Profile = e.Profile
	case EditScenario:
		if err := c.require(ScreenScenarioInput); err != nil {
			return nil, err
		}
		switch e.Slot {
		case SlotA:
			c.state.ScenarioA = e.Scenario
		case SlotB:
			c.state.ScenarioB = e.Scenario
		default:
			return nil, fmt.Errorf("%w: unknown scenario slot %d", ErrGuard, e.Slot)
		}
	case LoadDemo:
		if err := c.require(ScreenOnboarding); err != nil {
			return nil, err
		}
		c.state.Profile, c.state.ScenarioA, c.state.ScenarioB = domain.DemoTwin()
		c.log.Info("demo twin loaded")
	case ConfirmProfile:
		if c.state.Screen != ScreenOnboarding {
			return nil, c.invalid(ScreenScenarioInput)
		}
		if blank(c.state.Profile.Name) || blank(c.state.Profile.Major) {
			return nil, fmt.Errorf("%w: name and major are required", ErrGuard)
		}
		return nil, c.moveTo(ScreenScenarioInput)
	case BackToProfile:
		if err := c.require(ScreenScenarioInput); err != nil {
			return nil, err
		}
		return nil, c.moveTo(ScreenOnboarding)
	case RunSimulation:
		return c.startSimulation()
	case RetrySimulation:
		return c.startSimulation()
	case SimulationDone:
		c.finishSimulation(ctx, e)
	case ConnectKey:
		if !c.state.Recovery.Open {
			return nil, fmt.Errorf("%w: recovery overlay is not open", ErrGuard)
		}
		if c.bridge == nil {
			c.state.Recovery.BridgeUnavailable = true
			c.log.Warn("key selection requested but no bridge is configured")
			return nil, nil
		}
		return RequestKeySelection{}, nil
	case KeySelected:
		if !c.state.Recovery.Open {
			return nil, nil
		}
		if e.Err != nil {
			c.state.Recovery.BridgeUnavailable = true
			c.log.Warn("key selection failed: %v", e.Err)
			return nil, nil
		}
		c.log.Info("key selected, re-running simulation")
		return c.startSimulation()
	case DismissRecovery:
		c.state.Recovery.Open = false
	case DismissAlert:
		c.state.Alert = ""
	case OpenHistory:
		if c.state.Screen == ScreenHistory {
			return nil, nil
		}
		from := c.state.Screen
		if err := c.moveTo(ScreenHistory); err != nil {
			return nil, err
		}
		c.historyRet = from
		c.state.History = c.history.Load(ctx)
	case CloseHistory:
		if err := c.require(ScreenHistory); err != nil {
			return nil, err
		}
		to := c.historyRet
		if to == "" || (to == ScreenDashboard && c.state.Result == nil) {
			to = ScreenOnboarding
		}
		return nil, c.moveTo(to)
	case SelectRecord:
		if err := c.require(ScreenHistory); err != nil {
			return nil, err
		}
		rec, ok := c.findRecord(e.ID)
		if !ok {
			return nil, fmt.Errorf("%w: no record %q", ErrGuard, e.ID)
		}
		res := rec.Results
		c.state.Profile = rec.Profile
		c.state.ScenarioA = rec.ScenarioA
		c.state.ScenarioB = rec.ScenarioB
		c.state.Result = &res
		c.state.RecordID = rec.ID
		return nil, c.moveTo(ScreenDashboard)
	case ClearHistory:
		if err := c.require(ScreenHistory); err != nil {
			return nil, err
		}
		if err := c.history.Clear(ctx); err != nil {
			return nil, err
		}
		c.state.History = []domain.Record{}
	case Reset:
		if c.state.Screen == ScreenOnboarding {
			return nil, nil
		}
		return nil, c.moveTo(ScreenOnboarding)
	default:
		return nil, fmt.Errorf("%w: unknown event %T", ErrGuard, ev)
	}
	return nil, nil
}

// Perform executes eff and returns the completion event. It reads nothing
// but the effect payload, so it is safe to call off the dispatch goroutine.
func (c *Controller) Perform(ctx context.Context, eff Effect) Event {
	switch e := eff.(type) {
	case RequestSimulation:
		res, err := c.sim.RunSimulation(ctx, e.Profile, e.A, e.B)
		return SimulationDone{Attempt: e.Attempt, Result: res, Err: err}
	case RequestKeySelection:
		if c.bridge == nil {
			return KeySelected{Err: errors.New("no credential bridge configured")}
		}
		return KeySelected{Err: c.bridge.OpenSelectKey(ctx)}
	default:
		return nil
	}
}

// Drive dispatches ev and performs effects synchronously until none remain.
func (c *Controller) Drive(ctx context.Context, ev Event) error {
	for ev != nil {
		eff, err := c.Dispatch(ctx, ev)
		if err != nil || eff == nil {
			return err
		}
		ev = c.Perform(ctx, eff)
	}
	return nil
}

func (c *Controller) startSimulation() (Effect, error) {
	if !IsValidTransition(c.state.Screen, ScreenSimulating) {
		return nil, c.invalid(ScreenSimulating)
	}
	if blank(c.state.ScenarioA.Title) || blank(c.state.ScenarioB.Title) {
		return nil, fmt.Errorf("%w: both scenario titles are required", ErrGuard)
	}
	c.state.Recovery.Open = false
	c.state.Alert = ""
	c.state.LastError = nil
	c.state.Attempt++
	if err := c.moveTo(ScreenSimulating); err != nil {
		return nil, err
	}
	return RequestSimulation{
		Attempt: c.state.Attempt,
		Profile: c.state.Profile,
		A:       c.state.ScenarioA,
		B:       c.state.ScenarioB,
	}, nil
}

func (c *Controller) finishSimulation(ctx context.Context, e SimulationDone) {
	if c.state.Screen != ScreenSimulating || e.Attempt != c.state.Attempt {
		c.log.Debug("ignoring stale completion for attempt %d (current %d, screen %s)", e.Attempt, c.state.Attempt, c.state.Screen)
		return
	}
	if e.Err != nil {
		c.fail(ctx, e.Err)
		return
	}
	rec := domain.Record{
		ID:        c.newID(),
		Timestamp: c.now().UnixMilli(),
		Profile:   c.state.Profile,
		ScenarioA: c.state.ScenarioA,
		ScenarioB: c.state.ScenarioB,
		Results:   e.Result,
	}
	if err := c.history.Save(ctx, rec); err != nil {
		c.log.Error("save record %s: %v", rec.ID, err)
		c.alert(domain.NewTransportError(err))
		return
	}
	res := e.Result
	c.state.Result = &res
	c.state.RecordID = rec.ID
	c.state.History = c.history.Load(ctx)
	_ = c.moveTo(ScreenDashboard)
}

// fail classifies err. Auth-shaped failures open the recovery overlay; all
// others raise an alert. Both return to ScenarioInput with inputs intact.
func (c *Controller) fail(ctx context.Context, err error) {
	se := classify(err)
	if se.Kind != domain.KindAuth {
		c.alert(se)
		return
	}
	c.state.LastError = se
	c.state.Recovery.Open = true
	c.state.Recovery.KeyPresent = false
	if c.bridge != nil {
		present, herr := c.bridge.HasSelectedAPIKey(ctx)
		if herr != nil {
			c.log.Warn("check selected key: %v", herr)
		}
		c.state.Recovery.KeyPresent = present
	}
	c.log.Warn("attempt %d needs credentials: %v", c.state.Attempt, err)
	_ = c.moveTo(ScreenScenarioInput)
}

func (c *Controller) alert(se *domain.SimulationError) {
	c.state.LastError = se
	c.state.Alert = se.Message
	if strings.TrimSpace(c.state.Alert) == "" {
		c.state.Alert = fallbackAlert
	}
	c.log.Warn("attempt %d failed (%s): %s", c.state.Attempt, se.Kind, c.state.Alert)
	_ = c.moveTo(ScreenScenarioInput)
}

// authMarkers are matched case-insensitively against the failure message.
// Any error whose text mentions one of them is treated as a credential
// problem, including unrelated "not found" failures.
var authMarkers = []string{"api key", "401", "403", "not found"}

// classify returns err as a SimulationError, reclassified to KindAuth when it
// looks like a credential failure.
func classify(err error) *domain.SimulationError {
	var se *domain.SimulationError
	if !errors.As(err, &se) {
		se = domain.NewTransportError(err)
	}
	if se.Kind == domain.KindAuth || IsAuthFailure(se.Message) {
		return se.WithKind(domain.KindAuth)
	}
	return se
}

// IsAuthFailure reports whether msg looks like a credential failure.
func IsAuthFailure(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range authMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// CurrentRecord returns the record behind the dashboard, if any.
func (c *Controller) CurrentRecord() (domain.Record, bool) {
	if c.state.Result == nil || c.state.RecordID == "" {
		return domain.Record{}, false
	}
	return c.findRecord(c.state.RecordID)
}

func (c *Controller) findRecord(id string) (domain.Record, bool) {
	for _, r := range c.state.History {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Record{}, false
}

func (c *Controller) require(s Screen) error {
	if c.state.Screen != s {
		return fmt.Errorf("%w: only allowed on %s (current %s)", ErrGuard, s, c.state.Screen)
	}
	return nil
}

func (c *Controller) invalid(to Screen) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state.Screen, to)
}

func (c *Controller) moveTo(to Screen) error {
	if !IsValidTransition(c.state.Screen, to) {
		return c.invalid(to)
	}
	if to == ScreenDashboard && c.state.Result == nil {
		return fmt.Errorf("%w: dashboard requires a result", ErrInvalidTransition)
	}
	c.log.Debug("screen %s -> %s", c.state.Screen, to)
	c.state.Screen = to
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
