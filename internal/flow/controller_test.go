package flow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/humanos-tui/internal/domain"
	"github.com/DaanHessen/humanos-tui/internal/store"
)

type stubSim struct {
	calls int
	errs  []error
	seen  []domain.Profile
}

func (s *stubSim) RunSimulation(_ context.Context, p domain.Profile, a, b domain.Scenario) (domain.Result, error) {
	i := s.calls
	s.calls++
	s.seen = append(s.seen, p)
	if i < len(s.errs) && s.errs[i] != nil {
		return domain.Result{}, s.errs[i]
	}
	return sampleResult(a.Title, b.Title), nil
}

type stubBridge struct {
	present   bool
	selectErr error
	opened    int
}

func (b *stubBridge) HasSelectedAPIKey(context.Context) (bool, error) { return b.present, nil }
func (b *stubBridge) OpenSelectKey(context.Context) error {
	b.opened++
	return b.selectErr
}

type brokenHistory struct{ *store.History }

func (brokenHistory) Save(context.Context, domain.Record) error {
	return errors.New("put slot humanos_simulation_history: quota exceeded")
}

func sampleResult(a, b string) domain.Result {
	return domain.Result{
		ScenarioA:           domain.Outcome{Title: a, SkillGrowth: 60, ValueAlignment: 50, FutureOptionality: 70, FrictionIndicator: 30},
		ScenarioB:           domain.Outcome{Title: b, SkillGrowth: 90, ValueAlignment: 85, FutureOptionality: 55, FrictionIndicator: 80},
		ScenarioC:           domain.Outcome{Title: "Optimal Convergence", SkillGrowth: 82, ValueAlignment: 80, FutureOptionality: 75, FrictionIndicator: 45},
		ComparativeAnalysis: "C keeps most of B's upside.",
		TradeOffs:           []domain.TradeOff{{Label: "Stability", PathAValue: 90, PathBValue: 20, PathCValue: 65}},
	}
}

func newTestController(sim Simulator, bridge *stubBridge) (*Controller, *store.History) {
	h := store.NewHistory(store.NewMemory(), nil)
	var c *Controller
	if bridge == nil {
		c = NewController(sim, h, nil, nil)
	} else {
		c = NewController(sim, h, bridge, nil)
	}
	n := 0
	c.newID = func() string { n++; return fmt.Sprintf("id-%d", n) }
	c.now = func() time.Time { return time.UnixMilli(1_760_000_000_000) }
	return c, h
}

// toScenarioInput loads the demo twin and confirms the profile.
func toScenarioInput(t *testing.T, c *Controller) {
	t.Helper()
	ctx := context.Background()
	_, err := c.Dispatch(ctx, LoadDemo{})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, ConfirmProfile{})
	require.NoError(t, err)
	require.Equal(t, ScreenScenarioInput, c.State().Screen)
}

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from, to Screen
		valid    bool
	}{
		{ScreenOnboarding, ScreenScenarioInput, true},
		{ScreenOnboarding, ScreenHistory, true},
		{ScreenOnboarding, ScreenDashboard, false},
		{ScreenScenarioInput, ScreenSimulating, true},
		{ScreenSimulating, ScreenDashboard, true},
		{ScreenSimulating, ScreenScenarioInput, true},
		{ScreenSimulating, ScreenHistory, false},
		{ScreenSimulating, ScreenOnboarding, false},
		{ScreenDashboard, ScreenSimulating, false},
		{ScreenHistory, ScreenDashboard, true},
		{ScreenHistory, ScreenSimulating, false},
		{Screen("nowhere"), ScreenOnboarding, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidTransition(tt.from, tt.to))
		})
	}
}

func TestDemoRunProducesOneRecord(t *testing.T) {
	ctx := context.Background()
	sim := &stubSim{}
	c, h := newTestController(sim, nil)
	toScenarioInput(t, c)

	require.NoError(t, c.Drive(ctx, RunSimulation{}))

	s := c.State()
	assert.Equal(t, ScreenDashboard, s.Screen)
	require.NotNil(t, s.Result)
	assert.Equal(t, "Optimal Convergence", s.Result.ScenarioC.Title)
	assert.Empty(t, s.Alert)

	recs := h.Load(ctx)
	require.Len(t, recs, 1)
	assert.Equal(t, "id-1", recs[0].ID)
	assert.Equal(t, int64(1_760_000_000_000), recs[0].Timestamp)
	assert.Equal(t, "Alex Chen", recs[0].Profile.Name)
	assert.Equal(t, "Global Tech Corp R&D", recs[0].ScenarioA.Title)
	assert.Equal(t, *s.Result, recs[0].Results)
	assert.Equal(t, recs, s.History)
	assert.Equal(t, 1, sim.calls)

	cur, ok := c.CurrentRecord()
	require.True(t, ok)
	assert.Equal(t, "id-1", cur.ID)
}

func TestAuthFailureOpensRecovery(t *testing.T) {
	ctx := context.Background()
	for _, msg := range []string{"Error 403, Message: permission denied", "API key not valid", "models/gemini-x is NOT FOUND", "HTTP 401"} {
		t.Run(msg, func(t *testing.T) {
			sim := &stubSim{errs: []error{domain.NewTransportError(errors.New(msg))}}
			c, h := newTestController(sim, &stubBridge{present: true})
			toScenarioInput(t, c)

			require.NoError(t, c.Drive(ctx, RunSimulation{}))

			s := c.State()
			assert.Equal(t, ScreenScenarioInput, s.Screen)
			assert.True(t, s.Recovery.Open)
			assert.True(t, s.Recovery.KeyPresent)
			assert.Empty(t, s.Alert)
			assert.Nil(t, s.Result)
			require.NotNil(t, s.LastError)
			assert.True(t, errors.Is(s.LastError, domain.ErrAuth))
			assert.Equal(t, msg, s.LastError.Message)
			assert.Equal(t, "Alex Chen", s.Profile.Name)
			assert.Empty(t, h.Load(ctx))
		})
	}
}

func TestGenericFailureRaisesAlertAndKeepsInputs(t *testing.T) {
	ctx := context.Background()
	sim := &stubSim{errs: []error{errors.New("stochastic process interrupted")}}
	c, h := newTestController(sim, nil)
	toScenarioInput(t, c)

	require.NoError(t, c.Drive(ctx, RunSimulation{}))

	s := c.State()
	assert.Equal(t, ScreenScenarioInput, s.Screen)
	assert.Equal(t, "stochastic process interrupted", s.Alert)
	assert.False(t, s.Recovery.Open)
	assert.Equal(t, "Global Tech Corp R&D", s.ScenarioA.Title)
	assert.Equal(t, "Eco-Tech Seed Startup", s.ScenarioB.Title)
	assert.Empty(t, h.Load(ctx))

	_, err := c.Dispatch(ctx, DismissAlert{})
	require.NoError(t, err)
	assert.Empty(t, c.State().Alert)
}

func TestEmptyMessageUsesFallbackAlert(t *testing.T) {
	sim := &stubSim{errs: []error{&domain.SimulationError{Kind: domain.KindSchema}}}
	c, _ := newTestController(sim, nil)
	toScenarioInput(t, c)
	require.NoError(t, c.Drive(context.Background(), RunSimulation{}))
	assert.Equal(t, fallbackAlert, c.State().Alert)
}

func TestSaveFailureIsAnAlert(t *testing.T) {
	ctx := context.Background()
	c, h := newTestController(&stubSim{}, nil)
	c.history = brokenHistory{h}
	toScenarioInput(t, c)

	require.NoError(t, c.Drive(ctx, RunSimulation{}))

	s := c.State()
	assert.Equal(t, ScreenScenarioInput, s.Screen)
	assert.Contains(t, s.Alert, "quota exceeded")
	assert.False(t, s.Recovery.Open)
	assert.Nil(t, s.Result)
}

func TestGuards(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(&stubSim{}, nil)

	_, err := c.Dispatch(ctx, EditProfile{Profile: domain.Profile{Name: "  ", Major: "Physics"}})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, ConfirmProfile{})
	assert.ErrorIs(t, err, ErrGuard)
	assert.Equal(t, ScreenOnboarding, c.State().Screen)

	_, err = c.Dispatch(ctx, RunSimulation{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = c.Dispatch(ctx, EditProfile{Profile: domain.Profile{Name: "Sam", Major: "Physics"}})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, ConfirmProfile{})
	require.NoError(t, err)

	_, err = c.Dispatch(ctx, LoadDemo{})
	assert.ErrorIs(t, err, ErrGuard, "demo only loads on onboarding")

	_, err = c.Dispatch(ctx, EditScenario{Slot: SlotA, Scenario: domain.Scenario{Title: "Lab"}})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, EditScenario{Slot: SlotB, Scenario: domain.Scenario{Title: " \t"}})
	require.NoError(t, err)
	eff, err := c.Dispatch(ctx, RunSimulation{})
	assert.ErrorIs(t, err, ErrGuard)
	assert.Nil(t, eff)
	assert.Equal(t, ScreenScenarioInput, c.State().Screen)

	_, err = c.Dispatch(ctx, EditScenario{Slot: SlotB, Scenario: domain.Scenario{Title: "Startup"}})
	require.NoError(t, err)
	eff, err = c.Dispatch(ctx, RunSimulation{})
	require.NoError(t, err)
	req, ok := eff.(RequestSimulation)
	require.True(t, ok)
	assert.Equal(t, 1, req.Attempt)
	assert.Equal(t, "Sam", req.Profile.Name)
	assert.Equal(t, ScreenSimulating, c.State().Screen)

	_, err = c.Dispatch(ctx, OpenHistory{})
	assert.ErrorIs(t, err, ErrInvalidTransition, "history is unreachable while simulating")
	_, err = c.Dispatch(ctx, Reset{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStaleCompletionIgnored(t *testing.T) {
	ctx := context.Background()
	c, h := newTestController(&stubSim{}, nil)
	toScenarioInput(t, c)

	_, err := c.Dispatch(ctx, RunSimulation{})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, SimulationDone{Attempt: 0, Result: sampleResult("x", "y")})
	require.NoError(t, err)
	assert.Equal(t, ScreenSimulating, c.State().Screen)
	assert.Empty(t, h.Load(ctx))

	_, err = c.Dispatch(ctx, SimulationDone{Attempt: 1, Result: sampleResult("a", "b")})
	require.NoError(t, err)
	assert.Equal(t, ScreenDashboard, c.State().Screen)

	// a late duplicate after the dashboard is reached is dropped too
	_, err = c.Dispatch(ctx, SimulationDone{Attempt: 1, Err: errors.New("403")})
	require.NoError(t, err)
	assert.Equal(t, ScreenDashboard, c.State().Screen)
	assert.False(t, c.State().Recovery.Open)
}

func TestConnectKeyWithoutBridge(t *testing.T) {
	ctx := context.Background()
	sim := &stubSim{errs: []error{errors.New("API key not valid")}}
	c, _ := newTestController(sim, nil)
	toScenarioInput(t, c)
	require.NoError(t, c.Drive(ctx, RunSimulation{}))

	eff, err := c.Dispatch(ctx, ConnectKey{})
	require.NoError(t, err)
	assert.Nil(t, eff)
	s := c.State()
	assert.True(t, s.Recovery.Open)
	assert.True(t, s.Recovery.BridgeUnavailable)
	assert.False(t, s.Recovery.KeyPresent)
	assert.Equal(t, 1, sim.calls)
}

func TestKeySelectedRerunsOnce(t *testing.T) {
	ctx := context.Background()
	sim := &stubSim{errs: []error{errors.New("Error 401 Unauthorized")}}
	bridge := &stubBridge{}
	c, h := newTestController(sim, bridge)
	toScenarioInput(t, c)
	require.NoError(t, c.Drive(ctx, RunSimulation{}))
	require.True(t, c.State().Recovery.Open)

	require.NoError(t, c.Drive(ctx, ConnectKey{}))

	assert.Equal(t, 1, bridge.opened)
	assert.Equal(t, 2, sim.calls)
	s := c.State()
	assert.Equal(t, ScreenDashboard, s.Screen)
	assert.False(t, s.Recovery.Open)
	assert.Equal(t, 2, s.Attempt)
	assert.Len(t, h.Load(ctx), 1)
}

func TestKeySelectionFailureMarksBridgeUnavailable(t *testing.T) {
	ctx := context.Background()
	sim := &stubSim{errs: []error{errors.New("403")}}
	bridge := &stubBridge{selectErr: errors.New("user cancelled")}
	c, _ := newTestController(sim, bridge)
	toScenarioInput(t, c)
	require.NoError(t, c.Drive(ctx, RunSimulation{}))

	require.NoError(t, c.Drive(ctx, ConnectKey{}))

	s := c.State()
	assert.True(t, s.Recovery.Open)
	assert.True(t, s.Recovery.BridgeUnavailable)
	assert.Equal(t, ScreenScenarioInput, s.Screen)
	assert.Equal(t, 1, sim.calls)
}

func TestRetryClosesOverlayAndReruns(t *testing.T) {
	ctx := context.Background()
	sim := &stubSim{errs: []error{errors.New("403 forbidden")}}
	c, _ := newTestController(sim, nil)
	toScenarioInput(t, c)
	require.NoError(t, c.Drive(ctx, RunSimulation{}))

	eff, err := c.Dispatch(ctx, RetrySimulation{})
	require.NoError(t, err)
	assert.False(t, c.State().Recovery.Open)
	assert.Equal(t, ScreenSimulating, c.State().Screen)
	require.NoError(t, c.Drive(ctx, c.Perform(ctx, eff)))
	assert.Equal(t, ScreenDashboard, c.State().Screen)

	_, err = c.Dispatch(ctx, DismissRecovery{})
	require.NoError(t, err)
}

func TestHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	sim := &stubSim{}
	c, _ := newTestController(sim, nil)
	toScenarioInput(t, c)
	require.NoError(t, c.Drive(ctx, RunSimulation{}))
	first := *c.State().Result

	_, err := c.Dispatch(ctx, Reset{})
	require.NoError(t, err)
	require.Equal(t, ScreenOnboarding, c.State().Screen)
	_, err = c.Dispatch(ctx, EditProfile{Profile: domain.Profile{Name: "Other", Major: "Law"}})
	require.NoError(t, err)

	_, err = c.Dispatch(ctx, OpenHistory{})
	require.NoError(t, err)
	s := c.State()
	require.Equal(t, ScreenHistory, s.Screen)
	require.Len(t, s.History, 1)

	_, err = c.Dispatch(ctx, SelectRecord{ID: "missing"})
	assert.ErrorIs(t, err, ErrGuard)

	_, err = c.Dispatch(ctx, SelectRecord{ID: s.History[0].ID})
	require.NoError(t, err)
	s = c.State()
	assert.Equal(t, ScreenDashboard, s.Screen)
	assert.Equal(t, "Alex Chen", s.Profile.Name)
	assert.Equal(t, first, *s.Result)
	assert.Equal(t, 1, sim.calls, "loading from history never calls the client")
}

func TestCloseAndClearHistory(t *testing.T) {
	ctx := context.Background()
	c, h := newTestController(&stubSim{}, nil)
	toScenarioInput(t, c)
	require.NoError(t, c.Drive(ctx, RunSimulation{}))

	_, err := c.Dispatch(ctx, OpenHistory{})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, CloseHistory{})
	require.NoError(t, err)
	assert.Equal(t, ScreenDashboard, c.State().Screen)

	_, err = c.Dispatch(ctx, OpenHistory{})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, ClearHistory{})
	require.NoError(t, err)
	assert.Empty(t, c.State().History)
	assert.Empty(t, h.Load(ctx))

	_, err = c.Dispatch(ctx, ClearHistory{})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, Reset{})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, ClearHistory{})
	assert.ErrorIs(t, err, ErrGuard)
}

func TestDashboardNeverWithoutResult(t *testing.T) {
	c, _ := newTestController(&stubSim{}, nil)
	_, err := c.Dispatch(context.Background(), OpenHistory{})
	require.NoError(t, err)
	assert.ErrorIs(t, c.moveTo(ScreenDashboard), ErrInvalidTransition)
	_, err = c.Dispatch(context.Background(), CloseHistory{})
	require.NoError(t, err)
	assert.Equal(t, ScreenOnboarding, c.State().Screen)
}

func TestIsAuthFailure(t *testing.T) {
	assert.True(t, IsAuthFailure("Requested entity was not found."))
	assert.True(t, IsAuthFailure("missing API KEY"))
	assert.False(t, IsAuthFailure("deadline exceeded"))
	assert.False(t, IsAuthFailure(""))
}
