package junction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	return New()
}

func TestController_Create(t *testing.T) {
	c := newTestController(t)

	i, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)
	assert.Equal(t, "main-first", i.ID())
	assert.Equal(t, "Main St & First Ave", i.Name())
	assert.Equal(t, ModePaused, i.Mode())
	assert.Equal(t, DefaultTimingConfig(), i.Timing())

	_, err = c.Create("main-first", "Duplicate", nil)
	assert.Equal(t, ErrCodeDuplicateID, CodeOf(err))
}

func TestController_CreateWithTiming(t *testing.T) {
	c := newTestController(t)
	timing := TimingConfig{Green: 20 * time.Second, Yellow: 4 * time.Second, Red: 24 * time.Second}

	i, err := c.Create("main-first", "Main St & First Ave", &timing)
	require.NoError(t, err)
	assert.Equal(t, timing, i.Timing())

	bad := TimingConfig{Green: -time.Second, Yellow: time.Second, Red: time.Second}
	_, err = c.Create("second", "Second Ave", &bad)
	assert.Equal(t, ErrCodeInvalidConfiguration, CodeOf(err))
	assert.Equal(t, 1, c.Registry().Len(), "failed create must not register anything")
}

func TestController_GetAndList(t *testing.T) {
	c := newTestController(t)
	_, err := c.Create("a", "A", nil)
	require.NoError(t, err)
	_, err = c.Create("b", "B", nil)
	require.NoError(t, err)

	i, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", i.ID())

	_, err = c.Get("missing")
	assert.True(t, IsNotFound(err))

	assert.Len(t, c.List(), 2)
}

func TestController_StartInitializesSafeState(t *testing.T) {
	c := newTestController(t)
	i, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)

	require.NoError(t, c.Start("main-first"))

	assert.Equal(t, ModeRunning, i.Mode())
	assertSnapshot(t, i, Green, Green, Red, Red)
	assert.False(t, i.HasConflict())
}

func TestController_StartPreconditions(t *testing.T) {
	c := newTestController(t)
	_, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)

	require.NoError(t, c.Start("main-first"))
	err = c.Start("main-first")
	assert.Equal(t, ErrCodeInvalidOperation, CodeOf(err))

	assert.True(t, IsNotFound(c.Start("missing")))
}

func TestController_PausePreconditions(t *testing.T) {
	c := newTestController(t)
	i, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)

	err = c.Pause("main-first")
	assert.Equal(t, ErrCodeInvalidOperation, CodeOf(err), "pause requires running")

	require.NoError(t, c.Start("main-first"))
	require.NoError(t, c.Pause("main-first"))
	assert.Equal(t, ModePaused, i.Mode())
}

func TestController_ResumePreconditions(t *testing.T) {
	c := newTestController(t)
	i, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)
	require.NoError(t, c.Start("main-first"))

	err = c.Resume("main-first")
	assert.Equal(t, ErrCodeInvalidOperation, CodeOf(err), "resume requires paused")

	require.NoError(t, c.Pause("main-first"))
	require.NoError(t, c.Resume("main-first"))
	assert.Equal(t, ModeRunning, i.Mode())
}

func TestController_Delete(t *testing.T) {
	c := newTestController(t)
	_, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)
	require.NoError(t, c.Start("main-first"))

	c.Scheduler().Tick()
	_, tracked := c.Scheduler().CurrentPhase("main-first")
	require.True(t, tracked)

	require.NoError(t, c.Delete("main-first"))

	_, err = c.Get("main-first")
	assert.True(t, IsNotFound(err))
	_, tracked = c.Scheduler().CurrentPhase("main-first")
	assert.False(t, tracked, "delete must reset the scheduler's phase tracking")

	assert.True(t, IsNotFound(c.Delete("main-first")))
}

func TestController_ChangeSignal(t *testing.T) {
	c := newTestController(t)
	i, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)

	snapshot, err := c.ChangeSignal("main-first", North, Green, "")
	require.NoError(t, err)
	assert.Equal(t, Green, snapshot[North])

	events := i.History()
	require.Len(t, events, 1)
	assert.Equal(t, DefaultAttribution, events[0].TriggeredBy)

	_, err = c.ChangeSignal("main-first", East, Green, "tester")
	assert.True(t, IsConflict(err))

	_, err = c.ChangeSignal("missing", North, Green, "tester")
	assert.True(t, IsNotFound(err))
}

func TestController_EmergencyStop(t *testing.T) {
	c := newTestController(t)
	i, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)
	require.NoError(t, c.Start("main-first"))
	c.Scheduler().Tick()

	require.NoError(t, c.EmergencyStop("main-first", "dispatcher"))

	assert.Equal(t, ModeEmergency, i.Mode())
	for _, d := range Directions() {
		assert.True(t, i.Signal(d).IsRed(), "%s not red after emergency stop", d)
	}
	_, tracked := c.Scheduler().CurrentPhase("main-first")
	assert.False(t, tracked, "emergency stop must reset the phase tracking")

	recent := i.RecentHistory(2)
	require.Len(t, recent, 2)
	for _, e := range recent {
		assert.Equal(t, "dispatcher (EMERGENCY)", e.TriggeredBy)
	}
}

func TestController_UpdateTiming(t *testing.T) {
	c := newTestController(t)
	i, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)

	timing := TimingConfig{Green: 15 * time.Second, Yellow: 3 * time.Second, Red: 18 * time.Second}
	require.NoError(t, c.UpdateTiming("main-first", timing))
	assert.Equal(t, timing, i.Timing())

	bad := TimingConfig{Green: 0, Yellow: 3 * time.Second, Red: 18 * time.Second}
	err = c.UpdateTiming("main-first", bad)
	assert.Equal(t, ErrCodeInvalidConfiguration, CodeOf(err))
	assert.Equal(t, timing, i.Timing(), "failed update keeps the old configuration")
}

func TestController_HistoryQueries(t *testing.T) {
	c := newTestController(t)
	_, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)

	_, err = c.ChangeSignal("main-first", North, Green, "one")
	require.NoError(t, err)
	_, err = c.ChangeSignal("main-first", East, Yellow, "two")
	require.NoError(t, err)
	_, err = c.ChangeSignal("main-first", North, Yellow, "three")
	require.NoError(t, err)

	all, err := c.History("main-first")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	north, err := c.HistoryForDirection("main-first", North)
	require.NoError(t, err)
	require.Len(t, north, 2)
	assert.Equal(t, "one", north[0].TriggeredBy)
	assert.Equal(t, "three", north[1].TriggeredBy)

	recent, err := c.RecentHistory("main-first", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "two", recent[0].TriggeredBy)

	require.NoError(t, c.ClearHistory("main-first"))
	all, err = c.History("main-first")
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = c.History("missing")
	assert.True(t, IsNotFound(err))
}

func TestController_Status(t *testing.T) {
	c := newTestController(t)
	_, err := c.Create("main-first", "Main St & First Ave", nil)
	require.NoError(t, err)

	status, err := c.Status("main-first")
	require.NoError(t, err)
	assert.Equal(t, ModePaused, status.Mode)
	assert.False(t, status.PhaseTracked)

	require.NoError(t, c.Start("main-first"))
	c.Scheduler().Tick()

	status, err = c.Status("main-first")
	require.NoError(t, err)
	assert.Equal(t, ModeRunning, status.Mode)
	assert.True(t, status.PhaseTracked)
	assert.Equal(t, PhaseNorthSouthGreen, status.Phase)
	assert.Equal(t, Green, status.Signals[North])
	assert.Greater(t, status.TimeRemaining, time.Duration(0))
}

func TestController_ObserverFanOut(t *testing.T) {
	c := newTestController(t)
	observer := NewTestObserver()

	// observers reach intersections created before and after registration
	_, err := c.Create("before", "Before", nil)
	require.NoError(t, err)
	c.AddObserver(observer)
	_, err = c.Create("after", "After", nil)
	require.NoError(t, err)

	_, err = c.ChangeSignal("before", North, Green, "t")
	require.NoError(t, err)
	_, err = c.ChangeSignal("after", North, Green, "t")
	require.NoError(t, err)

	assert.Len(t, observer.SignalChanges, 2)
}
