package junction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets scheduler tests drive dwell arithmetic deterministically
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestScheduler(t *testing.T) (*Controller, *Scheduler, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	registry := NewRegistry()
	scheduler := NewScheduler(registry)
	scheduler.now = clock.Now
	return NewController(registry, scheduler), scheduler, clock
}

func startedIntersection(t *testing.T, c *Controller, id string) *Intersection {
	t.Helper()
	i, err := c.Create(id, "Test "+id, nil)
	require.NoError(t, err)
	require.NoError(t, c.Start(id))
	return i
}

func assertSnapshot(t *testing.T, i *Intersection, north, south, east, west Indication) {
	t.Helper()
	snapshot := i.Snapshot()
	assert.Equal(t, north, snapshot[North], "NORTH")
	assert.Equal(t, south, snapshot[South], "SOUTH")
	assert.Equal(t, east, snapshot[East], "EAST")
	assert.Equal(t, west, snapshot[West], "WEST")
}

func TestPhase_Next(t *testing.T) {
	assert.Equal(t, PhaseNorthSouthYellow, PhaseNorthSouthGreen.Next())
	assert.Equal(t, PhaseEastWestGreen, PhaseNorthSouthYellow.Next())
	assert.Equal(t, PhaseEastWestYellow, PhaseEastWestGreen.Next())
	assert.Equal(t, PhaseNorthSouthGreen, PhaseEastWestYellow.Next())
}

func TestPhase_Dwell(t *testing.T) {
	c := TimingConfig{Green: 20 * time.Second, Yellow: 3 * time.Second, Red: 23 * time.Second}

	assert.Equal(t, c.Green, PhaseNorthSouthGreen.Dwell(c))
	assert.Equal(t, c.Green, PhaseEastWestGreen.Dwell(c))
	assert.Equal(t, c.Yellow, PhaseNorthSouthYellow.Dwell(c))
	assert.Equal(t, c.Yellow, PhaseEastWestYellow.Dwell(c))
}

func TestScheduler_FirstTickInitializesPhase(t *testing.T) {
	c, s, _ := newTestScheduler(t)
	i := startedIntersection(t, c, "main-first")

	_, tracked := s.CurrentPhase("main-first")
	assert.False(t, tracked, "no phase before first tick")

	s.Tick()

	phase, tracked := s.CurrentPhase("main-first")
	require.True(t, tracked)
	assert.Equal(t, PhaseNorthSouthGreen, phase)
	// dwell has not elapsed, signals keep the safe start assignment
	assertSnapshot(t, i, Green, Green, Red, Red)
}

func TestScheduler_TickBeforeDwellDoesNothing(t *testing.T) {
	c, s, clock := newTestScheduler(t)
	startedIntersection(t, c, "main-first")

	s.Tick()
	clock.Advance(DefaultGreenDuration - time.Second)
	s.Tick()

	phase, _ := s.CurrentPhase("main-first")
	assert.Equal(t, PhaseNorthSouthGreen, phase)
}

func TestScheduler_AdvancesToYellowAfterGreenDwell(t *testing.T) {
	c, s, clock := newTestScheduler(t)
	i := startedIntersection(t, c, "main-first")
	observer := NewTestObserver()
	s.AddObserver(observer)

	s.Tick()
	clock.Advance(DefaultGreenDuration)
	s.Tick()

	phase, _ := s.CurrentPhase("main-first")
	assert.Equal(t, PhaseNorthSouthYellow, phase)
	assertSnapshot(t, i, Yellow, Yellow, Red, Red)

	require.Equal(t, 1, observer.PhaseChangeCount())
	change := observer.PhaseChanges[0]
	assert.Equal(t, PhaseNorthSouthGreen, change.From)
	assert.Equal(t, PhaseNorthSouthYellow, change.To)
}

func TestScheduler_FullCycle(t *testing.T) {
	c, s, clock := newTestScheduler(t)
	i := startedIntersection(t, c, "main-first")

	s.Tick() // init NS_GREEN

	clock.Advance(DefaultGreenDuration)
	s.Tick()
	assertSnapshot(t, i, Yellow, Yellow, Red, Red)

	clock.Advance(DefaultYellowDuration)
	s.Tick()
	phase, _ := s.CurrentPhase("main-first")
	assert.Equal(t, PhaseEastWestGreen, phase)
	assertSnapshot(t, i, Red, Red, Green, Green)

	clock.Advance(DefaultGreenDuration)
	s.Tick()
	assertSnapshot(t, i, Red, Red, Yellow, Yellow)

	clock.Advance(DefaultYellowDuration)
	s.Tick()
	phase, _ = s.CurrentPhase("main-first")
	assert.Equal(t, PhaseNorthSouthGreen, phase)
	assertSnapshot(t, i, Green, Green, Red, Red)

	assert.False(t, i.HasConflict())
}

func TestScheduler_PauseResumeKeepsPhase(t *testing.T) {
	c, s, clock := newTestScheduler(t)
	i := startedIntersection(t, c, "main-first")

	s.Tick()
	clock.Advance(DefaultGreenDuration / 2)
	require.NoError(t, c.Pause("main-first"))

	// while paused the scheduler skips the intersection but keeps its track
	clock.Advance(DefaultGreenDuration)
	s.Tick()
	phase, tracked := s.CurrentPhase("main-first")
	require.True(t, tracked, "pausing must not discard the tracked phase")
	assert.Equal(t, PhaseNorthSouthGreen, phase)
	assertSnapshot(t, i, Green, Green, Red, Red)

	// resuming continues the same timer rather than restarting the cycle
	require.NoError(t, c.Resume("main-first"))
	s.Tick()
	phase, _ = s.CurrentPhase("main-first")
	assert.Equal(t, PhaseNorthSouthYellow, phase)
	assertSnapshot(t, i, Yellow, Yellow, Red, Red)
}

func TestScheduler_SkipsNonRunningModes(t *testing.T) {
	c, s, clock := newTestScheduler(t)
	i := startedIntersection(t, c, "main-first")
	i.SetMode(ModeMaintenance)

	clock.Advance(DefaultGreenDuration * 2)
	s.Tick()

	_, tracked := s.CurrentPhase("main-first")
	assert.False(t, tracked, "non-running intersection must not be initialized")
}

func TestScheduler_ResetPhase(t *testing.T) {
	c, s, clock := newTestScheduler(t)
	startedIntersection(t, c, "main-first")

	s.Tick()
	clock.Advance(DefaultGreenDuration)
	s.Tick()

	s.ResetPhase("main-first")

	_, tracked := s.CurrentPhase("main-first")
	assert.False(t, tracked)
	assert.Equal(t, time.Duration(0), s.TimeRemaining("main-first"))

	// next tick begins a fresh cycle at NS_GREEN
	s.Tick()
	phase, tracked := s.CurrentPhase("main-first")
	require.True(t, tracked)
	assert.Equal(t, PhaseNorthSouthGreen, phase)
}

func TestScheduler_TimeRemaining(t *testing.T) {
	c, s, clock := newTestScheduler(t)
	startedIntersection(t, c, "main-first")

	s.Tick()
	clock.Advance(10 * time.Second)

	assert.Equal(t, DefaultGreenDuration-10*time.Second, s.TimeRemaining("main-first"))

	clock.Advance(DefaultGreenDuration)
	assert.Equal(t, time.Duration(0), s.TimeRemaining("main-first"))
	assert.Equal(t, time.Duration(0), s.TimeRemaining("unknown"))
}

func TestScheduler_DeletedIntersectionIsIsolated(t *testing.T) {
	c, s, clock := newTestScheduler(t)
	startedIntersection(t, c, "doomed")
	survivor := startedIntersection(t, c, "survivor")
	observer := NewTestObserver()
	s.AddObserver(observer)

	s.Tick()

	// delete behind the scheduler's back, leaving a stale track
	require.NoError(t, c.Registry().Remove("doomed"))
	_, tracked := s.CurrentPhase("doomed")
	require.True(t, tracked)

	// the failed lookup is reported, cleans up the track, and does not
	// disturb other intersections
	s.processIntersection("doomed")

	require.Equal(t, 1, observer.TickErrorCount())
	assert.True(t, IsNotFound(observer.TickErrors[0].Err))
	_, tracked = s.CurrentPhase("doomed")
	assert.False(t, tracked)

	clock.Advance(DefaultGreenDuration)
	s.Tick()
	assertSnapshot(t, survivor, Yellow, Yellow, Red, Red)
}

func TestScheduler_TracksIntersectionsIndependently(t *testing.T) {
	c, s, clock := newTestScheduler(t)
	fast := startedIntersection(t, c, "fast")
	slow := startedIntersection(t, c, "slow")
	require.NoError(t, fast.SetTiming(TimingConfig{
		Green:  5 * time.Second,
		Yellow: time.Second,
		Red:    6 * time.Second,
	}))

	s.Tick()
	clock.Advance(5 * time.Second)
	s.Tick()

	fastPhase, _ := s.CurrentPhase("fast")
	slowPhase, _ := s.CurrentPhase("slow")
	assert.Equal(t, PhaseNorthSouthYellow, fastPhase)
	assert.Equal(t, PhaseNorthSouthGreen, slowPhase)
	assertSnapshot(t, fast, Yellow, Yellow, Red, Red)
	assertSnapshot(t, slow, Green, Green, Red, Red)
}

func TestScheduler_SchedulerAttributionRecorded(t *testing.T) {
	c, s, clock := newTestScheduler(t)
	i := startedIntersection(t, c, "main-first")

	s.Tick()
	clock.Advance(DefaultGreenDuration)
	s.Tick()

	recent := i.RecentHistory(2)
	require.Len(t, recent, 2)
	for _, e := range recent {
		assert.Equal(t, "SCHEDULER_NORTH_SOUTH_YELLOW", e.TriggeredBy)
	}
}

func TestScheduler_RunLoop(t *testing.T) {
	registry := NewRegistry()
	s := NewScheduler(registry)
	c := NewController(registry, s)

	timing := TimingConfig{Green: 10 * time.Millisecond, Yellow: 10 * time.Millisecond, Red: 20 * time.Millisecond}
	_, err := c.Create("main-first", "Main St & First Ave", &timing)
	require.NoError(t, err)
	require.NoError(t, c.Start("main-first"))

	observer := NewTestObserver()
	s.AddObserver(observer)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	s.Run(ctx, 5*time.Millisecond)

	assert.GreaterOrEqual(t, observer.PhaseChangeCount(), 4, "expected at least one full cycle")
	i, err := registry.Get("main-first")
	require.NoError(t, err)
	assert.False(t, i.HasConflict())
}
