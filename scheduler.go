package junction

import (
	"context"
	"sync"
	"time"
)

// Phase is a named scheduler state mapping to one assignment of indications
// across all four directions. The cycle has no terminal state:
// NS_GREEN -> NS_YELLOW -> EW_GREEN -> EW_YELLOW -> NS_GREEN.
type Phase int

const (
	// PhaseNorthSouthGreen: N/S green, E/W red. Initial phase.
	PhaseNorthSouthGreen Phase = iota
	// PhaseNorthSouthYellow: N/S yellow, E/W red
	PhaseNorthSouthYellow
	// PhaseEastWestGreen: E/W green, N/S red
	PhaseEastWestGreen
	// PhaseEastWestYellow: E/W yellow, N/S red
	PhaseEastWestYellow
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseNorthSouthGreen:
		return "NORTH_SOUTH_GREEN"
	case PhaseNorthSouthYellow:
		return "NORTH_SOUTH_YELLOW"
	case PhaseEastWestGreen:
		return "EAST_WEST_GREEN"
	case PhaseEastWestYellow:
		return "EAST_WEST_YELLOW"
	default:
		return "UNKNOWN"
	}
}

// Next returns the phase that follows in the cycle
func (p Phase) Next() Phase {
	switch p {
	case PhaseNorthSouthGreen:
		return PhaseNorthSouthYellow
	case PhaseNorthSouthYellow:
		return PhaseEastWestGreen
	case PhaseEastWestGreen:
		return PhaseEastWestYellow
	default:
		return PhaseNorthSouthGreen
	}
}

// Dwell returns how long the phase holds under the given timing
// configuration. Green phases use the green duration, yellow phases the
// yellow duration. Red is never a standalone phase, so the red duration is
// not consulted.
func (p Phase) Dwell(c TimingConfig) time.Duration {
	switch p {
	case PhaseNorthSouthYellow, PhaseEastWestYellow:
		return c.Yellow
	default:
		return c.Green
	}
}

// DefaultTickInterval is the period the scheduler loop wakes up on
const DefaultTickInterval = 500 * time.Millisecond

// phaseTrack is the scheduler's auxiliary state for one intersection: the
// current phase cursor and when it started. It lives in a side table keyed
// by intersection id, never on the intersection itself, so it can be
// discarded and rebuilt without touching the intersection.
type phaseTrack struct {
	phase Phase
	start time.Time
}

// Scheduler advances the signal phases of every running intersection on a
// fixed tick. It holds no authoritative intersection state; deleting an
// intersection while the scheduler still tracks it is harmless, the stale
// track is dropped by ResetPhase or by the next tick's failed lookup.
type Scheduler struct {
	registry *Registry

	mu     sync.RWMutex
	tracks map[string]phaseTrack

	observerMu sync.RWMutex
	observers  []Observer

	// now is the clock used for dwell arithmetic, replaceable in tests
	now func() time.Time
}

// NewScheduler creates a scheduler polling the given registry
func NewScheduler(registry *Registry) *Scheduler {
	return &Scheduler{
		registry: registry,
		tracks:   make(map[string]phaseTrack),
		now:      time.Now,
	}
}

// AddObserver registers an observer for phase-change and tick-error
// notifications.
func (s *Scheduler) AddObserver(o Observer) {
	if o == nil {
		return
	}
	s.observerMu.Lock()
	defer s.observerMu.Unlock()
	s.observers = append(s.observers, o)
}

// Run drives Tick on the given interval until ctx is cancelled. A
// non-positive interval falls back to DefaultTickInterval.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick processes every running intersection once, advancing any whose
// current phase dwell has elapsed. A failure while processing one
// intersection is reported to observers and never aborts the rest of the
// tick. Intersections not in RUNNING mode are skipped with their tracked
// phase left untouched, so pausing and resuming resumes mid-phase.
func (s *Scheduler) Tick() {
	for _, i := range s.registry.All() {
		if !i.IsRunning() {
			continue
		}
		s.processIntersection(i.ID())
	}
}

// processIntersection advances one intersection's phase if its dwell has
// elapsed. The intersection is looked up by id so that a deletion racing
// with the tick surfaces as a not-found error here rather than corrupting
// anything; the stale track is dropped on that path.
func (s *Scheduler) processIntersection(id string) {
	i, err := s.registry.Get(id)
	if err != nil {
		s.ResetPhase(id)
		s.notifyTickError(id, err)
		return
	}

	track := s.ensureTrack(id)
	elapsed := s.now().Sub(track.start)
	if elapsed < track.phase.Dwell(i.Timing()) {
		return
	}

	next := track.phase.Next()
	if err := s.applyPhase(i, next); err != nil {
		s.notifyTickError(id, err)
		return
	}
	s.setTrack(id, phaseTrack{phase: next, start: s.now()})
	s.notifyPhaseChange(id, track.phase, next)
}

// ensureTrack returns the track for id, initializing a fresh cycle at
// NS_GREEN starting now when none is present.
func (s *Scheduler) ensureTrack(id string) phaseTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[id]
	if !ok {
		track = phaseTrack{phase: PhaseNorthSouthGreen, start: s.now()}
		s.tracks[id] = track
	}
	return track
}

func (s *Scheduler) setTrack(id string, track phaseTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks[id] = track
}

// applyPhase asserts the phase's signal assignment on the intersection.
// Green phases set the cross axis to RED before turning their own axis
// GREEN, so the conflict check can never trip over stale green state from
// the previous phase. Yellow phases only touch their own axis; the cross
// axis is already red and stays red.
func (s *Scheduler) applyPhase(i *Intersection, phase Phase) error {
	triggeredBy := "SCHEDULER_" + phase.String()

	assign := func(d Direction, ind Indication) error {
		_, err := i.ChangeSignal(d, ind, triggeredBy)
		return err
	}

	switch phase {
	case PhaseNorthSouthGreen:
		for _, step := range []struct {
			d   Direction
			ind Indication
		}{{East, Red}, {West, Red}, {North, Green}, {South, Green}} {
			if err := assign(step.d, step.ind); err != nil {
				return err
			}
		}
	case PhaseNorthSouthYellow:
		if err := assign(North, Yellow); err != nil {
			return err
		}
		if err := assign(South, Yellow); err != nil {
			return err
		}
	case PhaseEastWestGreen:
		for _, step := range []struct {
			d   Direction
			ind Indication
		}{{North, Red}, {South, Red}, {East, Green}, {West, Green}} {
			if err := assign(step.d, step.ind); err != nil {
				return err
			}
		}
	case PhaseEastWestYellow:
		if err := assign(East, Yellow); err != nil {
			return err
		}
		if err := assign(West, Yellow); err != nil {
			return err
		}
	}
	return nil
}

// ResetPhase discards the tracked phase for an intersection so that a later
// restart begins a fresh cycle at NS_GREEN. Called when an intersection is
// deleted or emergency-stopped.
func (s *Scheduler) ResetPhase(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tracks, id)
}

// CurrentPhase returns the tracked phase for an intersection. The second
// return value is false when the scheduler tracks no phase for the id.
func (s *Scheduler) CurrentPhase(id string) (Phase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	track, ok := s.tracks[id]
	return track.phase, ok
}

// TimeRemaining returns how long the intersection's current phase still
// holds, or zero when the id is untracked or unknown.
func (s *Scheduler) TimeRemaining(id string) time.Duration {
	i, err := s.registry.Get(id)
	if err != nil {
		return 0
	}
	s.mu.RLock()
	track, ok := s.tracks[id]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	remaining := track.phase.Dwell(i.Timing()) - s.now().Sub(track.start)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Scheduler) snapshotObservers() []Observer {
	s.observerMu.RLock()
	defer s.observerMu.RUnlock()
	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

func (s *Scheduler) notifyPhaseChange(id string, from, to Phase) {
	for _, o := range s.snapshotObservers() {
		if ext, ok := o.(ExtendedObserver); ok {
			ext.OnPhaseChange(id, from, to)
		}
	}
}

func (s *Scheduler) notifyTickError(id string, err error) {
	for _, o := range s.snapshotObservers() {
		if ext, ok := o.(ExtendedObserver); ok {
			ext.OnTickError(id, err)
		}
	}
}
