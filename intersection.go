package junction

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// maxHistorySize bounds the change-event log of an intersection. When an
// append pushes the log past this size the oldest entries are evicted.
const maxHistorySize = 1000

// Intersection aggregates the four directional signals of one road crossing,
// its operational mode, a bounded change-event history, and its timing
// configuration. All signal mutations route through ChangeSignal, which is
// the single point where green transitions are validated against the
// conflict table. Safe for concurrent use: each signal is updated through
// its own atomic cells, the history has a write-exclusive/read-shared lock,
// and no lock is ever taken across all four signals.
type Intersection struct {
	id        string
	name      string
	signals   [numDirections]*Signal
	mode      atomic.Int32
	createdAt time.Time

	lastModified atomic.Pointer[time.Time]

	historyMu sync.RWMutex
	history   []ChangeEvent

	timingMu sync.RWMutex
	timing   TimingConfig

	observerMu sync.RWMutex
	observers  []Observer
}

// NewIntersection creates an intersection with the given id and name. All
// four signals start RED, the mode starts PAUSED, and the timing
// configuration starts at the defaults.
func NewIntersection(id, name string) *Intersection {
	i := &Intersection{
		id:        id,
		name:      name,
		createdAt: time.Now(),
		timing:    DefaultTimingConfig(),
	}
	i.mode.Store(int32(ModePaused))
	i.lastModified.Store(&i.createdAt)
	for _, d := range Directions() {
		i.signals[d] = NewSignal(d)
	}
	return i
}

// ID returns the unique identifier of the intersection
func (i *Intersection) ID() string {
	return i.id
}

// Name returns the human-readable name of the intersection
func (i *Intersection) Name() string {
	return i.name
}

// CreatedAt returns when the intersection was created
func (i *Intersection) CreatedAt() time.Time {
	return i.createdAt
}

// LastModifiedAt returns when a mode, signal, or timing mutation last
// touched the intersection.
func (i *Intersection) LastModifiedAt() time.Time {
	return *i.lastModified.Load()
}

func (i *Intersection) touch() {
	now := time.Now()
	i.lastModified.Store(&now)
}

// Signal returns the signal for the given direction
func (i *Intersection) Signal(d Direction) *Signal {
	return i.signals[d]
}

// Mode returns the current operational mode
func (i *Intersection) Mode() Mode {
	return Mode(i.mode.Load())
}

// SetMode sets the operational mode. The core accepts any mode value;
// transition preconditions such as "pause requires running" belong to the
// controller.
func (i *Intersection) SetMode(m Mode) {
	old := Mode(i.mode.Swap(int32(m)))
	i.touch()
	if old != m {
		i.notifyModeChange(old, m)
	}
}

// IsRunning reports whether the intersection is in RUNNING mode
func (i *Intersection) IsRunning() bool {
	return i.Mode() == ModeRunning
}

// IsPaused reports whether the intersection is in PAUSED mode
func (i *Intersection) IsPaused() bool {
	return i.Mode() == ModePaused
}

// Timing returns the current timing configuration
func (i *Intersection) Timing() TimingConfig {
	i.timingMu.RLock()
	defer i.timingMu.RUnlock()
	return i.timing
}

// SetTiming replaces the timing configuration. The existing configuration
// is left unchanged if any duration is not strictly positive.
func (i *Intersection) SetTiming(c TimingConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	i.timingMu.Lock()
	i.timing = c
	i.timingMu.Unlock()
	i.touch()
	return nil
}

// SetGreenDuration updates the green dwell duration
func (i *Intersection) SetGreenDuration(d time.Duration) error {
	c := i.Timing()
	c.Green = d
	return i.SetTiming(c)
}

// SetYellowDuration updates the yellow dwell duration
func (i *Intersection) SetYellowDuration(d time.Duration) error {
	c := i.Timing()
	c.Yellow = d
	return i.SetTiming(c)
}

// SetRedDuration updates the informational red duration
func (i *Intersection) SetRedDuration(d time.Duration) error {
	c := i.Timing()
	c.Red = d
	return i.SetTiming(c)
}

// ValidateNoConflict returns a conflict error if setting the given direction
// to GREEN would coexist with a conflicting direction that is already GREEN.
func (i *Intersection) ValidateNoConflict(direction Direction) error {
	for _, other := range Directions() {
		if direction.ConflictsWith(other) && i.signals[other].IsGreen() {
			return NewConflictError(i.id, direction, other)
		}
	}
	return nil
}

// HasConflict reports whether any two directions currently showing GREEN
// conflict with each other. This is a diagnostic scan; enforcement happens
// in ChangeSignal at the moment of a green transition.
func (i *Intersection) HasConflict() bool {
	var greens []Direction
	for _, d := range Directions() {
		if i.signals[d].IsGreen() {
			greens = append(greens, d)
		}
	}
	for a := 0; a < len(greens); a++ {
		for b := a + 1; b < len(greens); b++ {
			if greens[a].ConflictsWith(greens[b]) {
				return true
			}
		}
	}
	return false
}

// ChangeSignal is the single mutation entry point for all signal changes.
// A transition to GREEN is validated against the conflict table first and
// fails with no partial effect. On success the prior indication and its
// dwell are captured, the signal is changed, a change event is appended to
// the bounded history, and the modification time is stamped. The prior
// indication is returned.
func (i *Intersection) ChangeSignal(direction Direction, next Indication, triggeredBy string) (Indication, error) {
	if next == Green {
		if err := i.ValidateNoConflict(direction); err != nil {
			return i.signals[direction].Current(), err
		}
	}

	sig := i.signals[direction]
	prior := sig.Current()
	dwell := sig.DurationInCurrentState()
	sig.Change(next)

	event := NewChangeEvent(i.id, direction, prior, next, dwell, triggeredBy)
	i.appendHistory(event)
	i.touch()
	i.notifySignalChange(event)

	return prior, nil
}

// EmergencyStop forces every signal that is not already RED to RED,
// recording each transition in the history, then sets the mode to
// EMERGENCY. Transitions to RED never require conflict validation, so this
// operation cannot fail.
func (i *Intersection) EmergencyStop(triggeredBy string) {
	for _, d := range Directions() {
		if !i.signals[d].IsRed() {
			// Red never conflicts, error is impossible here
			_, _ = i.ChangeSignal(d, Red, triggeredBy+" (EMERGENCY)")
		}
	}
	i.SetMode(ModeEmergency)
	i.notifyEmergencyStop()
}

// Snapshot returns the current indication of each direction
func (i *Intersection) Snapshot() map[Direction]Indication {
	snapshot := make(map[Direction]Indication, numDirections)
	for _, d := range Directions() {
		snapshot[d] = i.signals[d].Current()
	}
	return snapshot
}

func (i *Intersection) appendHistory(event ChangeEvent) {
	i.historyMu.Lock()
	defer i.historyMu.Unlock()
	i.history = append(i.history, event)
	if len(i.history) > maxHistorySize {
		i.history = i.history[len(i.history)-maxHistorySize:]
	}
}

// History returns a copy of the full change-event log, oldest first
func (i *Intersection) History() []ChangeEvent {
	i.historyMu.RLock()
	defer i.historyMu.RUnlock()
	out := make([]ChangeEvent, len(i.history))
	copy(out, i.history)
	return out
}

// HistoryForDirection returns the change events for one direction,
// preserving their relative order.
func (i *Intersection) HistoryForDirection(d Direction) []ChangeEvent {
	i.historyMu.RLock()
	defer i.historyMu.RUnlock()
	var out []ChangeEvent
	for _, e := range i.history {
		if e.Direction == d {
			out = append(out, e)
		}
	}
	return out
}

// RecentHistory returns up to count of the most recent change events in
// their original order. A non-positive count yields an empty result.
func (i *Intersection) RecentHistory(count int) []ChangeEvent {
	if count <= 0 {
		return nil
	}
	i.historyMu.RLock()
	defer i.historyMu.RUnlock()
	from := len(i.history) - count
	if from < 0 {
		from = 0
	}
	out := make([]ChangeEvent, len(i.history)-from)
	copy(out, i.history[from:])
	return out
}

// ClearHistory drops all recorded change events. Signal states are not
// affected.
func (i *Intersection) ClearHistory() {
	i.historyMu.Lock()
	defer i.historyMu.Unlock()
	i.history = nil
}

// HistoryLen returns the number of recorded change events
func (i *Intersection) HistoryLen() int {
	i.historyMu.RLock()
	defer i.historyMu.RUnlock()
	return len(i.history)
}

// AddObserver registers an observer for signal, mode, and emergency
// notifications on this intersection.
func (i *Intersection) AddObserver(o Observer) {
	if o == nil {
		return
	}
	i.observerMu.Lock()
	defer i.observerMu.Unlock()
	i.observers = append(i.observers, o)
}

func (i *Intersection) snapshotObservers() []Observer {
	i.observerMu.RLock()
	defer i.observerMu.RUnlock()
	out := make([]Observer, len(i.observers))
	copy(out, i.observers)
	return out
}

func (i *Intersection) notifySignalChange(event ChangeEvent) {
	for _, o := range i.snapshotObservers() {
		o.OnSignalChange(i.id, event)
	}
}

func (i *Intersection) notifyModeChange(from, to Mode) {
	for _, o := range i.snapshotObservers() {
		o.OnModeChange(i.id, from, to)
	}
}

func (i *Intersection) notifyEmergencyStop() {
	for _, o := range i.snapshotObservers() {
		if ext, ok := o.(ExtendedObserver); ok {
			ext.OnEmergencyStop(i.id)
		}
	}
}

// String returns a readable description of the intersection
func (i *Intersection) String() string {
	return fmt.Sprintf("Intersection{id=%s, name=%s, mode=%s}", i.id, i.name, i.Mode())
}
