package junction

import (
	"sync"
	"time"
)

// DefaultAttribution is recorded on signal changes when the caller supplies
// no attribution of its own.
const DefaultAttribution = "API_REQUEST"

// Status is a read-only projection of one intersection for reporting
type Status struct {
	ID            string
	Name          string
	Mode          Mode
	Signals       map[Direction]Indication
	Phase         Phase
	PhaseTracked  bool
	TimeRemaining time.Duration
}

// Controller is the operational facade over the registry and the scheduler.
// It enforces the mode-transition preconditions (start requires not
// running, pause requires running, resume requires paused) that the core
// state machine itself deliberately does not know about, keeps the
// scheduler's phase tracking consistent with deletions and emergency stops,
// and fans observers out to newly created intersections.
type Controller struct {
	registry  *Registry
	scheduler *Scheduler

	observerMu sync.RWMutex
	observers  []Observer
}

// NewController creates a controller over the given registry and scheduler
func NewController(registry *Registry, scheduler *Scheduler) *Controller {
	return &Controller{
		registry:  registry,
		scheduler: scheduler,
	}
}

// New wires a fresh registry, scheduler, and controller together
func New() *Controller {
	registry := NewRegistry()
	return NewController(registry, NewScheduler(registry))
}

// Registry returns the underlying intersection store
func (c *Controller) Registry() *Registry {
	return c.registry
}

// Scheduler returns the underlying phase scheduler
func (c *Controller) Scheduler() *Scheduler {
	return c.scheduler
}

// AddObserver registers an observer on the scheduler, on every existing
// intersection, and on every intersection created afterwards.
func (c *Controller) AddObserver(o Observer) {
	if o == nil {
		return
	}
	c.observerMu.Lock()
	c.observers = append(c.observers, o)
	c.observerMu.Unlock()

	c.scheduler.AddObserver(o)
	for _, i := range c.registry.All() {
		i.AddObserver(o)
	}
}

// Create registers a new intersection. A nil timing keeps the defaults.
// Fails with a duplicate-id error if the id is taken, or an
// invalid-configuration error if a timing duration is not positive; no
// state is mutated on failure.
func (c *Controller) Create(id, name string, timing *TimingConfig) (*Intersection, error) {
	i := NewIntersection(id, name)
	if timing != nil {
		if err := i.SetTiming(*timing); err != nil {
			return nil, err
		}
	}
	if err := c.registry.Add(i); err != nil {
		return nil, err
	}

	c.observerMu.RLock()
	for _, o := range c.observers {
		i.AddObserver(o)
	}
	c.observerMu.RUnlock()

	return i, nil
}

// Get returns the intersection with the given id
func (c *Controller) Get(id string) (*Intersection, error) {
	return c.registry.Get(id)
}

// List returns all registered intersections
func (c *Controller) List() []*Intersection {
	return c.registry.All()
}

// Delete removes an intersection, pausing it first if it is running, and
// discards the scheduler's phase tracking for it.
func (c *Controller) Delete(id string) error {
	i, err := c.registry.Get(id)
	if err != nil {
		return err
	}
	if i.IsRunning() {
		i.SetMode(ModePaused)
	}
	if err := c.registry.Remove(id); err != nil {
		return err
	}
	c.scheduler.ResetPhase(id)
	return nil
}

// ChangeSignal changes one direction's signal at an intersection and
// returns the resulting snapshot. An empty attribution is recorded as
// DefaultAttribution.
func (c *Controller) ChangeSignal(id string, direction Direction, next Indication, triggeredBy string) (map[Direction]Indication, error) {
	i, err := c.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if triggeredBy == "" {
		triggeredBy = DefaultAttribution
	}
	if _, err := i.ChangeSignal(direction, next, triggeredBy); err != nil {
		return nil, err
	}
	return i.Snapshot(), nil
}

// Start begins automatic operation of an intersection. Fails if it is
// already running. The intersection is put into the safe initial
// assignment, north/south green and east/west red, before the mode flips
// to RUNNING.
func (c *Controller) Start(id string) error {
	i, err := c.registry.Get(id)
	if err != nil {
		return err
	}
	if i.IsRunning() {
		return NewInvalidOperationError(id, "intersection is already running")
	}
	if err := c.initializeSafeState(i); err != nil {
		return err
	}
	i.SetMode(ModeRunning)
	return nil
}

// initializeSafeState asserts the NS_GREEN assignment: cross axis red
// first, then north/south green.
func (c *Controller) initializeSafeState(i *Intersection) error {
	const triggeredBy = "SYSTEM_START"
	for _, step := range []struct {
		d   Direction
		ind Indication
	}{{East, Red}, {West, Red}, {North, Green}, {South, Green}} {
		if _, err := i.ChangeSignal(step.d, step.ind, triggeredBy); err != nil {
			return err
		}
	}
	return nil
}

// Pause suspends automatic operation. Fails unless the intersection is
// running. The scheduler keeps its phase tracking, so a later Resume
// continues mid-phase.
func (c *Controller) Pause(id string) error {
	i, err := c.registry.Get(id)
	if err != nil {
		return err
	}
	if !i.IsRunning() {
		return NewInvalidOperationError(id, "intersection is not running")
	}
	i.SetMode(ModePaused)
	return nil
}

// Resume continues automatic operation of a paused intersection. Fails
// unless the intersection is paused.
func (c *Controller) Resume(id string) error {
	i, err := c.registry.Get(id)
	if err != nil {
		return err
	}
	if !i.IsPaused() {
		return NewInvalidOperationError(id, "intersection is not paused")
	}
	i.SetMode(ModeRunning)
	return nil
}

// EmergencyStop forces all signals of an intersection to red, puts it in
// EMERGENCY mode, and resets the scheduler's phase tracking so a later
// restart begins a fresh cycle.
func (c *Controller) EmergencyStop(id, triggeredBy string) error {
	i, err := c.registry.Get(id)
	if err != nil {
		return err
	}
	if triggeredBy == "" {
		triggeredBy = "EMERGENCY_API_CALL"
	}
	i.EmergencyStop(triggeredBy)
	c.scheduler.ResetPhase(id)
	return nil
}

// UpdateTiming replaces an intersection's timing configuration
func (c *Controller) UpdateTiming(id string, timing TimingConfig) error {
	i, err := c.registry.Get(id)
	if err != nil {
		return err
	}
	return i.SetTiming(timing)
}

// History returns the full change-event log of an intersection
func (c *Controller) History(id string) ([]ChangeEvent, error) {
	i, err := c.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return i.History(), nil
}

// HistoryForDirection returns the change events for one direction
func (c *Controller) HistoryForDirection(id string, d Direction) ([]ChangeEvent, error) {
	i, err := c.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return i.HistoryForDirection(d), nil
}

// RecentHistory returns up to count of the most recent change events
func (c *Controller) RecentHistory(id string, count int) ([]ChangeEvent, error) {
	i, err := c.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return i.RecentHistory(count), nil
}

// ClearHistory drops an intersection's change-event log
func (c *Controller) ClearHistory(id string) error {
	i, err := c.registry.Get(id)
	if err != nil {
		return err
	}
	i.ClearHistory()
	return nil
}

// Snapshot returns the current indication of each direction
func (c *Controller) Snapshot(id string) (map[Direction]Indication, error) {
	i, err := c.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return i.Snapshot(), nil
}

// Status returns the reporting projection for an intersection, combining
// its own state with the scheduler's phase tracking.
func (c *Controller) Status(id string) (Status, error) {
	i, err := c.registry.Get(id)
	if err != nil {
		return Status{}, err
	}
	phase, tracked := c.scheduler.CurrentPhase(id)
	return Status{
		ID:            i.ID(),
		Name:          i.Name(),
		Mode:          i.Mode(),
		Signals:       i.Snapshot(),
		Phase:         phase,
		PhaseTracked:  tracked,
		TimeRemaining: c.scheduler.TimeRemaining(id),
	}, nil
}
