package junction

import "sync"

// TestObserver is a recording observer for tests that captures all
// notifications it receives.
type TestObserver struct {
	mutex          sync.RWMutex
	SignalChanges  []SignalChangeNotification
	ModeChanges    []ModeChangeNotification
	PhaseChanges   []PhaseChangeNotification
	TickErrors     []TickErrorNotification
	EmergencyStops []string
}

// SignalChangeNotification records one OnSignalChange call
type SignalChangeNotification struct {
	IntersectionID string
	Event          ChangeEvent
}

// ModeChangeNotification records one OnModeChange call
type ModeChangeNotification struct {
	IntersectionID string
	From           Mode
	To             Mode
}

// PhaseChangeNotification records one OnPhaseChange call
type PhaseChangeNotification struct {
	IntersectionID string
	From           Phase
	To             Phase
}

// TickErrorNotification records one OnTickError call
type TickErrorNotification struct {
	IntersectionID string
	Err            error
}

// NewTestObserver creates an empty recording observer
func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

// OnSignalChange records the notification
func (o *TestObserver) OnSignalChange(intersectionID string, event ChangeEvent) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.SignalChanges = append(o.SignalChanges, SignalChangeNotification{intersectionID, event})
}

// OnModeChange records the notification
func (o *TestObserver) OnModeChange(intersectionID string, from, to Mode) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.ModeChanges = append(o.ModeChanges, ModeChangeNotification{intersectionID, from, to})
}

// OnPhaseChange records the notification
func (o *TestObserver) OnPhaseChange(intersectionID string, from, to Phase) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.PhaseChanges = append(o.PhaseChanges, PhaseChangeNotification{intersectionID, from, to})
}

// OnTickError records the notification
func (o *TestObserver) OnTickError(intersectionID string, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.TickErrors = append(o.TickErrors, TickErrorNotification{intersectionID, err})
}

// OnEmergencyStop records the notification
func (o *TestObserver) OnEmergencyStop(intersectionID string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.EmergencyStops = append(o.EmergencyStops, intersectionID)
}

// PhaseChangeCount returns the number of recorded phase changes
func (o *TestObserver) PhaseChangeCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.PhaseChanges)
}

// TickErrorCount returns the number of recorded tick errors
func (o *TestObserver) TickErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.TickErrors)
}
