package junction

// Observer receives notifications about intersection state changes
type Observer interface {
	// OnSignalChange is called after a signal change has been recorded
	OnSignalChange(intersectionID string, event ChangeEvent)

	// OnModeChange is called when an intersection's mode changes
	OnModeChange(intersectionID string, from, to Mode)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnPhaseChange is called when the scheduler advances an
	// intersection's phase
	OnPhaseChange(intersectionID string, from, to Phase)

	// OnTickError is called when the scheduler fails to process one
	// intersection during a tick
	OnTickError(intersectionID string, err error)

	// OnEmergencyStop is called after an emergency stop has completed
	OnEmergencyStop(intersectionID string)
}

// BaseObserver provides a default implementation with no-op methods.
// Embed it to implement only the notifications of interest.
type BaseObserver struct{}

// OnSignalChange implements the required Observer method
func (o *BaseObserver) OnSignalChange(intersectionID string, event ChangeEvent) {
	// Default implementation - no operation
}

// OnModeChange implements the required Observer method
func (o *BaseObserver) OnModeChange(intersectionID string, from, to Mode) {
	// Default implementation - no operation
}

// OnPhaseChange implements the optional ExtendedObserver method
func (o *BaseObserver) OnPhaseChange(intersectionID string, from, to Phase) {
	// Default implementation - no operation
}

// OnTickError implements the optional ExtendedObserver method
func (o *BaseObserver) OnTickError(intersectionID string, err error) {
	// Default implementation - no operation
}

// OnEmergencyStop implements the optional ExtendedObserver method
func (o *BaseObserver) OnEmergencyStop(intersectionID string) {
	// Default implementation - no operation
}
