package junction

// Mode is the operational mode of an intersection. The scheduler only cycles
// intersections in ModeRunning; every other mode is left alone.
type Mode int

const (
	// ModeRunning means the intersection cycles automatically
	ModeRunning Mode = iota
	// ModePaused means automatic cycling is suspended
	ModePaused
	// ModeEmergency means an emergency stop forced all signals to red
	ModeEmergency
	// ModeMaintenance means the intersection is under manual control
	ModeMaintenance
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeRunning:
		return "RUNNING"
	case ModePaused:
		return "PAUSED"
	case ModeEmergency:
		return "EMERGENCY"
	case ModeMaintenance:
		return "MAINTENANCE"
	default:
		return "UNKNOWN"
	}
}

// Description returns a human-readable explanation of the mode
func (m Mode) Description() string {
	switch m {
	case ModeRunning:
		return "Intersection is operating normally"
	case ModePaused:
		return "Intersection operation is paused"
	case ModeEmergency:
		return "Emergency mode - all signals stopped"
	case ModeMaintenance:
		return "Under maintenance - manual control only"
	default:
		return "Unknown mode"
	}
}
