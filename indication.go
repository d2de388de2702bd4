package junction

// Indication is the displayed color state of one direction's signal.
type Indication int

const (
	// Red requires traffic to stop
	Red Indication = iota
	// Yellow warns that the signal is about to turn red
	Yellow
	// Green permits traffic to proceed
	Green
)

// String returns the indication name
func (i Indication) String() string {
	switch i {
	case Red:
		return "RED"
	case Yellow:
		return "YELLOW"
	case Green:
		return "GREEN"
	default:
		return "UNKNOWN"
	}
}

// Description returns a human-readable explanation of the indication
func (i Indication) Description() string {
	switch i {
	case Red:
		return "Stop - Do not proceed"
	case Yellow:
		return "Caution - Prepare to stop"
	case Green:
		return "Go - Proceed with caution"
	default:
		return "Unknown indication"
	}
}

// Next returns the successor in the normal signal sequence.
// GREEN -> YELLOW -> RED -> GREEN, cyclic with no terminal state.
func (i Indication) Next() Indication {
	switch i {
	case Green:
		return Yellow
	case Yellow:
		return Red
	default:
		return Green
	}
}
