package junction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChangeEvent is an immutable record of one signal transition. Events are
// appended to an intersection's history in order of occurrence.
type ChangeEvent struct {
	// ID uniquely identifies the event
	ID uuid.UUID
	// IntersectionID is the id of the intersection the change happened at
	IntersectionID string
	// Direction is the approach whose signal changed
	Direction Direction
	// From is the indication shown before the change
	From Indication
	// To is the indication shown after the change
	To Indication
	// Timestamp is when the change was recorded
	Timestamp time.Time
	// PreviousDuration is how long the signal had shown From
	PreviousDuration time.Duration
	// TriggeredBy attributes the change to its cause: a caller identity,
	// a scheduler phase name, or an emergency marker
	TriggeredBy string
}

// NewChangeEvent creates a change event with a generated ID and the current
// time as its timestamp.
func NewChangeEvent(intersectionID string, direction Direction, from, to Indication, previousDuration time.Duration, triggeredBy string) ChangeEvent {
	return ChangeEvent{
		ID:               uuid.New(),
		IntersectionID:   intersectionID,
		Direction:        direction,
		From:             from,
		To:               to,
		Timestamp:        time.Now(),
		PreviousDuration: previousDuration,
		TriggeredBy:      triggeredBy,
	}
}

// String returns a readable description of the event
func (e ChangeEvent) String() string {
	return fmt.Sprintf("ChangeEvent{intersection=%s, direction=%s, %s->%s, triggeredBy=%s}",
		e.IntersectionID, e.Direction, e.From, e.To, e.TriggeredBy)
}
