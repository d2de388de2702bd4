package junction

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Signal is a single directional traffic light. The direction is fixed at
// construction; the indication, the previous indication, and the time of the
// last change are each held in their own atomic cell so that changes from
// concurrent callers never take a lock and never lose an update.
type Signal struct {
	direction  Direction
	current    atomic.Int32
	previous   atomic.Pointer[Indication]
	lastChange atomic.Pointer[time.Time]
}

// NewSignal creates a signal for the given direction showing RED
func NewSignal(direction Direction) *Signal {
	return NewSignalWithIndication(direction, Red)
}

// NewSignalWithIndication creates a signal showing the given initial indication
func NewSignalWithIndication(direction Direction, initial Indication) *Signal {
	s := &Signal{direction: direction}
	s.current.Store(int32(initial))
	now := time.Now()
	s.lastChange.Store(&now)
	return s
}

// Direction returns the direction this signal controls
func (s *Signal) Direction() Direction {
	return s.direction
}

// Current returns the indication the signal is showing now
func (s *Signal) Current() Indication {
	return Indication(s.current.Load())
}

// Previous returns the indication shown before the last change. The second
// return value is false until the first change occurs.
func (s *Signal) Previous() (Indication, bool) {
	p := s.previous.Load()
	if p == nil {
		return Red, false
	}
	return *p, true
}

// LastChange returns the time of the most recent indication change
func (s *Signal) LastChange() time.Time {
	return *s.lastChange.Load()
}

// DurationInCurrentState returns how long the signal has shown its current
// indication. The value is derived from the monotonic clock reading carried
// by the stored change time, so wall-clock adjustments do not affect it.
func (s *Signal) DurationInCurrentState() time.Duration {
	d := time.Since(s.LastChange())
	if d < 0 {
		return 0
	}
	return d
}

// Change sets the signal to next and returns the indication shown before the
// call. Setting the indication the signal already shows is a no-op: the
// previous indication and last-change time are left untouched. The swap uses
// a compare-and-retry loop on the indication cell.
func (s *Signal) Change(next Indication) Indication {
	for {
		cur := Indication(s.current.Load())
		if cur == next {
			return cur
		}
		if s.current.CompareAndSwap(int32(cur), int32(next)) {
			prev := cur
			s.previous.Store(&prev)
			now := time.Now()
			s.lastChange.Store(&now)
			return cur
		}
	}
}

// Advance moves the signal to the next indication in the normal sequence
// and returns the indication shown before the call.
func (s *Signal) Advance() Indication {
	return s.Change(s.Current().Next())
}

// IsGreen reports whether the signal currently shows GREEN
func (s *Signal) IsGreen() bool {
	return s.Current() == Green
}

// IsYellow reports whether the signal currently shows YELLOW
func (s *Signal) IsYellow() bool {
	return s.Current() == Yellow
}

// IsRed reports whether the signal currently shows RED
func (s *Signal) IsRed() bool {
	return s.Current() == Red
}

// String returns a readable description of the signal
func (s *Signal) String() string {
	return fmt.Sprintf("Signal{direction=%s, indication=%s, lastChange=%s}",
		s.direction, s.Current(), s.LastChange().Format(time.RFC3339))
}
