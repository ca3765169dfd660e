package animation

import (
	"time"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/clock"
)

// sweep phases, in display order
const (
	phaseHour = iota
	phaseMinute
	phaseSecond
)

// Sweep walks a single hand around the ring, one phase per hand: the
// hour hand from 1 to 12, then the minute hand from 0 to 55 in steps of
// five, then the second hand the same way. After the last phase it
// starts over. Each phase has its own frame delay so the hour hand can
// move slower than the faster hands.
type Sweep struct {
	hourDelay   time.Duration
	minuteDelay time.Duration
	secondDelay time.Duration

	phase int
	pos   int
}

// NewSweep creates the sequential sweep style.
func NewSweep(hourDelay, minuteDelay, secondDelay time.Duration) *Sweep {
	return &Sweep{
		hourDelay:   hourDelay,
		minuteDelay: minuteDelay,
		secondDelay: secondDelay,
	}
}

// Step shows the current hand at its current position and advances,
// rolling over into the next phase after a full turn.
func (s *Sweep) Step(c *clock.Clock) (time.Duration, error) {
	var err error
	var delay time.Duration
	switch s.phase {
	case phaseHour:
		err = c.SetHour(uint8(s.pos + 1))
		delay = s.hourDelay
	case phaseMinute:
		err = c.SetMinute(uint8(s.pos * 5))
		delay = s.minuteDelay
	default:
		err = c.SetSecond(uint8(s.pos * 5))
		delay = s.secondDelay
	}

	s.pos++
	if s.pos == clock.NumLeds {
		s.pos = 0
		s.phase = (s.phase + 1) % 3
	}
	return delay, err
}
