// Package clock holds the state model of the 12-LED ring: the mapping
// from wall-clock time to ring positions, the saturating color algebra
// used to compose overlapping hands, and the tick payload decoding.
// Everything here is pure or purely in-memory; the physical display is
// reached only through the Sink interface.
package clock

import (
	"fmt"
	"log/slog"
	"sync"
)

// Hand colors and brightness the ring starts with. The channel values are
// deliberately tiny because the brightness factor multiplies them up on
// every render.
var (
	DefaultHourColor   = Led{Blue: 1}
	DefaultMinuteColor = Led{Green: 1}
	DefaultSecondColor = Led{Red: 1}
)

// DefaultBrightness is the multiplicative factor applied to every slot on
// render unless reconfigured.
const DefaultBrightness byte = 10

// Sink is the display a Clock renders to. Implementations receive exactly
// one color per ring position and may fail; the Clock propagates such
// errors to its caller without retrying.
type Sink interface {
	Display(frame Frame) error
}

// Clock is the ring state: one color slot per position, the three hand
// base colors and the brightness factor. A single instance is shared
// between the animation sequencer and the tick handler; all methods
// serialize through an internal mutex so only one of them can
// read-modify-render at a time.
type Clock struct {
	mu         sync.Mutex
	slots      Frame
	hour       Led
	minute     Led
	second     Led
	brightness byte
	sink       Sink
}

// New creates a Clock rendering to sink, with the default hand colors and
// brightness.
func New(sink Sink) *Clock {
	return &Clock{
		hour:       DefaultHourColor,
		minute:     DefaultMinuteColor,
		second:     DefaultSecondColor,
		brightness: DefaultBrightness,
		sink:       sink,
	}
}

// SetHandColors replaces the three hand base colors. The change shows up
// with the next time update.
func (c *Clock) SetHandColors(hour, minute, second Led) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hour = hour
	c.minute = minute
	c.second = second
}

// SetBrightness replaces the brightness factor applied on every render.
func (c *Clock) SetBrightness(b byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brightness = b
}

// Brightness returns the current brightness factor.
func (c *Clock) Brightness() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.brightness
}

// Clear switches all ring positions off. It does not render.
func (c *Clock) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = Frame{}
}

// SetTime displays a full time value. The slots are cleared, the hour
// color is assigned to its slot (always the first write into the empty
// slot), then the minute and second colors are blended in additively.
// Hands sharing a slot therefore show the saturating sum of their base
// colors. The composed state is rendered before returning.
func (c *Clock) SetTime(t LocalTime) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = Frame{}
	c.slots[HourIndex(t.Hour)] = c.hour
	mi := MinuteIndex(t.Minute)
	c.slots[mi] = c.slots[mi].Add(c.minute)
	si := SecondIndex(t.Second)
	c.slots[si] = c.slots[si].Add(c.second)
	return c.render()
}

// SetHour displays the hour hand alone.
func (c *Clock) SetHour(hour uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = Frame{}
	c.slots[HourIndex(hour)] = c.hour
	return c.render()
}

// SetMinute displays the minute hand alone.
func (c *Clock) SetMinute(minute uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = Frame{}
	mi := MinuteIndex(minute)
	c.slots[mi] = c.slots[mi].Add(c.minute)
	return c.render()
}

// SetSecond displays the second hand alone.
func (c *Clock) SetSecond(second uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = Frame{}
	si := SecondIndex(second)
	c.slots[si] = c.slots[si].Add(c.second)
	return c.render()
}

// SetPixels pushes a complete frame straight to the display, bypassing
// both the slot state and the brightness factor. Animation frames that
// compute their own colors use this.
func (c *Clock) SetPixels(frame Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sink.Display(frame); err != nil {
		return fmt.Errorf("failed to update display: %w", err)
	}
	return nil
}

// Redraw renders the current slot state again, e.g. after a brightness
// change or a failed render.
func (c *Clock) Redraw() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render()
}

// render scales every slot by the brightness factor and pushes the result
// to the sink. The slot state is kept on failure so the next render
// attempt shows the same time. Callers must hold c.mu.
func (c *Clock) render() error {
	var out Frame
	for i, led := range c.slots {
		out[i] = led.Scale(c.brightness)
	}
	slog.Debug("Rendering ring", "frame", fmt.Sprintf("%v", out))
	if err := c.sink.Display(out); err != nil {
		return fmt.Errorf("failed to update display: %w", err)
	}
	return nil
}
