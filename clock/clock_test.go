package clock

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingSink captures every frame pushed to it and can be told to fail.
type recordingSink struct {
	mu     sync.Mutex
	frames []Frame
	err    error
}

func (s *recordingSink) Display(frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame)
	return nil
}

func (s *recordingSink) last(t *testing.T) Frame {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		t.Fatal("no frame was rendered")
	}
	return s.frames[len(s.frames)-1]
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func TestSetTime_OverlappingHands(t *testing.T) {
	sink := &recordingSink{}
	clk := New(sink)
	clk.SetBrightness(1)

	// 06:30:30 puts all three hands on index 5.
	err := clk.SetTime(LocalTime{Hour: 6, Minute: 30, Second: 30})
	assert.NoError(t, err)

	frame := sink.last(t)
	sum := DefaultHourColor.Add(DefaultMinuteColor).Add(DefaultSecondColor)
	assert.Equal(t, sum, frame[5], "coinciding hands should add up")
	for i, led := range frame {
		if i != 5 {
			assert.True(t, led.IsEmpty(), "slot %d should be off", i)
		}
	}
}

func TestSetTime_TwelveOClock(t *testing.T) {
	sink := &recordingSink{}
	clk := New(sink)
	clk.SetBrightness(1)

	// 12:00:00 also collapses onto a single slot, index 11.
	err := clk.SetTime(LocalTime{Hour: 12})
	assert.NoError(t, err)

	frame := sink.last(t)
	assert.Equal(t, Led{Red: 1, Green: 1, Blue: 1}, frame[11],
		"the default hand colors should sum to white at 12 o'clock")
	for i := 0; i < 11; i++ {
		assert.True(t, frame[i].IsEmpty(), "slot %d should be off", i)
	}
}

func TestSetTime_DistinctSlots(t *testing.T) {
	sink := &recordingSink{}
	clk := New(sink)
	clk.SetBrightness(1)

	err := clk.SetTime(LocalTime{Hour: 1, Minute: 20, Second: 40})
	assert.NoError(t, err)

	frame := sink.last(t)
	assert.Equal(t, DefaultHourColor, frame[0], "hour 1 maps to index 0")
	assert.Equal(t, DefaultMinuteColor, frame[3], "minute 20 maps to index 3")
	assert.Equal(t, DefaultSecondColor, frame[7], "second 40 maps to index 7")
	for _, i := range []int{1, 2, 4, 5, 6, 8, 9, 10, 11} {
		assert.True(t, frame[i].IsEmpty(), "slot %d should be off", i)
	}
}

func TestSetTime_AppliesBrightness(t *testing.T) {
	sink := &recordingSink{}
	clk := New(sink)

	// Default brightness is 10, so the unit channel values become 10.
	err := clk.SetTime(LocalTime{Hour: 12})
	assert.NoError(t, err)
	assert.Equal(t, Led{Red: 10, Green: 10, Blue: 10}, sink.last(t)[11])

	clk.SetBrightness(100)
	err = clk.SetTime(LocalTime{Hour: 12})
	assert.NoError(t, err)
	assert.Equal(t, Led{Red: 100, Green: 100, Blue: 100}, sink.last(t)[11])
}

func TestClear_Idempotent(t *testing.T) {
	sink := &recordingSink{}
	clk := New(sink)

	assert.NoError(t, clk.SetTime(LocalTime{Hour: 3, Minute: 15, Second: 45}))

	clk.Clear()
	assert.NoError(t, clk.Redraw())
	assert.Equal(t, Frame{}, sink.last(t), "all slots should be off after Clear")

	clk.Clear()
	assert.NoError(t, clk.Redraw())
	assert.Equal(t, Frame{}, sink.last(t), "a second Clear should change nothing")
}

func TestSetPixels_BypassesStateAndBrightness(t *testing.T) {
	sink := &recordingSink{}
	clk := New(sink)

	var frame Frame
	frame[0] = Led{Red: 7, Green: 8, Blue: 9}
	frame[11] = Led{Red: 200}

	assert.NoError(t, clk.SetPixels(frame))
	assert.Equal(t, frame, sink.last(t), "SetPixels must forward the frame untouched")

	// The slot state was not involved: a redraw still shows the empty ring.
	assert.NoError(t, clk.Redraw())
	assert.Equal(t, Frame{}, sink.last(t))
}

func TestSetHour_SingleHand(t *testing.T) {
	sink := &recordingSink{}
	clk := New(sink)
	clk.SetBrightness(1)

	assert.NoError(t, clk.SetHour(6))
	frame := sink.last(t)
	assert.Equal(t, DefaultHourColor, frame[5])
	for i, led := range frame {
		if i != 5 {
			assert.True(t, led.IsEmpty(), "slot %d should be off", i)
		}
	}

	assert.NoError(t, clk.SetMinute(5))
	assert.Equal(t, DefaultMinuteColor, sink.last(t)[0])

	assert.NoError(t, clk.SetSecond(0))
	assert.Equal(t, DefaultSecondColor, sink.last(t)[11])
}

func TestSetTime_SinkErrorPropagated(t *testing.T) {
	sinkErr := errors.New("spi transfer failed")
	sink := &recordingSink{err: sinkErr}
	clk := New(sink)

	err := clk.SetTime(LocalTime{Hour: 6, Minute: 30, Second: 0})
	assert.Error(t, err)
	assert.ErrorIs(t, err, sinkErr, "the sink error should stay unwrappable")
	assert.ErrorContains(t, err, "failed to update display")
	assert.Equal(t, 0, sink.count(), "no frame should have been recorded")

	// The in-memory state survived the failure and renders once the sink
	// recovers.
	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()
	assert.NoError(t, clk.Redraw())
	assert.Equal(t, DefaultHourColor.Scale(DefaultBrightness), sink.last(t)[5])
}

func TestSetHandColors_TakesEffectOnNextUpdate(t *testing.T) {
	sink := &recordingSink{}
	clk := New(sink)
	clk.SetBrightness(1)

	red := Led{Red: 50}
	green := Led{Green: 60}
	blue := Led{Blue: 70}
	clk.SetHandColors(red, green, blue)

	assert.NoError(t, clk.SetTime(LocalTime{Hour: 1, Minute: 20, Second: 40}))
	frame := sink.last(t)
	assert.Equal(t, red, frame[0])
	assert.Equal(t, green, frame[3])
	assert.Equal(t, blue, frame[7])
}
