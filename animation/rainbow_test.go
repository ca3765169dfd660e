package animation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/clock"
)

func TestRainbowStep(t *testing.T) {
	sink := &recordingSink{}
	clk := clock.New(sink)
	r := NewRainbow(3, 30, 30*time.Millisecond)

	delay, err := r.Step(clk)
	assert.NoError(t, err, "Step should not fail on a healthy sink")
	assert.Equal(t, 30*time.Millisecond, delay, "Step should return the configured frame delay")

	frames := sink.Frames()
	assert.Len(t, frames, 1, "one Step should produce one frame")

	first := frames[0]
	for i, led := range first {
		assert.False(t, led.IsEmpty(), "LED %d should be lit", i)
	}
	assert.NotEqual(t, first[0], first[4], "the wheel should spread different hues over the ring")

	_, err = r.Step(clk)
	assert.NoError(t, err)
	second := sink.Frames()[1]
	assert.NotEqual(t, first, second, "the wheel should rotate between frames")
}

func TestRainbowBypassesRingBrightness(t *testing.T) {
	sink := &recordingSink{}
	clk := clock.New(sink)
	clk.SetBrightness(0)

	r := NewRainbow(3, 30, time.Millisecond)
	_, err := r.Step(clk)
	assert.NoError(t, err)

	frame := sink.Frames()[0]
	assert.False(t, frame[0].IsEmpty(), "animation frames must not be dimmed by the ring brightness")
}
