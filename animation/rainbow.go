package animation

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/clock"
)

// Rainbow spreads a full color wheel over the ring and rotates it by a
// fixed number of degrees per frame. Frames go straight to the display,
// bypassing the ring brightness, so the style carries its own value.
type Rainbow struct {
	hue   float64
	speed float64
	value float64
	delay time.Duration
}

// NewRainbow creates the rotating rainbow style. speed is in degrees of
// hue per frame, brightness in the usual 0 to 255 range.
func NewRainbow(speed float64, brightness int, delay time.Duration) *Rainbow {
	return &Rainbow{
		speed: speed,
		value: float64(brightness) / 255.0,
		delay: delay,
	}
}

// Step renders the wheel at the current rotation and advances it.
func (r *Rainbow) Step(c *clock.Clock) (time.Duration, error) {
	var frame clock.Frame
	for i := range frame {
		hue := math.Mod(r.hue+float64(i)*(360.0/clock.NumLeds), 360.0)
		cr, cg, cb := colorful.Hsv(hue, 1, r.value).RGB255()
		frame[i] = clock.Led{Red: cr, Green: cg, Blue: cb}
	}
	r.hue = math.Mod(r.hue+r.speed, 360.0)
	return r.delay, c.SetPixels(frame)
}
