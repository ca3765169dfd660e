package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLed_IsEmpty(t *testing.T) {
	led := Led{Red: 0, Green: 0, Blue: 0}
	assert.True(t, led.IsEmpty(), "IsEmpty should be true for a zero Led")

	led = Led{Red: 1, Green: 0, Blue: 0}
	assert.False(t, led.IsEmpty(), "IsEmpty should be false for a non-zero Led")
}

func TestLed_Scale(t *testing.T) {
	led := Led{Red: 128, Green: 64, Blue: 32}

	assert.Equal(t, Led{}, led.Scale(0), "scaling by 0 should give the zero color")
	assert.Equal(t, led, led.Scale(1), "scaling by 1 should be the identity")
	assert.Equal(t, Led{Red: 255, Green: 192, Blue: 96}, led.Scale(3),
		"channels must saturate at 255 independently")
	assert.Equal(t, Led{Red: 255, Green: 255, Blue: 255},
		Led{Red: 255, Green: 255, Blue: 255}.Scale(255),
		"maximum input times maximum factor must stay at 255")
}

func TestLed_Add(t *testing.T) {
	a := Led{Red: 200, Green: 200, Blue: 200}
	b := Led{Red: 100, Green: 100, Blue: 100}

	assert.Equal(t, Led{Red: 255, Green: 255, Blue: 255}, a.Add(b),
		"overflowing channels must clamp at 255")
	assert.Equal(t, a.Add(b), b.Add(a), "Add should be commutative")

	c := Led{Red: 10, Green: 20, Blue: 30}
	assert.Equal(t, c, c.Add(Led{}), "adding the zero color should be the identity")
	assert.Equal(t, Led{Red: 11, Green: 21, Blue: 31}, c.Add(Led{Red: 1, Green: 1, Blue: 1}))
}

func TestLed_ScaleNeverOverflows(t *testing.T) {
	// Spot-check the full channel range against the reference formula.
	for v := 0; v <= 255; v += 5 {
		for f := 0; f <= 255; f += 5 {
			got := Led{Red: byte(v)}.Scale(byte(f)).Red
			want := v * f
			if want > 255 {
				want = 255
			}
			assert.Equal(t, byte(want), got, "Scale(%d) of channel %d", f, v)
		}
	}
}
