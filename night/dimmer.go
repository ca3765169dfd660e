// Package night lowers the ring brightness between sunset and sunrise
// so the clock does not light up the room while everyone sleeps.
package night

import (
	"log/slog"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/clock"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/config"
)

// Dimmer switches the ring between its day and night brightness at
// sunrise and sunset, computed for the configured location.
type Dimmer struct {
	clk             *clock.Clock
	latitude        float64
	longitude       float64
	dayBrightness   byte
	nightBrightness byte

	stop chan struct{}
	done chan struct{}
}

// NewDimmer creates a dimmer for clk. dayBrightness is what the ring
// returns to after sunrise.
func NewDimmer(clk *clock.Clock, cfg config.NightDimmerConfig, dayBrightness byte) *Dimmer {
	return &Dimmer{
		clk:             clk,
		latitude:        cfg.Latitude,
		longitude:       cfg.Longitude,
		dayBrightness:   dayBrightness,
		nightBrightness: byte(cfg.NightBrightness),
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
}

// Start launches the dimmer loop. The current day or night brightness is
// applied right away.
func (d *Dimmer) Start() {
	go d.run()
}

// Stop terminates the dimmer loop and waits for it to exit. It must be
// called exactly once.
func (d *Dimmer) Stop() {
	close(d.stop)
	<-d.done
}

func (d *Dimmer) run() {
	defer close(d.done)
	for {
		now := time.Now()
		night, until := nextChange(d.latitude, d.longitude, now)
		d.apply(night)
		slog.Info("Ring brightness follows daylight", "night", night, "until", until)

		wait := time.Until(until)
		// Polar days yield zero times from the sunrise computation; never
		// sleep a negative duration, re-check once a minute instead.
		if wait < time.Minute {
			wait = time.Minute
		}
		timer := time.NewTimer(wait)
		select {
		case <-d.stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// apply sets the brightness for the given phase and redraws whatever the
// ring currently shows.
func (d *Dimmer) apply(night bool) {
	b := d.dayBrightness
	if night {
		b = d.nightBrightness
	}
	d.clk.SetBrightness(b)
	if err := d.clk.Redraw(); err != nil {
		slog.Warn("Failed to redraw after brightness change", "error", err)
	}
}

// nextChange reports whether now falls into the night and when the next
// day/night switch is due.
func nextChange(latitude, longitude float64, now time.Time) (night bool, until time.Time) {
	rise, set := sunrise.SunriseSunset(latitude, longitude, now.Year(), now.Month(), now.Day())
	switch {
	case now.After(rise) && now.Before(set):
		return false, set
	case now.Before(rise):
		return true, rise
	default:
		// In the night before midnight, the next switch is tomorrow's
		// sunrise.
		next := now.Add(24 * time.Hour)
		riseNext, _ := sunrise.SunriseSunset(latitude, longitude, next.Year(), next.Month(), next.Day())
		return true, riseNext
	}
}
