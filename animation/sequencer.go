// Package animation plays a startup animation on the ring until the
// first real time update arrives and cancels it.
package animation

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/clock"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/config"
)

// Style renders one animation frame per Step call and reports how long
// to wait before the next one. Implementations keep their own frame
// counter and are not safe for concurrent use; the Sequencer calls Step
// from a single goroutine.
type Style interface {
	Step(c *clock.Clock) (time.Duration, error)
}

// NewStyle builds the animation style selected in the configuration.
// The style names are validated when the config is read, so an unknown
// name can only mean a programming error.
func NewStyle(cfg config.AnimationConfig) Style {
	switch cfg.Style {
	case config.StyleSweep:
		return NewSweep(cfg.SweepHourDelay, cfg.SweepMinuteDelay, cfg.SweepSecondDelay)
	default:
		return NewRainbow(cfg.RainbowSpeed, cfg.RainbowBrightness, cfg.FrameDelay)
	}
}

// Sequencer runs a Style in its own goroutine until cancelled.
// Cancellation is one-way: once Cancel has been called the sequencer can
// never resume, and at most the frame already being rendered will still
// reach the display. The cancelled flag is checked before every frame.
type Sequencer struct {
	clk   *clock.Clock
	style Style

	cancelled atomic.Bool
	stop      chan struct{}
	done      chan struct{}
	once      sync.Once
}

// NewSequencer creates a sequencer that will drive clk with style.
func NewSequencer(clk *clock.Clock, style Style) *Sequencer {
	return &Sequencer{
		clk:   clk,
		style: style,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start launches the animation loop. It must be called at most once.
func (s *Sequencer) Start() {
	go s.run()
}

// Cancel stops the animation permanently. It returns immediately and may
// be called any number of times from any goroutine; waiting for the loop
// to wind down is what Done is for.
func (s *Sequencer) Cancel() {
	s.once.Do(func() {
		s.cancelled.Store(true)
		close(s.stop)
	})
}

// Cancelled reports whether Cancel has been called.
func (s *Sequencer) Cancelled() bool {
	return s.cancelled.Load()
}

// Done returns a channel that is closed once the animation loop has
// exited and no further frames will be rendered.
func (s *Sequencer) Done() <-chan struct{} {
	return s.done
}

func (s *Sequencer) run() {
	defer close(s.done)
	slog.Info("Starting animation")
	for {
		if s.cancelled.Load() {
			slog.Info("Animation cancelled")
			return
		}
		delay, err := s.style.Step(s.clk)
		if err != nil {
			// A failed frame is dropped; the animation itself keeps going.
			slog.Warn("Animation frame could not be displayed", "error", err)
		}
		timer := time.NewTimer(delay)
		select {
		case <-s.stop:
			timer.Stop()
			slog.Info("Animation cancelled")
			return
		case <-timer.C:
		}
	}
}
