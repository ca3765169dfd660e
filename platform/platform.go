// Package platform abstracts the physical ring away from the rest of
// the application: the same clock code drives either the real LED
// hardware on the SPI bus or a terminal simulation.
package platform

import (
	"os"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/clock"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/config"
)

// Platform defines the interface for abstracting away the real hardware
// from the TUI simulation.
type Platform interface {
	// Start initializes the platform (e.g., opens SPI, or starts the TUI).
	Start() error

	// Stop cleans up all platform resources.
	Stop()

	// Display sends a complete frame to the output device.
	Display(frame clock.Frame) error

	// Ready returns a channel that is closed once the platform can
	// accept frames and carry the log output.
	Ready() <-chan bool
}

// NewPlatform creates the platform matching the deployment mode: the
// real SPI hardware when real is set, the terminal simulation otherwise.
func NewPlatform(conf *config.Config, real bool, ossignal chan os.Signal) Platform {
	if real {
		return NewRaspberryPiPlatform(conf)
	}
	return NewTUIPlatform(conf, ossignal)
}
