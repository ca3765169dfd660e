//go:build !cgo

package chime

import (
	"log/slog"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/config"
)

// Player is a stub implementation for environments where CGO is disabled.
type Player struct{}

// NewPlayer returns a stub player that logs a warning.
func NewPlayer(cfg config.ChimeConfig) *Player {
	slog.Warn("Chime: audio support is disabled in this build (requires CGO).")
	return &Player{}
}

// Strike does nothing in builds without audio support.
func (p *Player) Strike(hour uint8) {
	slog.Debug("Chime: no audio support, skipping strike", "hour", hour)
}

// Close does nothing in builds without audio support.
func (p *Player) Close() {}
