//go:build cgo

package chime

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/config"
)

var (
	paMutex       sync.Mutex
	paInitialized bool
)

const (
	sampleRate      = 44100
	framesPerBuffer = 512
	strikeHz        = 880.0
)

// Player strikes the hour as a series of short decaying tones.
type Player struct {
	device string
	volume float64

	mu      sync.Mutex
	playing bool
}

// NewPlayer creates a player for the configured output device. An empty
// device name selects the default output.
func NewPlayer(cfg config.ChimeConfig) *Player {
	return &Player{
		device: cfg.Device,
		volume: cfg.Volume,
	}
}

// Strike plays one tone per hour on the twelve hour dial, so six o'clock
// gives six strikes and midnight twelve. It returns immediately; a strike
// sequence still playing is never interrupted, the new one is dropped.
func (p *Player) Strike(hour uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		slog.Debug("Chime still playing, dropping strike", "hour", hour)
		return
	}
	p.playing = true
	go p.play(strikeCount(hour))
}

// Close releases the audio subsystem. It must be called after the last
// Strike has finished.
func (p *Player) Close() {
	paMutex.Lock()
	defer paMutex.Unlock()
	if paInitialized {
		if err := portaudio.Terminate(); err != nil {
			slog.Error("Failed to terminate portaudio", "error", err)
		} else {
			slog.Info("PortAudio terminated.")
			paInitialized = false
		}
	}
}

func (p *Player) play(strikes int) {
	defer func() {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
	}()

	paMutex.Lock()
	if !paInitialized {
		if err := portaudio.Initialize(); err != nil {
			slog.Error("Failed to initialize portaudio", "error", err)
			paMutex.Unlock()
			return
		}
		slog.Info("PortAudio initialized.")
		paInitialized = true
	}
	paMutex.Unlock()

	out := make([]float32, framesPerBuffer)
	stream, err := p.openStream(out)
	if err != nil {
		slog.Error("Failed to open audio output", "error", err)
		return
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		slog.Error("Failed to start audio output", "error", err)
		return
	}
	defer stream.Stop()

	slog.Debug("Striking the hour", "strikes", strikes)
	for i := 0; i < strikes; i++ {
		if err := p.writeTone(stream, out); err != nil {
			slog.Error("Failed to write audio", "error", err)
			return
		}
		if err := p.writeSilence(stream, out); err != nil {
			slog.Error("Failed to write audio", "error", err)
			return
		}
	}
}

func (p *Player) openStream(out []float32) (*portaudio.Stream, error) {
	if p.device == "" {
		return portaudio.OpenDefaultStream(0, 1, float64(sampleRate), framesPerBuffer, out)
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("could not list audio devices: %w", err)
	}
	want := strings.ToLower(p.device)
	for _, device := range devices {
		if device.MaxOutputChannels > 0 && strings.Contains(strings.ToLower(device.Name), want) {
			params := portaudio.StreamParameters{
				Output: portaudio.StreamDeviceParameters{
					Device:   device,
					Channels: 1,
					Latency:  device.DefaultLowOutputLatency,
				},
				SampleRate:      float64(sampleRate),
				FramesPerBuffer: framesPerBuffer,
			}
			return portaudio.OpenStream(params, out)
		}
	}
	return nil, fmt.Errorf("no suitable audio output device found")
}

// writeTone plays a quarter second decaying sine tone.
func (p *Player) writeTone(stream *portaudio.Stream, out []float32) error {
	frames := sampleRate / 4
	step := 2 * math.Pi * strikeHz / sampleRate
	phase := 0.0
	written := 0
	for written < frames {
		for i := range out {
			if written+i < frames {
				decay := 1 - float64(written+i)/float64(frames)
				out[i] = float32(math.Sin(phase) * decay * p.volume)
				phase += step
			} else {
				out[i] = 0
			}
		}
		if err := stream.Write(); err != nil {
			return err
		}
		written += len(out)
	}
	return nil
}

// writeSilence keeps the stream fed for a quarter second between tones.
func (p *Player) writeSilence(stream *portaudio.Stream, out []float32) error {
	frames := sampleRate / 4
	for i := range out {
		out[i] = 0
	}
	for written := 0; written < frames; written += len(out) {
		if err := stream.Write(); err != nil {
			return err
		}
	}
	return nil
}
