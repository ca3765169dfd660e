package platform

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/clock"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/config"
)

// RaspberryPiPlatform drives the physical ring over the SPI bus.
type RaspberryPiPlatform struct {
	conf      *config.Config
	bus       spiBus
	encoder   frameEncoder
	spiMutex  sync.Mutex
	readyChan chan bool
}

func NewRaspberryPiPlatform(conf *config.Config) *RaspberryPiPlatform {
	return &RaspberryPiPlatform{
		conf:      conf,
		readyChan: make(chan bool),
	}
}

func (s *RaspberryPiPlatform) Ready() <-chan bool {
	return s.readyChan
}

func (s *RaspberryPiPlatform) Start() error {
	slog.Info("Initialise SPI...", "backend", s.conf.Hardware.SPIBackend, "device", s.conf.Hardware.SPIDevice)

	bus, err := newSpiBus(s.conf.Hardware)
	if err != nil {
		return err
	}
	s.bus = bus

	switch strings.ToUpper(s.conf.Hardware.LEDType) {
	case config.LEDTypeAPA102:
		s.encoder = newApa102Encoder(s.conf.Hardware)
	case config.LEDTypeWS2801:
		s.encoder = newWs2801Encoder(s.conf.Hardware)
	default:
		return fmt.Errorf("unknown LED type: %s", s.conf.Hardware.LEDType)
	}

	close(s.readyChan) // For RPi, we are ready immediately.
	return nil
}

func (s *RaspberryPiPlatform) Stop() {
	s.spiMutex.Lock()
	defer s.spiMutex.Unlock()
	if s.bus != nil {
		if err := s.bus.close(); err != nil {
			slog.Error("Error closing spi bus", "error", err)
		}
		s.bus = nil
	}
}

// Display encodes the frame for the configured LED type and pushes it
// over SPI. The bus carries one transaction at a time.
func (s *RaspberryPiPlatform) Display(frame clock.Frame) error {
	s.spiMutex.Lock()
	defer s.spiMutex.Unlock()
	if s.bus == nil {
		return fmt.Errorf("spi bus is closed")
	}
	if err := s.bus.exchange(s.encoder.encode(frame)); err != nil {
		return fmt.Errorf("spi transaction failed: %w", err)
	}
	return nil
}

// frameEncoder turns a frame into the byte stream a particular LED chip
// family expects on the wire.
type frameEncoder interface {
	encode(frame clock.Frame) []byte
}

// correct applies a color correction factor, clamped to the byte range.
func correct(v byte, factor float64) byte {
	return byte(math.Min(float64(v)*factor, 255))
}

type ws2801Encoder struct {
	correction []float64
	buffer     []byte
}

func newWs2801Encoder(cfg config.HardwareConfig) *ws2801Encoder {
	// Pre-allocate the buffer, the frame size never changes.
	return &ws2801Encoder{
		correction: cfg.ColorCorrection,
		buffer:     make([]byte, 3*clock.NumLeds),
	}
}

func (d *ws2801Encoder) encode(frame clock.Frame) []byte {
	display := d.buffer
	for idx := range frame {
		display[3*idx] = correct(frame[idx].Red, d.correction[0])
		display[(3*idx)+1] = correct(frame[idx].Green, d.correction[1])
		display[(3*idx)+2] = correct(frame[idx].Blue, d.correction[2])
	}
	return display
}

type apa102Encoder struct {
	brightness byte
	correction []float64
	buffer     []byte
}

func newApa102Encoder(cfg config.HardwareConfig) *apa102Encoder {
	frameEndLength := (clock.NumLeds / 16) + 1
	return &apa102Encoder{
		brightness: byte(cfg.APA102Brightness) | 0xE0,
		correction: cfg.ColorCorrection,
		buffer:     make([]byte, 4+(4*clock.NumLeds)+frameEndLength),
	}
}

func (d *apa102Encoder) encode(frame clock.Frame) []byte {
	display := d.buffer

	// Frame start: 4 zero bytes
	copy(display[0:4], []byte{0x00, 0x00, 0x00, 0x00})

	// LED data
	offset := 4
	for i := range frame {
		red := correct(frame[i].Red, d.correction[0])
		green := correct(frame[i].Green, d.correction[1])
		blue := correct(frame[i].Blue, d.correction[2])

		// protocol: brightness byte, blue, green, red
		display[offset] = d.brightness
		display[offset+1] = blue
		display[offset+2] = green
		display[offset+3] = red
		offset += 4
	}

	// Frame end: fill the rest of the slice with 0xFF
	for i := offset; i < len(display); i++ {
		display[i] = 0xFF
	}
	return display
}
