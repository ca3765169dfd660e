package platform

import (
	"fmt"
	"log/slog"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/config"
)

// spiBus is one full duplex SPI transaction at a time, whichever GPIO
// library is behind it.
type spiBus interface {
	exchange(data []byte) error
	close() error
}

func newSpiBus(cfg config.HardwareConfig) (spiBus, error) {
	switch cfg.SPIBackend {
	case config.SPIBackendRpio:
		return newRpioBus(cfg)
	default:
		return newPeriphBus(cfg)
	}
}

// periphBus talks to the kernel spidev driver through periph.io.
type periphBus struct {
	port spi.PortCloser
	conn spi.Conn
}

func newPeriphBus(cfg config.HardwareConfig) (*periphBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to init periph: %w", err)
	}

	port, err := spireg.Open(cfg.SPIDevice)
	if err != nil {
		return nil, fmt.Errorf("failed to open spi: %w", err)
	}

	conn, err := port.Connect(physic.Frequency(cfg.SPIFrequency)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to connect to spi device: %w", err)
	}

	return &periphBus{port: port, conn: conn}, nil
}

func (b *periphBus) exchange(data []byte) error {
	read := make([]byte, len(data))
	return b.conn.Tx(data, read)
}

func (b *periphBus) close() error {
	return b.port.Close()
}

// rpioBus drives the SPI pins directly through go-rpio. It always uses
// bus 0 with chip select 0.
type rpioBus struct{}

func newRpioBus(cfg config.HardwareConfig) (*rpioBus, error) {
	if cfg.SPIDevice != "/dev/spidev0.0" {
		slog.Warn("The go-rpio backend drives /dev/spidev0.0 only", "configured", cfg.SPIDevice)
	}

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open gpio memory range: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		return nil, fmt.Errorf("failed to begin spi: %w", err)
	}
	rpio.SpiSpeed(cfg.SPIFrequency)
	rpio.SpiChipSelect(0)

	return &rpioBus{}, nil
}

func (b *rpioBus) exchange(data []byte) error {
	rpio.SpiExchange(data)
	return nil
}

func (b *rpioBus) close() error {
	rpio.SpiEnd(rpio.Spi0)
	return rpio.Close()
}
