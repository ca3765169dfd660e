// Package config reads and validates the YAML configuration file and
// serves the runtime-safe subset of it over a small HTTP API.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RingConfig holds the hand colors and the brightness of the ring.
type RingConfig struct {
	HourRGB    []int `yaml:"HourRGB,flow" json:"HourRGB"`
	MinuteRGB  []int `yaml:"MinuteRGB,flow" json:"MinuteRGB"`
	SecondRGB  []int `yaml:"SecondRGB,flow" json:"SecondRGB"`
	Brightness int   `yaml:"Brightness" json:"Brightness"`
}

// MQTTConfig holds everything needed to reach the broker and the two
// topics the clock uses.
type MQTTConfig struct {
	Broker         string        `yaml:"Broker"`
	ClientID       string        `yaml:"ClientID"`
	TickTopic      string        `yaml:"TickTopic"`
	StatusTopic    string        `yaml:"StatusTopic"`
	Username       string        `yaml:"Username"`
	Password       string        `yaml:"Password"`
	ConnectTimeout time.Duration `yaml:"ConnectTimeout"`
}

// AnimationConfig selects and parameterizes the startup animation.
type AnimationConfig struct {
	Style             string        `yaml:"Style" json:"Style"`
	FrameDelay        time.Duration `yaml:"FrameDelay" json:"FrameDelay"`
	RainbowSpeed      float64       `yaml:"RainbowSpeed" json:"RainbowSpeed"`
	RainbowBrightness int           `yaml:"RainbowBrightness" json:"RainbowBrightness"`
	SweepHourDelay    time.Duration `yaml:"SweepHourDelay" json:"SweepHourDelay"`
	SweepMinuteDelay  time.Duration `yaml:"SweepMinuteDelay" json:"SweepMinuteDelay"`
	SweepSecondDelay  time.Duration `yaml:"SweepSecondDelay" json:"SweepSecondDelay"`
}

// NightDimmerConfig lowers the ring brightness between sunset and sunrise
// at the given location.
type NightDimmerConfig struct {
	Enabled         bool    `yaml:"Enabled" json:"Enabled"`
	Latitude        float64 `yaml:"Latitude" json:"Latitude"`
	Longitude       float64 `yaml:"Longitude" json:"Longitude"`
	NightBrightness int     `yaml:"NightBrightness" json:"NightBrightness"`
}

// ChimeConfig enables striking the hour over the audio output.
type ChimeConfig struct {
	Enabled bool    `yaml:"Enabled" json:"Enabled"`
	Device  string  `yaml:"Device" json:"Device"`
	Volume  float64 `yaml:"Volume" json:"Volume"`
}

// WebUIConfig exposes the runtime configuration API.
type WebUIConfig struct {
	Enabled bool   `yaml:"Enabled"`
	Listen  string `yaml:"Listen"`
}

// HardwareConfig describes the physical ring on the SPI bus.
type HardwareConfig struct {
	LEDType          string    `yaml:"LEDType"`
	SPIBackend       string    `yaml:"SPIBackend"`
	SPIDevice        string    `yaml:"SPIDevice"`
	SPIFrequency     int       `yaml:"SPIFrequency"`
	APA102Brightness int       `yaml:"APA102Brightness"`
	ColorCorrection  []float64 `yaml:"ColorCorrection,flow"`
}

// LogProfile is one way of logging; the TUI and the hardware mode each
// get their own.
type LogProfile struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	File   string `yaml:"File"`
}

// LoggingConfig holds the log profiles for the two deployment modes.
type LoggingConfig struct {
	TUI LogProfile `yaml:"TUI"`
	HW  LogProfile `yaml:"HW"`
}

// Config is the full configuration document.
type Config struct {
	Ring        RingConfig        `yaml:"Ring" json:"Ring"`
	MQTT        MQTTConfig        `yaml:"MQTT"`
	Animation   AnimationConfig   `yaml:"Animation" json:"Animation"`
	NightDimmer NightDimmerConfig `yaml:"NightDimmer" json:"NightDimmer"`
	Chime       ChimeConfig       `yaml:"Chime" json:"Chime"`
	WebUI       WebUIConfig       `yaml:"WebUI"`
	Hardware    HardwareConfig    `yaml:"Hardware"`
	Logging     LoggingConfig     `yaml:"Logging"`
}

// Animation styles accepted by Validate.
const (
	StyleRainbow = "rainbow"
	StyleSweep   = "sweep"
)

// LED strip types accepted by Validate.
const (
	LEDTypeAPA102 = "APA102"
	LEDTypeWS2801 = "WS2801"
)

// SPI backends accepted by Validate.
const (
	SPIBackendPeriph = "periph.io"
	SPIBackendRpio   = "go-rpio"
)

// ReadConfig loads and validates the configuration file.
func ReadConfig(cfile string) (*Config, error) {
	data, err := os.ReadFile(cfile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfile, err)
	}

	var conf Config
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", cfile, err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks the whole document and returns the first problem found.
func (c *Config) Validate() error {
	if err := validateRGB("Ring.HourRGB", c.Ring.HourRGB); err != nil {
		return err
	}
	if err := validateRGB("Ring.MinuteRGB", c.Ring.MinuteRGB); err != nil {
		return err
	}
	if err := validateRGB("Ring.SecondRGB", c.Ring.SecondRGB); err != nil {
		return err
	}
	if c.Ring.Brightness < 0 || c.Ring.Brightness > 255 {
		return fmt.Errorf("Ring.Brightness must be between 0 and 255")
	}

	if c.MQTT.Broker == "" {
		return fmt.Errorf("MQTT.Broker must be set")
	}
	if c.MQTT.ClientID == "" {
		return fmt.Errorf("MQTT.ClientID must be set")
	}
	if c.MQTT.TickTopic == "" {
		return fmt.Errorf("MQTT.TickTopic must be set")
	}
	if c.MQTT.ConnectTimeout <= 0 {
		return fmt.Errorf("MQTT.ConnectTimeout must be a positive duration")
	}

	switch c.Animation.Style {
	case StyleRainbow:
		if c.Animation.FrameDelay <= 0 {
			return fmt.Errorf("Animation.FrameDelay must be a positive duration")
		}
		if c.Animation.RainbowSpeed <= 0 {
			return fmt.Errorf("Animation.RainbowSpeed must be greater than 0")
		}
		if c.Animation.RainbowBrightness < 0 || c.Animation.RainbowBrightness > 255 {
			return fmt.Errorf("Animation.RainbowBrightness must be between 0 and 255")
		}
	case StyleSweep:
		if c.Animation.SweepHourDelay <= 0 || c.Animation.SweepMinuteDelay <= 0 || c.Animation.SweepSecondDelay <= 0 {
			return fmt.Errorf("Animation sweep delays must be positive durations")
		}
	default:
		return fmt.Errorf("Animation.Style must be one of %q or %q", StyleRainbow, StyleSweep)
	}

	if c.NightDimmer.Enabled {
		if c.NightDimmer.Latitude < -90 || c.NightDimmer.Latitude > 90 {
			return fmt.Errorf("NightDimmer.Latitude must be between -90 and 90")
		}
		if c.NightDimmer.Longitude < -180 || c.NightDimmer.Longitude > 180 {
			return fmt.Errorf("NightDimmer.Longitude must be between -180 and 180")
		}
		if c.NightDimmer.NightBrightness < 0 || c.NightDimmer.NightBrightness > 255 {
			return fmt.Errorf("NightDimmer.NightBrightness must be between 0 and 255")
		}
	}

	if c.Chime.Enabled {
		if c.Chime.Volume < 0 || c.Chime.Volume > 1 {
			return fmt.Errorf("Chime.Volume must be between 0 and 1")
		}
	}

	if c.WebUI.Enabled && c.WebUI.Listen == "" {
		return fmt.Errorf("WebUI.Listen must be set when the web UI is enabled")
	}

	switch strings.ToUpper(c.Hardware.LEDType) {
	case LEDTypeAPA102, LEDTypeWS2801:
	default:
		return fmt.Errorf("Hardware.LEDType must be one of %q or %q", LEDTypeAPA102, LEDTypeWS2801)
	}
	switch c.Hardware.SPIBackend {
	case SPIBackendPeriph, SPIBackendRpio:
	default:
		return fmt.Errorf("Hardware.SPIBackend must be one of %q or %q", SPIBackendPeriph, SPIBackendRpio)
	}
	if c.Hardware.SPIDevice == "" {
		return fmt.Errorf("Hardware.SPIDevice must be set")
	}
	if c.Hardware.SPIFrequency <= 0 {
		return fmt.Errorf("Hardware.SPIFrequency must be greater than 0")
	}
	if c.Hardware.APA102Brightness < 0 || c.Hardware.APA102Brightness > 31 {
		return fmt.Errorf("Hardware.APA102Brightness must be between 0 and 31")
	}
	if len(c.Hardware.ColorCorrection) != 3 {
		return fmt.Errorf("Hardware.ColorCorrection must have exactly 3 factors")
	}
	for _, f := range c.Hardware.ColorCorrection {
		if f < 0 {
			return fmt.Errorf("Hardware.ColorCorrection factors must be non-negative")
		}
	}

	return nil
}

func validateRGB(name string, rgb []int) error {
	if len(rgb) != 3 {
		return fmt.Errorf("%s must have exactly 3 channel values", name)
	}
	for _, v := range rgb {
		if v < 0 || v > 255 {
			return fmt.Errorf("%s values must be between 0 and 255", name)
		}
	}
	return nil
}
