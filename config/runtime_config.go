package config

// RuntimeConfig defines the subset of the configuration that can be
// safely modified at runtime through the web UI. It excludes the broker
// connection, the hardware wiring and other sensitive settings.
type RuntimeConfig struct {
	Ring        RingConfig        `yaml:"Ring" json:"Ring"`
	Animation   AnimationConfig   `yaml:"Animation" json:"Animation"`
	NightDimmer NightDimmerConfig `yaml:"NightDimmer" json:"NightDimmer"`
	Chime       ChimeConfig       `yaml:"Chime" json:"Chime"`
}
