package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/parameter"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "MOLCRAFT_"

// Config is the complete runtime configuration
type Config struct {
	Timing    TimingConfig    `toml:"timing" envPrefix:"TIMING_"`
	Proximity ProximityConfig `toml:"proximity" envPrefix:"PROXIMITY_"`
	Log       LogConfig       `toml:"log" envPrefix:"LOG_"`
	Metrics   MetricsConfig   `toml:"metrics" envPrefix:"METRICS_"`
	Audio     AudioConfig     `toml:"audio" envPrefix:"AUDIO_"`
	Terminal  TerminalConfig  `toml:"terminal" envPrefix:"TERMINAL_"`

	// Debug audits graph invariants after every mutating tick
	Debug bool `toml:"debug" env:"DEBUG"`
}

// TimingConfig holds the tick interval and confirm countdowns
type TimingConfig struct {
	TickInterval time.Duration `toml:"tick_interval" env:"TICK_INTERVAL" validate:"gt=0"`
	Construction time.Duration `toml:"construction" env:"CONSTRUCTION" validate:"gt=0"`
	Snap         time.Duration `toml:"snap" env:"SNAP" validate:"gt=0"`
	Destruction  time.Duration `toml:"destruction" env:"DESTRUCTION" validate:"gt=0"`
	Disposal     time.Duration `toml:"disposal" env:"DISPOSAL" validate:"gt=0"`
}

// ProximityConfig holds detector radii in world units
type ProximityConfig struct {
	AtomRadius     float64 `toml:"atom_radius" env:"ATOM_RADIUS" validate:"gt=0"`
	SnapRadius     float64 `toml:"snap_radius" env:"SNAP_RADIUS" validate:"gt=0,ltfield=AtomRadius"`
	BondRadius     float64 `toml:"bond_radius" env:"BOND_RADIUS" validate:"gt=0"`
	DisposalRadius float64 `toml:"disposal_radius" env:"DISPOSAL_RADIUS" validate:"gt=0"`
}

// LogConfig selects level, encoding and destination; an empty path discards logs
type LogConfig struct {
	Level    string `toml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Encoding string `toml:"encoding" env:"ENCODING" validate:"oneof=console json"`
	Path     string `toml:"path" env:"PATH"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set
type MetricsConfig struct {
	Listen string `toml:"listen" env:"LISTEN" validate:"omitempty,hostname_port"`
}

// AudioConfig controls feedback cues
type AudioConfig struct {
	Enabled bool    `toml:"enabled" env:"ENABLED"`
	Volume  float64 `toml:"volume" env:"VOLUME" validate:"gte=0,lte=1"`
}

// TerminalConfig controls the terminal view
type TerminalConfig struct {
	Color bool `toml:"color" env:"COLOR"`
	// Scale is terminal cells per world unit along X
	Scale float64 `toml:"scale" env:"SCALE" validate:"gt=0"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Timing: TimingConfig{
			TickInterval: parameter.TickInterval,
			Construction: seconds(parameter.ConstructionCountdown),
			Snap:         seconds(parameter.SnapCountdown),
			Destruction:  seconds(parameter.DestructionCountdown),
			Disposal:     seconds(parameter.DisposalCountdown),
		},
		Proximity: ProximityConfig{
			AtomRadius:     parameter.AtomRadius,
			SnapRadius:     parameter.SnapRadius,
			BondRadius:     parameter.BondRadius,
			DisposalRadius: parameter.DisposalRadius,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
		Terminal: TerminalConfig{
			Color: true,
			Scale: 4,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates
// An empty path skips the file
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks every field constraint
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Tuning converts the runtime-adjustable part of the configuration
func (c Config) Tuning() event.Tuning {
	return event.Tuning{
		ConstructionCountdown: c.Timing.Construction,
		SnapCountdown:         c.Timing.Snap,
		DestructionCountdown:  c.Timing.Destruction,
		DisposalCountdown:     c.Timing.Disposal,
		AtomRadius:            c.Proximity.AtomRadius,
		SnapRadius:            c.Proximity.SnapRadius,
		BondRadius:            c.Proximity.BondRadius,
		DisposalRadius:        c.Proximity.DisposalRadius,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
