// Package config loads the YAML settings shared by the command line tools.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/echoflaresat/sunephem/earth"
	"github.com/echoflaresat/sunephem/los"
)

type Config struct {
	Observer  ObserverConfig  `yaml:"observer"`
	Satellite SatelliteConfig `yaml:"satellite"`
	Almanac   AlmanacConfig   `yaml:"almanac"`
	Map       MapConfig       `yaml:"map"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ObserverConfig struct {
	Latitude       float64 `yaml:"latitude"`
	Longitude      float64 `yaml:"longitude"`
	UTCOffsetHours float64 `yaml:"utc_offset_hours"`
}

type SatelliteConfig struct {
	MinAltitudeKm float64 `yaml:"min_altitude_km"`
	MaxAltitudeKm float64 `yaml:"max_altitude_km"`
	SpeedKmps     float64 `yaml:"speed_kmps"`
}

type AlmanacConfig struct {
	Output  string `yaml:"output"`
	Workers int    `yaml:"workers"`
}

type MapConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Workers      int    `yaml:"workers"`
	DayTexture   string `yaml:"day_texture"`
	NightTexture string `yaml:"night_texture"`
	FrameDelayMS int    `yaml:"frame_delay_ms"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Satellite: SatelliteConfig{
			MinAltitudeKm: 590,
			MaxAltitudeKm: 630,
			SpeedKmps:     7.5,
		},
		Almanac: AlmanacConfig{
			Output: "sun_positions.csv",
		},
		Map: MapConfig{
			Width:        720,
			Height:       360,
			FrameDelayMS: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return cfg, nil
}

// LoadOrDefault loads filename, or returns Default when filename is empty.
func LoadOrDefault(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	return Load(filename)
}

func (c *Config) Validate() error {
	if err := c.Location().Validate(); err != nil {
		return fmt.Errorf("observer: %w", err)
	}
	if err := c.Orbit().Validate(); err != nil {
		return fmt.Errorf("satellite: %w", err)
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		return fmt.Errorf("map: size must be positive, got %dx%d", c.Map.Width, c.Map.Height)
	}
	if c.Map.FrameDelayMS < 0 {
		return fmt.Errorf("map: negative frame delay %d", c.Map.FrameDelayMS)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) Location() earth.Location {
	return earth.Location{
		Latitude:       c.Observer.Latitude,
		Longitude:      c.Observer.Longitude,
		UTCOffsetHours: c.Observer.UTCOffsetHours,
	}
}

func (c *Config) Orbit() los.Orbit {
	return los.Orbit{
		MinAltitudeKm: c.Satellite.MinAltitudeKm,
		MaxAltitudeKm: c.Satellite.MaxAltitudeKm,
		SpeedKmps:     c.Satellite.SpeedKmps,
	}
}

func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.Map.FrameDelayMS) * time.Millisecond
}

// LogLevel parses Logging.Level ("debug", "info", "warn", "error").
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.Logging.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return lvl, nil
}
