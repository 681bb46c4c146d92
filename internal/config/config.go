// Package config loads and validates the receiver's YAML configuration,
// grounded on
// _examples/e7canasta-orion-care-sensor/References/orion-prototipe/internal/config/config.go's
// Load + Validate split: defaults are filled in during validation, not at
// the call site.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete receiver configuration.
type Config struct {
	Listen ListenConfig `yaml:"listen"`
	Matrix MatrixConfig `yaml:"matrix"`
	Pacer  PacerConfig  `yaml:"pacer"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	Health HealthConfig `yaml:"health"`
}

// ListenConfig controls the TCP listener.
type ListenConfig struct {
	Port int `yaml:"port"`
}

// MatrixConfig describes the LED matrix geometry and driver selection.
type MatrixConfig struct {
	Driver             string `yaml:"driver"` // "simulated" or "hub75"
	ChainLength        int    `yaml:"chain_length"`
	Rows               int    `yaml:"rows"`
	Cols               int    `yaml:"cols"`
	GPIOSlowdown       int    `yaml:"gpio_slowdown"`
	RefreshHz          int    `yaml:"refresh_hz"`
	HardwareMapping    string `yaml:"hardware_mapping"` // pin map name, e.g. "adafruit-hat" or "regular"
	DisableBusyWaiting bool   `yaml:"disable_busy_waiting"`
}

// PacerConfig controls the draw loop's buffering and catch-up behavior.
type PacerConfig struct {
	BufferCapacity  int  `yaml:"buffer_capacity"`
	BurnExtraFrames bool `yaml:"burn_extra_frames"`
}

// MQTTConfig controls the optional control/status plane. Leaving Broker
// empty disables it entirely.
type MQTTConfig struct {
	Broker       string `yaml:"broker"`
	ClientID     string `yaml:"client_id"`
	ControlTopic string `yaml:"control_topic"`
	StatusTopic  string `yaml:"status_topic"`
}

// HealthConfig controls the optional liveness/readiness HTTP server.
// Leaving Port at 0 disables it.
type HealthConfig struct {
	Port int `yaml:"port"`
}

// Load reads and parses a YAML configuration file, then validates it,
// filling in defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return &cfg, nil
}
