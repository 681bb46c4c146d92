package config

import "fmt"

// Defaults mirror the original firmware's globals.h matrix constants and
// main.cpp's kIncomingSocketPort / kMaxBuffers.
const (
	DefaultPort            = 49152
	DefaultBufferCapacity  = 500
	DefaultChainLength     = 8
	DefaultRows            = 32
	DefaultCols            = 64
	DefaultGPIOSlowdown    = 5
	DefaultRefreshHz       = 60
	DefaultHardwareMapping = "adafruit-hat"
)

// Validate checks the configuration for internal consistency and fills in
// defaults for anything left unset, the way
// _examples/e7canasta-orion-care-sensor/References/orion-prototipe/internal/config/validator.go
// does for its own config shape.
func Validate(cfg *Config) error {
	if cfg.Listen.Port == 0 {
		cfg.Listen.Port = DefaultPort
	}
	if cfg.Listen.Port < 0 || cfg.Listen.Port > 65535 {
		return fmt.Errorf("listen.port %d out of range", cfg.Listen.Port)
	}

	switch cfg.Matrix.Driver {
	case "":
		cfg.Matrix.Driver = "simulated"
	case "simulated", "hub75":
	default:
		return fmt.Errorf("matrix.driver %q must be \"simulated\" or \"hub75\"", cfg.Matrix.Driver)
	}

	if cfg.Matrix.ChainLength == 0 {
		cfg.Matrix.ChainLength = DefaultChainLength
	}
	if cfg.Matrix.Rows == 0 {
		cfg.Matrix.Rows = DefaultRows
	}
	if cfg.Matrix.Cols == 0 {
		cfg.Matrix.Cols = DefaultCols
	}
	if cfg.Matrix.ChainLength <= 0 || cfg.Matrix.Rows <= 0 || cfg.Matrix.Cols <= 0 {
		return fmt.Errorf("matrix geometry must be positive: chain_length=%d rows=%d cols=%d",
			cfg.Matrix.ChainLength, cfg.Matrix.Rows, cfg.Matrix.Cols)
	}
	if cfg.Matrix.GPIOSlowdown == 0 {
		cfg.Matrix.GPIOSlowdown = DefaultGPIOSlowdown
	}
	if cfg.Matrix.RefreshHz == 0 {
		cfg.Matrix.RefreshHz = DefaultRefreshHz
	}
	if cfg.Matrix.HardwareMapping == "" {
		cfg.Matrix.HardwareMapping = DefaultHardwareMapping
	}

	if cfg.Pacer.BufferCapacity == 0 {
		cfg.Pacer.BufferCapacity = DefaultBufferCapacity
	}
	if cfg.Pacer.BufferCapacity < 0 {
		return fmt.Errorf("pacer.buffer_capacity must be non-negative, got %d", cfg.Pacer.BufferCapacity)
	}

	if cfg.MQTT.Broker != "" {
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = "ledreceiverd"
		}
		if cfg.MQTT.ControlTopic == "" {
			cfg.MQTT.ControlTopic = "ledreceiver/control"
		}
		if cfg.MQTT.StatusTopic == "" {
			cfg.MQTT.StatusTopic = "ledreceiver/status"
		}
	}

	if cfg.Health.Port < 0 || cfg.Health.Port > 65535 {
		return fmt.Errorf("health.port %d out of range", cfg.Health.Port)
	}

	return nil
}

// MatrixPixelCount returns the matrix's total addressable pixel count:
// chain_length panels of rows*cols each.
func (c *Config) MatrixPixelCount() int {
	return c.Matrix.ChainLength * c.Matrix.Rows * c.Matrix.Cols
}

// MatrixWidth returns the total addressable width across the whole chain.
func (c *Config) MatrixWidth() int {
	return c.Matrix.ChainLength * c.Matrix.Cols
}

// MatrixHeight returns the addressable height of a single panel.
func (c *Config) MatrixHeight() int {
	return c.Matrix.Rows
}
