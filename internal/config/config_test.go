package config

import "testing"

func TestValidateFillsDefaults(t *testing.T) {
	cfg := &Config{}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Listen.Port != DefaultPort {
		t.Errorf("Listen.Port = %d, want %d", cfg.Listen.Port, DefaultPort)
	}
	if cfg.Matrix.Driver != "simulated" {
		t.Errorf("Matrix.Driver = %q, want simulated", cfg.Matrix.Driver)
	}
	if cfg.Matrix.ChainLength != DefaultChainLength || cfg.Matrix.Rows != DefaultRows || cfg.Matrix.Cols != DefaultCols {
		t.Errorf("matrix geometry = %+v, want defaults", cfg.Matrix)
	}
	if cfg.Pacer.BufferCapacity != DefaultBufferCapacity {
		t.Errorf("Pacer.BufferCapacity = %d, want %d", cfg.Pacer.BufferCapacity, DefaultBufferCapacity)
	}
	if cfg.Matrix.HardwareMapping != DefaultHardwareMapping {
		t.Errorf("Matrix.HardwareMapping = %q, want %q", cfg.Matrix.HardwareMapping, DefaultHardwareMapping)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{Matrix: MatrixConfig{Driver: "holographic"}}
	if err := Validate(cfg); err == nil {
		t.Fatal("Validate() with unknown driver returned nil error")
	}
}

func TestValidateFillsMQTTDefaultsOnlyWhenBrokerSet(t *testing.T) {
	cfg := &Config{}
	Validate(cfg)
	if cfg.MQTT.ClientID != "" {
		t.Errorf("ClientID = %q, want empty when broker unset", cfg.MQTT.ClientID)
	}

	cfg2 := &Config{MQTT: MQTTConfig{Broker: "tcp://localhost:1883"}}
	if err := Validate(cfg2); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg2.MQTT.ClientID == "" || cfg2.MQTT.ControlTopic == "" || cfg2.MQTT.StatusTopic == "" {
		t.Errorf("MQTT defaults not filled in: %+v", cfg2.MQTT)
	}
}

func TestMatrixPixelCount(t *testing.T) {
	cfg := &Config{Matrix: MatrixConfig{ChainLength: 2, Rows: 4, Cols: 8}}
	if got, want := cfg.MatrixPixelCount(), 64; got != want {
		t.Errorf("MatrixPixelCount() = %d, want %d", got, want)
	}
	if got, want := cfg.MatrixWidth(), 16; got != want {
		t.Errorf("MatrixWidth() = %d, want %d", got, want)
	}
	if got, want := cfg.MatrixHeight(), 4; got != want {
		t.Errorf("MatrixHeight() = %d, want %d", got, want)
	}
}

func TestValidateRejectsOutOfRangePort(t *testing.T) {
	cfg := &Config{Listen: ListenConfig{Port: 99999}}
	if err := Validate(cfg); err == nil {
		t.Fatal("Validate() with out-of-range port returned nil error")
	}
}
