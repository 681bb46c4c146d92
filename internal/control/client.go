package control

import (
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/davepl/NightDriver-Pi/internal/config"
)

// NewClient connects an MQTT client to cfg.MQTT.Broker, grounded on
// _examples/e7canasta-orion-care-sensor/References/orion-prototipe/internal/emitter/mqtt.go's
// Connect: auto reconnect with a bounded backoff, connect/disconnect
// logging.
func NewClient(cfg *config.Config) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)
	opts.SetClientID(cfg.MQTT.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(mqtt.Client) {
		slog.Info("control: mqtt connected", "broker", cfg.MQTT.Broker, "client_id", cfg.MQTT.ClientID)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		slog.Warn("control: mqtt connection lost, reconnecting", "error", err)
	}

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return nil, fmt.Errorf("control: mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("control: mqtt connect failed: %w", err)
	}

	return client, nil
}
