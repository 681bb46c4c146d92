// Package control implements the receiver's optional MQTT status/control
// plane: a JSON command channel reporting the receiver's buffer and Pacer
// state and letting an operator toggle the Pacer's catch-up behavior without a
// restart.
//
// Grounded on
// _examples/e7canasta-orion-care-sensor/References/orion-prototipe/internal/control/handler.go's
// Command/Response dispatch loop, narrowed from that file's large
// inference-pipeline command set down to the two operations this control
// plane actually exposes: get_status and set_burn_extra_frames.
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/davepl/NightDriver-Pi/internal/config"
)

// Command is a control-plane request received on the configured control
// topic.
type Command struct {
	Command string                 `json:"command"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// Response is a control-plane reply published on the configured status
// topic in answer to a Command.
type Response struct {
	CommandAck string                 `json:"command_ack"`
	Status     string                 `json:"status"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Timestamp  string                 `json:"timestamp"`
}

// Callbacks wires the control plane's two commands to the running
// receiver's actual state.
type Callbacks struct {
	// OnGetStatus reports the receiver's live buffer and Pacer state as a
	// JSON-friendly map.
	OnGetStatus func() map[string]interface{}
	// OnSetBurnExtraFrames toggles the Pacer's catch-up policy.
	OnSetBurnExtraFrames func(bool) error
}

// Handler subscribes to the control topic, dispatches each Command to a
// Callback, and publishes the Response to the status topic.
type Handler struct {
	cfg       *config.Config
	client    mqtt.Client
	commands  chan Command
	callbacks Callbacks
}

// qos is used for both the control subscription and the status publish;
// the control plane carries at-most-one-in-flight commands per operator,
// so QoS 1 (at-least-once, no dedup needed) is enough without the
// overhead of QoS 2.
const qos byte = 1

// NewHandler creates a Handler that dispatches commands arriving on
// cfg.MQTT.ControlTopic via client.
func NewHandler(cfg *config.Config, client mqtt.Client, callbacks Callbacks) *Handler {
	return &Handler{
		cfg:       cfg,
		client:    client,
		commands:  make(chan Command, 10),
		callbacks: callbacks,
	}
}

// Start subscribes to the control topic and begins processing commands in
// the background. It returns once the subscription is confirmed.
func (h *Handler) Start(ctx context.Context) error {
	slog.Info("control: subscribing", "topic", h.cfg.MQTT.ControlTopic, "qos", qos)

	token := h.client.Subscribe(h.cfg.MQTT.ControlTopic, qos, h.messageHandler)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("control: subscribe timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("control: subscribe failed: %w", err)
	}

	go h.processCommands(ctx)

	slog.Info("control: handler started")
	return nil
}

// Stop unsubscribes from the control topic and stops command processing.
func (h *Handler) Stop() {
	if h.client != nil && h.client.IsConnected() {
		h.client.Unsubscribe(h.cfg.MQTT.ControlTopic).Wait()
	}
	close(h.commands)
	slog.Info("control: handler stopped")
}

// messageHandler is the paho callback invoked for each message on the
// control topic.
func (h *Handler) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	var cmd Command
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		slog.Error("control: invalid command payload", "error", err)
		h.sendResponse(Response{CommandAck: "unknown", Status: "error", Error: "invalid JSON"})
		return
	}

	select {
	case h.commands <- cmd:
	default:
		slog.Warn("control: command queue full, dropping", "command", cmd.Command)
	}
}

func (h *Handler) processCommands(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-h.commands:
			if !ok {
				return
			}
			h.sendResponse(h.buildResponse(cmd))
		}
	}
}

// buildResponse executes one Command and returns the Response to publish.
// Kept separate from processCommands/sendResponse so it can be exercised
// directly without a live MQTT connection.
func (h *Handler) buildResponse(cmd Command) Response {
	resp := Response{CommandAck: cmd.Command}

	switch cmd.Command {
	case "get_status":
		if h.callbacks.OnGetStatus == nil {
			resp.Status, resp.Error = "error", "get_status not implemented"
			break
		}
		resp.Status = "success"
		resp.Data = h.callbacks.OnGetStatus()

	case "set_burn_extra_frames":
		if h.callbacks.OnSetBurnExtraFrames == nil {
			resp.Status, resp.Error = "error", "set_burn_extra_frames not implemented"
			break
		}
		enabled, ok := cmd.Params["enabled"].(bool)
		if !ok {
			resp.Status, resp.Error = "error", "missing or invalid 'enabled' parameter (expected bool)"
			break
		}
		if err := h.callbacks.OnSetBurnExtraFrames(enabled); err != nil {
			resp.Status, resp.Error = "error", err.Error()
			break
		}
		resp.Status = "success"
		resp.Data = map[string]interface{}{"burn_extra_frames": enabled}

	default:
		resp.Status = "error"
		resp.Error = fmt.Sprintf("unknown command: %s", cmd.Command)
	}

	return resp
}

func (h *Handler) sendResponse(resp Response) {
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(resp)
	if err != nil {
		slog.Error("control: failed to marshal response", "error", err)
		return
	}

	token := h.client.Publish(h.cfg.MQTT.StatusTopic, qos, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		slog.Error("control: response publish timeout")
		return
	}
	if err := token.Error(); err != nil {
		slog.Error("control: failed to publish response", "error", err)
	}
}
