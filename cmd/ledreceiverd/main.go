// Command ledreceiverd is the headless LED frame receiver: it binds the
// TCP listener, paces decoded frames onto a matrix driver at the right
// wall-clock moment, and optionally exposes an MQTT control plane and an
// HTTP health endpoint.
//
// Flag parsing and signal-driven shutdown follow
// _examples/e7canasta-orion-care-sensor/examples/orion-pipeline/main.go's
// shape; everything else is wired from
// the config, framebuffer, matrix, pacer, listener, control, and healthsrv
// packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/davepl/NightDriver-Pi/internal/clock"
	"github.com/davepl/NightDriver-Pi/internal/config"
	"github.com/davepl/NightDriver-Pi/internal/control"
	"github.com/davepl/NightDriver-Pi/internal/healthsrv"
	"github.com/davepl/NightDriver-Pi/internal/listener"
	"github.com/davepl/NightDriver-Pi/internal/matrix"
	"github.com/davepl/NightDriver-Pi/internal/pacer"
	"github.com/davepl/NightDriver-Pi/internal/shutdown"
	"github.com/davepl/NightDriver-Pi/modules/framebuffer"
)

type flagValues struct {
	configPath         string
	port               int
	matrixDriver       string
	chainLength        int
	rows               int
	cols               int
	gpioSlowdown       int
	refreshHz          int
	hardwareMapping    string
	disableBusyWaiting bool
	bufferCapacity     int
	burnExtraFrames    bool
	healthPort         int
	mqttBroker         string
	debug              bool
}

func main() {
	vals, set := parseFlags()

	logLevel := slog.LevelInfo
	if vals.debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := loadConfig(vals, set)
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("ledreceiverd exited with error", "error", err)
		os.Exit(1)
	}
}

func parseFlags() (flagValues, map[string]bool) {
	var v flagValues

	flag.StringVar(&v.configPath, "config", "", "path to YAML config file (optional)")
	flag.IntVar(&v.port, "port", 0, "TCP port to listen on")
	flag.StringVar(&v.matrixDriver, "matrix", "", "matrix driver: simulated or hub75")
	flag.IntVar(&v.chainLength, "chain-length", 0, "number of panels chained together")
	flag.IntVar(&v.rows, "rows", 0, "rows per panel")
	flag.IntVar(&v.cols, "cols", 0, "columns per panel")
	flag.IntVar(&v.gpioSlowdown, "gpio-slowdown", 0, "hub75 GPIO slowdown factor (accepted, not used by either driver)")
	flag.IntVar(&v.refreshHz, "refresh-hz", 0, "hub75 refresh rate cap in Hz (accepted, not used by either driver)")
	flag.StringVar(&v.hardwareMapping, "hardware-mapping", "", "hub75 pin map: regular or adafruit-hat")
	flag.BoolVar(&v.disableBusyWaiting, "disable-busy-waiting", false, "accepted for CLI compatibility; no effect, the hub75 scan loop already sleeps")
	flag.IntVar(&v.bufferCapacity, "buffer-capacity", 0, "frame buffer capacity")
	flag.BoolVar(&v.burnExtraFrames, "burn-extra-frames", false, "discard backlog frames instead of drawing every one")
	flag.IntVar(&v.healthPort, "health-port", 0, "HTTP health server port (0 disables it)")
	flag.StringVar(&v.mqttBroker, "mqtt-broker", "", "MQTT broker URL for the control plane (empty disables it)")
	flag.BoolVar(&v.debug, "debug", false, "enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: ledreceiverd [flags]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	return v, set
}

// loadConfig starts from a config file if one was given, then applies any
// flags the operator explicitly passed on top, and validates the result.
func loadConfig(v flagValues, set map[string]bool) (*config.Config, error) {
	var cfg *config.Config
	if v.configPath != "" {
		loaded, err := config.Load(v.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
	}

	if set["port"] {
		cfg.Listen.Port = v.port
	}
	if set["matrix"] {
		cfg.Matrix.Driver = v.matrixDriver
	}
	if set["chain-length"] {
		cfg.Matrix.ChainLength = v.chainLength
	}
	if set["rows"] {
		cfg.Matrix.Rows = v.rows
	}
	if set["cols"] {
		cfg.Matrix.Cols = v.cols
	}
	if set["gpio-slowdown"] {
		cfg.Matrix.GPIOSlowdown = v.gpioSlowdown
	}
	if set["refresh-hz"] {
		cfg.Matrix.RefreshHz = v.refreshHz
	}
	if set["hardware-mapping"] {
		cfg.Matrix.HardwareMapping = v.hardwareMapping
	}
	if set["disable-busy-waiting"] {
		cfg.Matrix.DisableBusyWaiting = v.disableBusyWaiting
	}
	if set["buffer-capacity"] {
		cfg.Pacer.BufferCapacity = v.bufferCapacity
	}
	if set["burn-extra-frames"] {
		cfg.Pacer.BurnExtraFrames = v.burnExtraFrames
	}
	if set["health-port"] {
		cfg.Health.Port = v.healthPort
	}
	if set["mqtt-broker"] {
		cfg.MQTT.Broker = v.mqttBroker
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	sd := shutdown.New()
	stopSignals := sd.WatchSignals()
	defer stopSignals()

	clk := clock.Wall{}

	drv, err := buildMatrixDriver(cfg)
	if err != nil {
		return err
	}
	defer drv.Close()

	buf := framebuffer.New(cfg.Pacer.BufferCapacity, clk)

	pc := pacer.New(buf, drv, clk, sd)
	pc.SetBurnExtraFrames(cfg.Pacer.BurnExtraFrames)

	addr := fmt.Sprintf(":%d", cfg.Listen.Port)
	lstn, err := listener.New(addr, cfg.MatrixPixelCount(), buf, clk, sd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go pc.Run()

	if cfg.Health.Port != 0 {
		hs := healthsrv.New(fmt.Sprintf(":%d", cfg.Health.Port), pacerHealthSource{lstn, pc})
		go func() {
			if err := hs.Run(ctx); err != nil {
				slog.Error("healthsrv stopped", "error", err)
			}
		}()
	}

	if cfg.MQTT.Broker != "" {
		ctrl, err := startControlPlane(ctx, cfg, pc, buf)
		if err != nil {
			slog.Error("control plane failed to start, continuing without it", "error", err)
		} else {
			defer ctrl.Stop()
		}
	}

	slog.Info("ledreceiverd starting",
		"addr", addr,
		"matrix_driver", cfg.Matrix.Driver,
		"matrix_pixels", cfg.MatrixPixelCount(),
		"buffer_capacity", cfg.Pacer.BufferCapacity,
	)

	return lstn.Run()
}

func buildMatrixDriver(cfg *config.Config) (matrix.Driver, error) {
	width, height := cfg.MatrixWidth(), cfg.MatrixHeight()

	switch cfg.Matrix.Driver {
	case "hub75":
		pins, err := hub75PinsFor(cfg.Matrix.HardwareMapping)
		if err != nil {
			return nil, err
		}
		if cfg.Matrix.DisableBusyWaiting {
			slog.Info("matrix: disable_busy_waiting has no effect, this driver already sleeps between scan pulses")
		}
		return matrix.NewHUB75(width, height, height/2, pins)
	case "simulated":
		return matrix.NewSimulated(width, height), nil
	default:
		return nil, fmt.Errorf("unknown matrix driver %q", cfg.Matrix.Driver)
	}
}

// hub75PinsFor maps a hardware_mapping name to a concrete pin layout.
// "regular" and "adafruit-hat" both resolve to the Adafruit RGB Matrix
// Bonnet pinout from
// _examples/fkcurrie-fluidnc-led-golang/cmd/hub75-gpio/main.go's
// HUB75Config, the only wiring this receiver has ever been run against;
// any other name is rejected rather than guessed at.
func hub75PinsFor(mapping string) (matrix.HUB75Pins, error) {
	switch mapping {
	case "", "regular", "adafruit-hat":
		return matrix.HUB75Pins{
			R1: 5, G1: 13, B1: 6,
			R2: 12, G2: 16, B2: 23,
			CLK: 17, OE: 4, LAT: 21,
			A: 22, B: 26, C: 27, D: 20, E: 24,
		}, nil
	default:
		return matrix.HUB75Pins{}, fmt.Errorf("matrix: unknown hardware_mapping %q", mapping)
	}
}

func startControlPlane(ctx context.Context, cfg *config.Config, pc *pacer.Pacer, buf *framebuffer.Manager) (*control.Handler, error) {
	client, err := control.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	h := control.NewHandler(cfg, client, control.Callbacks{
		OnGetStatus: func() map[string]interface{} {
			return map[string]interface{}{
				"buffer_size":       buf.Size(),
				"buffer_capacity":   buf.Capacity(),
				"frames_drawn":      pc.FramesDrawn(),
				"frames_burnt":      pc.FramesBurnt(),
				"burn_extra_frames": pc.BurnExtraFrames(),
			}
		},
		OnSetBurnExtraFrames: func(v bool) error {
			pc.SetBurnExtraFrames(v)
			return nil
		},
	})

	if err := h.Start(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// pacerHealthSource adapts a *listener.Listener and *pacer.Pacer to
// healthsrv.StatusSource without either package depending on the other.
type pacerHealthSource struct {
	l *listener.Listener
	p *pacer.Pacer
}

func (s pacerHealthSource) ConnectionsAccepted() uint64 { return s.l.ConnectionsAccepted() }
func (s pacerHealthSource) LastDrawAt() time.Time       { return s.p.LastDrawAt() }
