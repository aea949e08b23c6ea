// Command touchd bridges the Cypress CTMA395 capacitive panel's raw serial
// protocol to a Linux multi-touch (protocol B) input device.
package main

import (
	"fmt"
	"os"

	"ctma395-touchd/internal/config"
	"ctma395-touchd/internal/diag"
	"ctma395-touchd/internal/engine"
	"ctma395-touchd/internal/peaks"
	"ctma395-touchd/internal/rtprio"
	"ctma395-touchd/internal/serial"
	"ctma395-touchd/internal/uinput"
	"ctma395-touchd/internal/visualize"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "touchd: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "touchd: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	if err := rtprio.RequestRealtime(); err != nil {
		// A driver running unprivileged, or on a kernel without
		// SCHED_FIFO available to it, still works -- just with looser
		// scheduling guarantees under load.
		fmt.Fprintf(os.Stderr, "touchd: warning: could not raise scheduling priority: %v\n", err)
	}

	port, err := serial.Open(cfg.Device)
	if err != nil {
		return err
	}
	defer port.Close()

	orientation := peaks.Orientation0
	geom := uinput.Geometry{MaxX: 1024, MaxY: 768}
	if cfg.Rotation == 270 {
		orientation = peaks.Orientation270
		geom = uinput.Geometry{MaxX: 768, MaxY: 1024}
	}

	dev, err := uinput.Open(cfg.UinputPath, geom)
	if err != nil {
		return err
	}
	defer dev.Close()

	logger := diag.NewLogger(10000)
	applyLogLevel(logger, cfg.LogLevel)

	opts := []engine.Option{
		engine.WithOrientation(orientation),
		engine.WithLogger(logger),
	}

	var win *visualize.Window
	if cfg.Visualize {
		win, err = visualize.Open()
		if err != nil {
			return err
		}
		defer win.Close()
		opts = append(opts, engine.WithObserver(win.Observe))
	}

	eng := engine.New(dev, opts...)

	for {
		b, ok, err := port.ReadByte()
		if err != nil {
			return fmt.Errorf("reading panel: %w", err)
		}
		if win != nil {
			win.Pump()
		}
		if !ok {
			if err := eng.Timeout(); err != nil {
				return fmt.Errorf("reporting liftoff: %w", err)
			}
			continue
		}
		if err := eng.Feed(b); err != nil {
			return fmt.Errorf("reporting touch: %w", err)
		}
	}
}

func applyLogLevel(l *diag.Logger, level string) {
	if level == "" || level == "none" {
		return
	}
	for _, c := range []diag.Component{
		diag.ComponentSerial, diag.ComponentDecoder, diag.ComponentPeaks,
		diag.ComponentTracker, diag.ComponentFilters, diag.ComponentEvents,
		diag.ComponentUinput, diag.ComponentSystem,
	} {
		l.SetComponentEnabled(c, true)
	}

	switch level {
	case "error":
		l.SetMinLevel(diag.LogLevelError)
	case "warning":
		l.SetMinLevel(diag.LogLevelWarning)
	case "info":
		l.SetMinLevel(diag.LogLevelInfo)
	case "debug":
		l.SetMinLevel(diag.LogLevelDebug)
	case "trace":
		l.SetMinLevel(diag.LogLevelTrace)
	}
}
