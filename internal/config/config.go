// Package config resolves the daemon's settings from CLI flags and an
// optional YAML file, with defaults that reproduce the original zero-flag
// daemon: no file or flags needed to get a working driver.
package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the fully resolved daemon configuration.
type Config struct {
	Device     string `yaml:"device"`
	UinputPath string `yaml:"uinput_path"`
	Rotation   int    `yaml:"rotation"` // 0 or 270
	Visualize  bool   `yaml:"visualize"`
	LogLevel   string `yaml:"log_level"`
	ConfigFile string `yaml:"-"`
}

// Default returns the configuration the original driver ran with: no
// flags, no file, rotation 0.
func Default() Config {
	return Config{
		Device:     "/dev/ctp_uart",
		UinputPath: "/dev/uinput",
		Rotation:   0,
		Visualize:  false,
		LogLevel:   "none",
	}
}

// Parse resolves Config from args, layering a YAML file (if -config names
// one) under CLI flags, which always win.
func Parse(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("touchd", flag.ContinueOnError)
	device := fs.String("device", cfg.Device, "path to the panel's serial device")
	uinputPath := fs.String("uinput", cfg.UinputPath, "path to /dev/uinput")
	rotation := fs.Int("rotation", cfg.Rotation, "display rotation in degrees (0 or 270)")
	visualize := fs.Bool("visualize", cfg.Visualize, "show a live capacitance heatmap debug window")
	logLevel := fs.String("log-level", cfg.LogLevel, "diagnostic log level: none, error, warning, info, debug, trace")
	configPath := fs.String("config", "", "optional YAML config file; CLI flags override its values")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		fileCfg, err := loadFile(*configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
		cfg.ConfigFile = *configPath
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Device = *device
		case "uinput":
			cfg.UinputPath = *uinputPath
		case "rotation":
			cfg.Rotation = *rotation
		case "visualize":
			cfg.Visualize = *visualize
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if cfg.Rotation != 0 && cfg.Rotation != 270 {
		return Config{}, fmt.Errorf("config: rotation must be 0 or 270, got %d", cfg.Rotation)
	}

	return cfg, nil
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
