package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/jpfielding/fiducials.go/pkg/fiducials"
	"github.com/jpfielding/fiducials.go/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML file named by --config
type Config struct {
	Log      LogConfig `yaml:"log"`
	Defaults Defaults  `yaml:"defaults"`
	Workers  int       `yaml:"workers"`
}

type LogConfig struct {
	Level string              `yaml:"level"`
	JSON  bool                `yaml:"json"`
	File  *logging.FileConfig `yaml:"file"`
}

// Defaults apply to groups created without an explicit color or size
type Defaults struct {
	Color []float32 `yaml:"color"`
	Size  float32   `yaml:"size"`
}

func DefaultConfig() Config {
	return Config{
		Log:      LogConfig{Level: "INFO"},
		Defaults: Defaults{Color: []float32{1, 1, 0, 1}, Size: 2},
		Workers:  runtime.NumCPU(),
	}
}

// LoadConfig overlays the file at path on the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if len(cfg.Defaults.Color) != 4 {
		return cfg, fmt.Errorf("config %s: default color needs 4 values, got %d", path, len(cfg.Defaults.Color))
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// color returns the default group color
func (d Defaults) color() fiducials.Color {
	var c fiducials.Color
	copy(c[:], d.Color)
	return c
}
