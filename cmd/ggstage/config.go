package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/ggstage"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// HostConfig describes the simulated host element.
type HostConfig struct {
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`
	DPR    float64 `toml:"dpr" yaml:"dpr"`
}

// Config is the command's configuration file.
type Config struct {
	Graphics ggstage.Settings `toml:"graphics" yaml:"graphics"`
	Host     HostConfig       `toml:"host" yaml:"host"`
	Zoom     float64          `toml:"zoom" yaml:"zoom"`
	Frames   int              `toml:"frames" yaml:"frames"`
	FPS      float64          `toml:"fps" yaml:"fps"`
	// Output is a file name pattern with one integer verb, e.g. "frame%03d.png".
	Output string `toml:"output" yaml:"output"`
	// Images are frame files for the demo's animated sprite.
	Images []string `toml:"images" yaml:"images"`
}

func defaultConfig() Config {
	return Config{
		Graphics: ggstage.DefaultSettings(),
		Host:     HostConfig{Width: 800, Height: 600, DPR: 1},
		Zoom:     1,
		Frames:   1,
		FPS:      10,
		Output:   "frame%03d.png",
	}
}

// loadConfig reads a TOML or YAML file, chosen by extension, over the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := decodeConfig(&cfg, filepath.Ext(path), data); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(cfg *Config, ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".toml":
		d := toml.NewDecoder(bytes.NewReader(data))
		d.DisallowUnknownFields()
		return d.Decode(cfg)
	case ".yaml", ".yml":
		d := yaml.NewDecoder(bytes.NewReader(data))
		d.KnownFields(true)
		return d.Decode(cfg)
	}
	return fmt.Errorf("unsupported config format %q", ext)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := c.Graphics.Validate(); err != nil {
		return err
	}
	if c.Host.Width <= 0 || c.Host.Height <= 0 {
		return fmt.Errorf("host size must be positive, got %vx%v", c.Host.Width, c.Host.Height)
	}
	if c.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %v", c.Zoom)
	}
	if c.Frames < 1 {
		return fmt.Errorf("frames must be at least 1, got %d", c.Frames)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %v", c.FPS)
	}
	if !strings.Contains(c.Output, "%") {
		return fmt.Errorf("output %q needs a frame number verb such as %%03d", c.Output)
	}
	return nil
}
