// Package config holds the render configuration shared by the CLI and the viewer.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned for a configuration that cannot drive a render
var ErrInvalid = errors.New("invalid configuration")

// Config is the render configuration. Zero width or height means the scene's own
// size. An Output without a file extension is a directory that receives
// <scene>/render_<timestamp> files.
type Config struct {
	Scene       string `toml:"scene"`
	Output      string `toml:"output"`
	Format      string `toml:"format"`
	Quality     int    `toml:"quality"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Workers     int    `toml:"workers"`    // 0 = NumCPU
	ChunkSize   int    `toml:"chunk_size"` // pixels claimed per lock acquisition
	Supersample int    `toml:"supersample"`
	Sequential  bool   `toml:"sequential"`
	Seed        int64  `toml:"seed"` // base of the per-pixel random seeds
	LogLevel    string `toml:"log_level"`
	ScenesDir   string `toml:"scenes_dir"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Scene:       "spheres",
		Output:      "output",
		Format:      "",
		Quality:     90,
		ChunkSize:   1,
		Supersample: 1,
		Seed:        42,
		LogLevel:    "info",
		ScenesDir:   "scenes",
	}
}

// Load reads a TOML file on top of the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration as TOML
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Scene) == "" {
		errs = append(errs, errors.New("scene is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if c.Format != "" {
		if _, err := imageio.ParseFormat(c.Format); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Quality < 0 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality %d out of range 0-100", c.Quality))
	}
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("negative image size %dx%d", c.Width, c.Height))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("negative worker count %d", c.Workers))
	}
	if c.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("negative chunk size %d", c.ChunkSize))
	}
	if c.Supersample < 1 || c.Supersample > 8 {
		errs = append(errs, fmt.Errorf("supersample %d out of range 1-8", c.Supersample))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// OutputFormat resolves the encoder format from Format or the output extension
func (c Config) OutputFormat() imageio.Format {
	if f, err := imageio.ParseFormat(c.Format); err == nil {
		return f
	}
	return imageio.FormatFromPath(c.Output)
}
