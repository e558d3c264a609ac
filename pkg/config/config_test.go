package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "spheres", cfg.Scene)
	assert.Equal(t, 1, cfg.ChunkSize)
	assert.Equal(t, imageio.PNG, cfg.OutputFormat())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
scene = "room-soft"
output = "out/room.jpg"
quality = 80
width = 300
height = 200
workers = 4
chunk_size = 16
supersample = 2
log_level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "room-soft", cfg.Scene)
	assert.Equal(t, "out/room.jpg", cfg.Output)
	assert.Equal(t, 80, cfg.Quality)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 16, cfg.ChunkSize)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Sequential)
	// Untouched keys keep their defaults
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "scenes", cfg.ScenesDir)
	assert.Equal(t, imageio.JPEG, cfg.OutputFormat())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", `colour = "red"`},
		{"bad syntax", `scene = `},
		{"wrong type", `width = "wide"`},
		{"invalid value", `supersample = 0`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty scene", func(c *Config) { c.Scene = " " }},
		{"empty output", func(c *Config) { c.Output = "" }},
		{"bad format", func(c *Config) { c.Format = "gif" }},
		{"quality", func(c *Config) { c.Quality = 101 }},
		{"negative width", func(c *Config) { c.Width = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"negative chunk", func(c *Config) { c.ChunkSize = -1 }},
		{"supersample", func(c *Config) { c.Supersample = 9 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.True(t, errors.Is(cfg.Validate(), ErrInvalid))
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scene = "room"
	cfg.Sequential = true
	cfg.Format = "bmp"

	path := filepath.Join(t.TempDir(), "saved.toml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, imageio.BMP, loaded.OutputFormat())
}
