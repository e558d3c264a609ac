package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneRef    string
		supersample int
		wantWidth   int
		expectError bool
	}{
		{"spheres scene", "spheres", 1, 40, false},
		{"room scene", "room", 1, 40, false},
		{"soft room scene", "room-soft", 1, 40, false},
		{"supersampled", "spheres", 3, 120, false},
		{"unknown scene", "nonexistent", 1, 0, true},
		{"missing file", "scenes/nonexistent.yaml", 1, 0, true},
		{"empty scene name", "", 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Scene = tt.sceneRef
			cfg.Width, cfg.Height = 40, 30
			cfg.Supersample = tt.supersample

			s, err := loadScene(cfg)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene '%s', but got none", tt.sceneRef)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene '%s': %v", tt.sceneRef, err)
			}
			if got := s.Camera.GetWidth(); got != tt.wantWidth {
				t.Errorf("Expected width %d, got %d", tt.wantWidth, got)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Errorf("Scene '%s' has no objects", tt.sceneRef)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	tests := []struct {
		name   string
		scene  string
		output string
		format string
		want   string
	}{
		{"built-in scene", "room", "output", "", filepath.Join("output", "room", "render_20240309_140507.png")},
		{"scene file id", "file:lamp", "output", "", filepath.Join("output", "lamp", "render_20240309_140507.png")},
		{"scene file path", "scenes/sub/glass.yaml", "out", "jpeg", filepath.Join("out", "glass", "render_20240309_140507.jpg")},
		{"explicit file", "room", "shots/final.bmp", "", "shots/final.bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Scene = tt.scene
			cfg.Output = tt.output
			cfg.Format = tt.format
			if got := outputPath(cfg, now); got != tt.want {
				t.Errorf("Expected output path '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func TestResolve_FlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.toml")
	content := "scene = \"room\"\nwidth = 10\nheight = 10\nworkers = 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &cliOptions{configPath: path, cfg: config.Default()}
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addRenderFlags(flags, &opts.cfg)
	if err := flags.Parse([]string{"--width", "12", "--sequential", "--seed", "7"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := opts.resolve(flags, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Scene != "room" || cfg.Height != 10 || cfg.Workers != 3 {
		t.Errorf("Config file values lost: %+v", cfg)
	}
	if cfg.Width != 12 || !cfg.Sequential || cfg.Seed != 7 {
		t.Errorf("Flags did not override the config file: %+v", cfg)
	}

	cfg, err = opts.resolve(flags, []string{"spheres"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Scene != "spheres" {
		t.Errorf("Expected positional scene 'spheres', got '%s'", cfg.Scene)
	}
}

func TestRunRender(t *testing.T) {
	for _, supersample := range []int{1, 2} {
		cfg := config.Default()
		cfg.Width, cfg.Height = 20, 16
		cfg.Workers = 2
		cfg.Supersample = supersample
		cfg.Output = filepath.Join(t.TempDir(), "spheres.png")

		var progress bytes.Buffer
		path, err := runRender(context.Background(), cfg, discardLogger(), &progress)
		if err != nil {
			t.Fatalf("supersample %d: %v", supersample, err)
		}

		_, w, h, err := imageio.Decode(path)
		if err != nil {
			t.Fatalf("supersample %d: %v", supersample, err)
		}
		if w != 20 || h != 16 {
			t.Errorf("supersample %d: expected 20x16 image, got %dx%d", supersample, w, h)
		}
		if !strings.Contains(progress.String(), "100%") {
			t.Errorf("supersample %d: progress never reached 100%%:\n%s", supersample, progress.String())
		}
	}
}

func TestRootCommand_Render(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "room.bmp")
	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"render", "room", "--width", "12", "--height", "12", "-o", out, "--sequential", "--log-level", "error"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("render command failed: %v\n%s", err, stderr.String())
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Expected output file: %v", err)
	}
	if !strings.Contains(stdout.String(), "columns") {
		t.Errorf("Expected column progress in sequential mode, got:\n%s", stdout.String())
	}
}

func TestRootCommand_Errors(t *testing.T) {
	tests := [][]string{
		{"render", "cornell"},
		{"render", "--supersample", "0"},
		{"render", "--config", "missing.toml"},
		{"render", "spheres", "extra"},
	}
	for _, args := range tests {
		var stderr bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(&stderr)
		cmd.SetArgs(args)
		if err := cmd.Execute(); err == nil {
			t.Errorf("Expected error for args %v", args)
		}
	}
}

func TestListScenes(t *testing.T) {
	dir := t.TempDir()
	content := "name: Lamp\ndescription: A lonely lamp\nobjects: []\n"
	if err := os.WriteFile(filepath.Join(dir, "lamp.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := listScenes(&buf, dir); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"spheres", "room-soft", "file:lamp", "A lonely lamp"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected scene list to contain '%s':\n%s", want, buf.String())
		}
	}
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf, "rows", termenv.WithProfile(termenv.Ascii))

	for done := 1; done <= 40; done++ {
		p.Report(done, 40)
	}
	// Late out-of-order reports are ignored
	p.Report(3, 40)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("Expected 10 progress lines, got %d:\n%s", len(lines), buf.String())
	}
	if want := "[####################] 100% 40/40 rows"; lines[9] != want {
		t.Errorf("Expected final line '%s', got '%s'", want, lines[9])
	}
	if want := "[##..................]  10% 4/40 rows"; lines[0] != want {
		t.Errorf("Expected first line '%s', got '%s'", want, lines[0])
	}
}

func TestWatchedFiles(t *testing.T) {
	cfg := config.Default()

	if _, err := watchedFiles(cfg, ""); err != errNothingToWatch {
		t.Errorf("Expected errNothingToWatch for a built-in scene, got %v", err)
	}

	files, err := watchedFiles(cfg, "render.toml")
	if err != nil || len(files) != 1 || !filepath.IsAbs(files[0]) {
		t.Errorf("Expected one absolute config path, got %v (%v)", files, err)
	}

	cfg.Scene = "scenes/glass.yaml"
	files, err = watchedFiles(cfg, "render.toml")
	if err != nil || len(files) != 2 {
		t.Errorf("Expected scene and config paths, got %v (%v)", files, err)
	}
}

func TestRunWatch_RendersUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "ball.yaml")
	content := "width: 8\nheight: 8\nobjects:\n  - type: sphere\n    center: [0, 0, 10]\n    radius: 2\n"
	if err := os.WriteFile(scenePath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Scene = scenePath
	cfg.Output = filepath.Join(dir, "ball.png")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, cfg, "", nil, discardLogger(), io.Discard)
	}()

	deadline := time.After(5 * time.Second)
	for {
		if _, err := os.Stat(cfg.Output); err == nil {
			break
		}
		select {
		case <-deadline:
			cancel()
			t.Fatal("watch never rendered the scene")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean exit on cancel, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
