package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cliOptions holds the flags shared by render and watch
type cliOptions struct {
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{cfg: config.Default()}

	root := &cobra.Command{
		Use:           "raytracer",
		Short:         "Whitted-style ray tracer",
		Long:          "Renders built-in or YAML scenes with reflection, refraction and shadows into PNG, JPEG or BMP files.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")

	render := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a scene to an image file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd.Flags(), args)
			if err != nil {
				return reportError(cmd, err)
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return reportError(cmd, err)
			}
			_, err = runRender(cmd.Context(), cfg, logger, cmd.OutOrStdout())
			return reportError(cmd, err)
		},
	}
	addRenderFlags(render.Flags(), &opts.cfg)

	watch := &cobra.Command{
		Use:   "watch [scene]",
		Short: "Re-render whenever the scene file or configuration changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd.Flags(), args)
			if err != nil {
				return reportError(cmd, err)
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return reportError(cmd, err)
			}
			reload := func() (config.Config, error) { return opts.resolve(cmd.Flags(), args) }
			return reportError(cmd, runWatch(cmd.Context(), cfg, opts.configPath, reload, logger, cmd.OutOrStdout()))
		},
	}
	addRenderFlags(watch.Flags(), &opts.cfg)

	scenes := &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd.Flags(), nil)
			if err != nil {
				return reportError(cmd, err)
			}
			return reportError(cmd, listScenes(cmd.OutOrStdout(), cfg.ScenesDir))
		},
	}
	scenes.Flags().StringVar(&opts.cfg.ScenesDir, "scenes-dir", opts.cfg.ScenesDir, "Directory of YAML scene files")

	root.AddCommand(render, watch, scenes)
	return root
}

func addRenderFlags(flags *pflag.FlagSet, cfg *config.Config) {
	flags.StringVarP(&cfg.Scene, "scene", "s", cfg.Scene, "Built-in scene name, file:<name> or path to a YAML scene")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output file, or directory for <scene>/render_<timestamp> files")
	flags.StringVar(&cfg.Format, "format", cfg.Format, "Image format: png, jpeg or bmp (default from output extension)")
	flags.IntVar(&cfg.Quality, "quality", cfg.Quality, "JPEG quality 1-100")
	flags.IntVar(&cfg.Width, "width", cfg.Width, "Image width (0 = scene default)")
	flags.IntVar(&cfg.Height, "height", cfg.Height, "Image height (0 = scene default)")
	flags.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Parallel workers (0 = CPU count)")
	flags.IntVar(&cfg.ChunkSize, "chunk", cfg.ChunkSize, "Pixels claimed per dispatcher lock")
	flags.IntVar(&cfg.Supersample, "supersample", cfg.Supersample, "Render at N times the size and downscale")
	flags.BoolVar(&cfg.Sequential, "sequential", cfg.Sequential, "Render on a single goroutine")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Base seed for soft shadow and ambient ray sampling")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&cfg.ScenesDir, "scenes-dir", cfg.ScenesDir, "Directory of YAML scene files")
}

// resolve layers the config file under explicitly set flags. A positional
// argument names the scene.
func (o *cliOptions) resolve(flags *pflag.FlagSet, args []string) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = o.cfg.Scene
		case "output":
			cfg.Output = o.cfg.Output
		case "format":
			cfg.Format = o.cfg.Format
		case "quality":
			cfg.Quality = o.cfg.Quality
		case "width":
			cfg.Width = o.cfg.Width
		case "height":
			cfg.Height = o.cfg.Height
		case "workers":
			cfg.Workers = o.cfg.Workers
		case "chunk":
			cfg.ChunkSize = o.cfg.ChunkSize
		case "supersample":
			cfg.Supersample = o.cfg.Supersample
		case "sequential":
			cfg.Sequential = o.cfg.Sequential
		case "seed":
			cfg.Seed = o.cfg.Seed
		case "log-level":
			cfg.LogLevel = o.cfg.LogLevel
		case "scenes-dir":
			cfg.ScenesDir = o.cfg.ScenesDir
		}
	})
	if len(args) > 0 {
		cfg.Scene = args[0]
	}
	return cfg, cfg.Validate()
}

func reportError(cmd *cobra.Command, err error) error {
	if err != nil {
		out := termenv.NewOutput(cmd.ErrOrStderr())
		fmt.Fprintln(cmd.ErrOrStderr(), out.String("Error:").Foreground(out.Color("1")).Bold().String(), err)
	}
	return err
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := core.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// loadScene builds the scene at the configured size, scaled up for supersampling
func loadScene(cfg config.Config) (*scene.Scene, error) {
	s, err := scene.Load(cfg.Scene, cfg.Width, cfg.Height, cfg.ScenesDir)
	if err != nil || cfg.Supersample <= 1 {
		return s, err
	}
	width, height := s.Camera.GetWidth(), s.Camera.GetHeight()
	return scene.Load(cfg.Scene, width*cfg.Supersample, height*cfg.Supersample, cfg.ScenesDir)
}

// sceneDirName returns the output subdirectory for a scene reference
func sceneDirName(ref string) string {
	if name, ok := strings.CutPrefix(ref, "file:"); ok {
		return name
	}
	if ext := filepath.Ext(ref); ext == ".yaml" || ext == ".yml" {
		return strings.TrimSuffix(filepath.Base(ref), ext)
	}
	return ref
}

// outputPath returns the configured file, or a timestamped file under
// <output>/<scene>/ when the output has no extension
func outputPath(cfg config.Config, now time.Time) string {
	if filepath.Ext(cfg.Output) != "" {
		return cfg.Output
	}
	name := fmt.Sprintf("render_%s%s", now.Format("20060102_150405"), cfg.OutputFormat().Extension())
	return filepath.Join(cfg.Output, sceneDirName(cfg.Scene), name)
}

// runRender renders one image and returns the path it was written to
func runRender(ctx context.Context, cfg config.Config, logger *slog.Logger, out io.Writer) (string, error) {
	s, err := loadScene(cfg)
	if err != nil {
		return "", err
	}

	path := outputPath(cfg, time.Now())
	factor := max(1, cfg.Supersample)
	encodeOpts := imageio.Options{Format: cfg.OutputFormat(), Quality: cfg.Quality}

	encode := func(fb *renderer.Framebuffer) error {
		pixels, width, height := fb.Pixels, fb.Width, fb.Height
		if factor > 1 {
			var err error
			pixels, width, height, err = imageio.DownscalePixels(pixels, width, height, factor)
			if err != nil {
				return err
			}
		}
		return imageio.Encode(path, pixels, width, height, encodeOpts)
	}

	label := "rows"
	if cfg.Sequential {
		label = "columns"
	}
	progress := newProgressPrinter(out, label)

	fb, stats, err := renderer.Render(ctx, s, renderer.Options{
		Workers:    cfg.Workers,
		ChunkSize:  cfg.ChunkSize,
		Sequential: cfg.Sequential,
		Seed:       cfg.Seed,
		Progress:   progress.Report,
		Logger:     core.NewSlogLogger(logger),
	}, encode)
	if err != nil {
		logger.Error("render failed", "scene", s.Name, "error", err)
		return "", err
	}

	logger.Info("render saved",
		"path", path,
		"width", fb.Width/factor,
		"height", fb.Height/factor,
		"duration", stats.Duration.Round(time.Millisecond),
		"luminance", fmt.Sprintf("%.3f", fb.AverageLuminance()))
	return path, nil
}

func listScenes(w io.Writer, scenesDir string) error {
	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}

	out := termenv.NewOutput(w)
	for _, group := range response.Groups {
		fmt.Fprintln(w, out.String(group.Name).Bold().String())
		for _, info := range group.Scenes {
			id := out.String(fmt.Sprintf("  %-20s", info.ID)).Foreground(out.Color("6")).String()
			if info.Description != "" {
				fmt.Fprintf(w, "%s %s\n", id, info.Description)
			} else {
				fmt.Fprintf(w, "%s %s\n", id, info.DisplayName)
			}
		}
	}
	return nil
}
