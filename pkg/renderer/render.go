package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Options configures a scene render
type Options struct {
	Workers    int          // Parallel workers (0 = use CPU count)
	ChunkSize  int          // Pixels claimed per lock acquisition (0 = 1)
	Sequential bool         // Render on the calling goroutine, column by column
	Seed       int64        // Base seed for per-pixel randomness (0 = raytracer default)
	Progress   ProgressFunc // Row (parallel) or column (sequential) progress; may be nil
	Logger     core.Logger  // Defaults to DefaultLogger
}

// Render traces every pixel of the scene into a new framebuffer, then calls
// encode (if non-nil) exactly once with the finished framebuffer
func Render(ctx context.Context, s *scene.Scene, opts Options, encode func(*Framebuffer) error) (*Framebuffer, RenderStats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	if err := s.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	width, height := s.Camera.GetWidth(), s.Camera.GetHeight()
	rt := NewRaytracer(s)
	if opts.Seed != 0 {
		rt.SetSeed(opts.Seed)
	}
	fb := NewFramebuffer(width, height)

	if opts.Sequential {
		logger.Printf("Rendering %s (%dx%d, %d objects) sequentially...\n", s.Name, width, height, s.GetPrimitiveCount())
		stats, err := RenderSequential(ctx, rt.PixelColor, fb, opts.Progress)
		if err != nil {
			return fb, stats, err
		}
		logger.Printf("Render completed in %v\n", stats.Duration)
		if encode != nil {
			if err := encode(fb); err != nil {
				return fb, stats, err
			}
		}
		return fb, stats, nil
	}

	dispatcher := NewDispatcher(width, height, DispatchConfig{
		Workers:   opts.Workers,
		ChunkSize: opts.ChunkSize,
		Progress:  opts.Progress,
	})
	logger.Printf("Rendering %s (%dx%d, %d objects) using %d workers...\n",
		s.Name, width, height, s.GetPrimitiveCount(), dispatcher.GetNumWorkers())

	stats, err := dispatcher.Render(ctx, rt.PixelColor, fb, encode)
	if err != nil {
		return fb, stats, err
	}
	logger.Printf("Render completed in %v (%.0f pixels/s, worker balance %.2f)\n",
		stats.Duration, stats.PixelsPerSecond(), stats.Balance())
	return fb, stats, nil
}

// RenderSequential shades the framebuffer on the calling goroutine one column
// at a time, reporting progress after each column
func RenderSequential(ctx context.Context, shade PixelShader, fb *Framebuffer, progress ProgressFunc) (RenderStats, error) {
	startTime := time.Now()
	stats := RenderStats{
		TotalPixels:     fb.Len(),
		Workers:         1,
		ChunkSize:       fb.Height,
		PixelsPerWorker: make([]int, 1),
	}

	random := NewPixelRandom()
	for x := 0; x < fb.Width; x++ {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(startTime)
			return stats, err
		}
		for y := 0; y < fb.Height; y++ {
			fb.Pixels[x+y*fb.Width] = shade(x, y, random).ABGR()
		}
		stats.Claims++
		stats.PixelsPerWorker[0] += fb.Height
		if progress != nil {
			progress(x+1, fb.Width)
		}
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}
