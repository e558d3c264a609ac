package renderer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"golang.org/x/sync/errgroup"
)

// ErrNotExhausted is returned when every worker stopped without error but
// the pixel grid was not fully claimed
var ErrNotExhausted = errors.New("render stopped before every pixel was claimed")

// WorkerError wraps a failure inside a render worker
type WorkerError struct {
	Worker int
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d: %v", e.Worker, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// PixelShader computes the color of one pixel. It is called concurrently;
// random belongs to the calling worker.
type PixelShader func(x, y int, random *rand.Rand) core.Color

// ProgressFunc receives the number of completed units (rows or columns) out of total
type ProgressFunc func(done, total int)

// DispatchConfig configures the worker pool
type DispatchConfig struct {
	Workers   int          // Number of parallel workers (0 = use CPU count)
	ChunkSize int          // Pixels claimed per lock acquisition (0 = 1)
	Progress  ProgressFunc // Called when the cursor moves past a row; may be nil
}

// Dispatcher hands out pixels of a width x height grid to a pool of workers.
// The cursor is the only shared mutable state; shading runs outside the lock.
type Dispatcher struct {
	width, height int
	config        DispatchConfig

	mu      sync.Mutex
	x, y    int  // Next unclaimed pixel
	written bool // Set by the first worker that sees the grid exhausted
	claims  int  // Lock acquisitions that returned pixels

	done chan struct{}
}

// NewDispatcher creates a dispatcher for one render
func NewDispatcher(width, height int, config DispatchConfig) *Dispatcher {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = 1
	}
	return &Dispatcher{
		width:  max(0, width),
		height: max(0, height),
		config: config,
		done:   make(chan struct{}),
	}
}

// Done is closed once every pixel has been claimed
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// GetNumWorkers returns the number of workers in the pool
func (d *Dispatcher) GetNumWorkers() int {
	return d.config.Workers
}

// claim takes the next run of up to ChunkSize pixels in row-major order and
// returns its first linear index and length. A zero length means the grid is
// exhausted.
func (d *Dispatcher) claim() (start, n int) {
	d.mu.Lock()

	total := d.width * d.height
	start = d.y*d.width + d.x
	if d.width == 0 || start >= total {
		if !d.written {
			d.written = true
			close(d.done)
		}
		d.mu.Unlock()
		return 0, 0
	}

	n = min(d.config.ChunkSize, total-start)
	rowBefore := d.y
	next := start + n
	d.x, d.y = next%d.width, next/d.width
	d.claims++
	rowAfter := d.y

	d.mu.Unlock()

	if d.config.Progress != nil && rowAfter > rowBefore {
		d.config.Progress(rowAfter, d.height)
	}
	return start, n
}

// Render runs the workers until the grid is exhausted, then calls encode
// exactly once. The first worker error (including a recovered panic) or
// context cancellation stops the remaining workers and is returned instead;
// encode is not called in that case.
func (d *Dispatcher) Render(ctx context.Context, shade PixelShader, fb *Framebuffer, encode func(*Framebuffer) error) (RenderStats, error) {
	startTime := time.Now()
	stats := RenderStats{
		TotalPixels:     d.width * d.height,
		Workers:         d.config.Workers,
		ChunkSize:       d.config.ChunkSize,
		PixelsPerWorker: make([]int, d.config.Workers),
	}

	if fb.Width != d.width || fb.Height != d.height {
		return stats, fmt.Errorf("framebuffer is %dx%d, dispatcher grid is %dx%d", fb.Width, fb.Height, d.width, d.height)
	}

	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < d.config.Workers; id++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &WorkerError{Worker: id, Err: fmt.Errorf("panic: %v", r)}
				}
			}()
			return d.work(ctx, shade, fb, &stats.PixelsPerWorker[id])
		})
	}

	err := g.Wait()
	stats.Duration = time.Since(startTime)
	stats.Claims = d.claims
	if err != nil {
		return stats, err
	}

	select {
	case <-d.done:
	default:
		return stats, ErrNotExhausted
	}

	if encode != nil {
		if err := encode(fb); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// work is the main worker loop
func (d *Dispatcher) work(ctx context.Context, shade PixelShader, fb *Framebuffer, rendered *int) error {
	random := NewPixelRandom()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start, n := d.claim()
		if n == 0 {
			return nil
		}

		// Each index is claimed once, so writes need no lock
		for i := start; i < start+n; i++ {
			fb.Pixels[i] = shade(i%d.width, i/d.width, random).ABGR()
		}
		*rendered += n
	}
}
