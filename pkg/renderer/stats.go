package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	Workers         int           // Number of workers used
	ChunkSize       int           // Pixels claimed per lock acquisition
	Claims          int           // Successful cursor claims across all workers
	PixelsPerWorker []int         // Pixels shaded by each worker
	Duration        time.Duration // Wall time from start to last worker exit
}

// PixelsPerSecond returns the render throughput
func (s RenderStats) PixelsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalPixels) / s.Duration.Seconds()
}

// Balance returns the smallest worker share divided by the largest, 1 when
// every worker shaded the same number of pixels
func (s RenderStats) Balance() float64 {
	if len(s.PixelsPerWorker) == 0 {
		return 0
	}
	lo, hi := s.PixelsPerWorker[0], s.PixelsPerWorker[0]
	for _, n := range s.PixelsPerWorker[1:] {
		lo = min(lo, n)
		hi = max(hi, n)
	}
	if hi == 0 {
		return 0
	}
	return float64(lo) / float64(hi)
}
