package renderer

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Framebuffer is a row-major grid of packed ABGR pixels, the byte order
// consumed by the image encoder
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewFramebuffer allocates a transparent black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(0, width), max(0, height)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// Set stores the color of pixel (x, y)
func (f *Framebuffer) Set(x, y int, c core.Color) {
	f.Pixels[x+y*f.Width] = c.ABGR()
}

// At returns the color of pixel (x, y)
func (f *Framebuffer) At(x, y int) core.Color {
	return core.ColorFromABGR(f.Pixels[x+y*f.Width])
}

// Len returns the number of pixels
func (f *Framebuffer) Len() int {
	return len(f.Pixels)
}

// AverageLuminance returns the mean Rec. 709 luminance of all pixels in [0, 1]
func (f *Framebuffer) AverageLuminance() float64 {
	if len(f.Pixels) == 0 {
		return 0
	}
	var sum float64
	for _, p := range f.Pixels {
		sum += core.ColorFromABGR(p).Vec3().Luminance()
	}
	return sum / float64(len(f.Pixels))
}
