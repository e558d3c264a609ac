package material

import (
	"image"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere uv coordinates are angles: u is the azimuth in [-pi, pi] and v the
// polar angle from +Y in [0, pi].

// Solid returns a uv map that ignores the coordinates
func Solid(color core.Color) UVMap {
	return func(u, v float64) core.Color {
		return color
	}
}

// Checker returns the quadrant checker pattern: the sphere is split every
// pi/2 radians (u shifted by one radian) and alternating cells take a and b.
func Checker(a, b core.Color) UVMap {
	return func(u, v float64) core.Color {
		iu := int((u + 1) / math.Pi * 2)
		iv := int(v / math.Pi * 2)
		if (iu%2 != 0) != (iv%2 != 0) {
			return a
		}
		return b
	}
}

// CheckerGrid returns a checker with nu cells around and nv cells top to bottom
func CheckerGrid(a, b core.Color, nu, nv int) UVMap {
	nu = max(1, nu)
	nv = max(1, nv)
	return func(u, v float64) core.Color {
		s, t := normalizeUV(u, v)
		iu := min(nu-1, int(s*float64(nu)))
		iv := min(nv-1, int(t*float64(nv)))
		if (iu+iv)%2 == 0 {
			return a
		}
		return b
	}
}

// Stripes returns horizontal bands alternating between a and b
func Stripes(a, b core.Color, bands int) UVMap {
	bands = max(1, bands)
	return func(u, v float64) core.Color {
		_, t := normalizeUV(u, v)
		if min(bands-1, int(t*float64(bands)))%2 == 0 {
			return a
		}
		return b
	}
}

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Color) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// NewImageTextureFromImage copies a decoded image into a texture
func NewImageTextureFromImage(img image.Image) *ImageTexture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Color, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = core.ColorFromStd(img.At(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}
	return NewImageTexture(width, height, pixels)
}

// Sample returns the nearest texel for normalized coordinates (s, t); t=0 is the top row
func (t *ImageTexture) Sample(s, tt float64) core.Color {
	if t.Width == 0 || t.Height == 0 {
		return core.Black
	}
	x := min(t.Width-1, max(0, int(s*float64(t.Width))))
	y := min(t.Height-1, max(0, int(tt*float64(t.Height))))
	return t.Pixels[y*t.Width+x]
}

// UVMap wraps the texture around a sphere (equirectangular projection)
func (t *ImageTexture) UVMap() UVMap {
	return func(u, v float64) core.Color {
		s, tt := normalizeUV(u, v)
		return t.Sample(s, tt)
	}
}

// normalizeUV maps sphere angles to [0,1] x [0,1]
func normalizeUV(u, v float64) (float64, float64) {
	s := (u + math.Pi) / (2 * math.Pi)
	s -= math.Floor(s)
	t := max(0, min(1, v/math.Pi))
	return s, t
}
