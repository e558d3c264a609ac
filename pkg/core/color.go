package core

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an 8-bit per channel RGBA color. Arithmetic saturates at 0 and 255.
type Color struct {
	R, G, B, A uint8
}

// Named colors
var (
	Black   = Color{0, 0, 0, 255}
	White   = Color{255, 255, 255, 255}
	Red     = Color{255, 0, 0, 255}
	Green   = Color{0, 255, 0, 255}
	Blue    = Color{0, 0, 255, 255}
	Yellow  = Color{255, 255, 0, 255}
	Cyan    = Color{0, 255, 255, 255}
	Magenta = Color{255, 0, 255, 255}
)

// NewColor creates an opaque color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

func saturate(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Add returns the channel-wise saturated sum
func (c Color) Add(other Color) Color {
	return Color{
		R: saturate(int(c.R) + int(other.R)),
		G: saturate(int(c.G) + int(other.G)),
		B: saturate(int(c.B) + int(other.B)),
		A: saturate(int(c.A) + int(other.A)),
	}
}

// Scale multiplies the color channels (not alpha) by s, clamped to [0, 255]
func (c Color) Scale(s float64) Color {
	scale := func(v uint8) uint8 {
		f := float64(v) * s
		if math.IsNaN(f) || f <= 0 {
			return 0
		}
		if f >= 255 {
			return 255
		}
		return uint8(math.Round(f))
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// Modulate returns the channel-wise product, treating channels as [0, 1]
func (c Color) Modulate(other Color) Color {
	mul := func(a, b uint8) uint8 {
		return uint8((int(a)*int(b) + 127) / 255)
	}
	return Color{R: mul(c.R, other.R), G: mul(c.G, other.G), B: mul(c.B, other.B), A: mul(c.A, other.A)}
}

// Blend linearly interpolates from c (t=0) to other (t=1); t is clamped to [0, 1]
func (c Color) Blend(other Color, t float64) Color {
	t = max(0, min(1, t))
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*(1-t) + float64(b)*t))
	}
	return Color{R: lerp(c.R, other.R), G: lerp(c.G, other.G), B: lerp(c.B, other.B), A: lerp(c.A, other.A)}
}

// ABGR packs the color as A<<24 | B<<16 | G<<8 | R. Stored little-endian this
// is the byte sequence R, G, B, A consumed by the PNG encoder.
func (c Color) ABGR() uint32 {
	return uint32(c.A)<<24 | uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
}

// ARGB packs the color as A<<24 | R<<16 | G<<8 | B
func (c Color) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ColorFromABGR unpacks a value produced by Color.ABGR
func ColorFromABGR(p uint32) Color {
	return Color{R: uint8(p), G: uint8(p >> 8), B: uint8(p >> 16), A: uint8(p >> 24)}
}

// ColorFromARGB unpacks a value produced by Color.ARGB
func ColorFromARGB(p uint32) Color {
	return Color{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: uint8(p >> 24)}
}

// Vec3 returns the RGB channels normalized to [0, 1]
func (c Color) Vec3() Vec3 {
	return Vec3{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// ColorFromVec3 converts a floating point RGB accumulator to an opaque color,
// clamping each channel to [0, 1]
func ColorFromVec3(v Vec3) Color {
	return Color{R: quantize(v.X), G: quantize(v.Y), B: quantize(v.Z), A: 255}
}

// RGBA implements color.Color
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// NRGBA converts to the standard library non-premultiplied color
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Hex formats the color as #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorFromStd converts any color.Color to a Color
func ColorFromStd(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
