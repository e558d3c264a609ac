package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidMaterial is returned by Validate for out-of-range coefficients
var ErrInvalidMaterial = errors.New("invalid material")

// UVMap computes a surface color from texture coordinates. Implementations
// must be pure: they are called concurrently from every render worker.
type UVMap func(u, v float64) core.Color

// Material describes how a surface is shaded
type Material struct {
	Color          core.Color // Flat surface color
	Diffuse        float64    // Direct lighting weight [0,1]
	Reflect        float64    // Mirror reflection weight [0,1]
	Refract        float64    // Transmission weight [0,1]
	RefractIndex   float64    // Relative index of refraction used with Refract
	Luminosity     float64    // Emissive strength [0,1]; > 0 makes the object a light
	SurfaceVisible bool       // False hides the surface from traced rays while it still lights the scene
	UVMap          UVMap      // Optional procedural color, overrides Color where uv is known
}

// New returns the default material: white, fully diffuse, opaque and visible
func New() Material {
	return Material{
		Color:          core.White,
		Diffuse:        1.0,
		RefractIndex:   1.0,
		SurfaceVisible: true,
	}
}

// NewDiffuse returns a default material with the given color
func NewDiffuse(color core.Color) Material {
	m := New()
	m.Color = color
	return m
}

// NewLight returns an emissive material
func NewLight(color core.Color, luminosity float64) Material {
	m := New()
	m.Color = color
	m.Luminosity = luminosity
	return m
}

// NewMirror returns a fully reflective material
func NewMirror(color core.Color) Material {
	m := New()
	m.Color = color
	m.Reflect = 1.0
	return m
}

// NewGlass returns a mostly transmissive material with a little reflection
func NewGlass(color core.Color, refract, reflect, index float64) Material {
	m := New()
	m.Color = color
	m.Refract = refract
	m.Reflect = reflect
	m.RefractIndex = index
	return m
}

// IsLight reports whether the material emits light
func (m Material) IsLight() bool {
	return m.Luminosity > 0
}

// ColorAt returns the surface color, using the uv map when the hit provides coordinates
func (m Material) ColorAt(uv core.Vec2, hasUV bool) core.Color {
	if hasUV && m.UVMap != nil {
		return m.UVMap(uv.X, uv.Y)
	}
	return m.Color
}

// LocalWeight is the share of the surface color not taken by reflection or refraction
func (m Material) LocalWeight() float64 {
	return max(0, 1-m.Reflect-m.Refract)
}

// Validate checks that every coefficient is within range
func (m Material) Validate() error {
	coefficients := []struct {
		name  string
		value float64
	}{
		{"diffuse", m.Diffuse},
		{"reflect", m.Reflect},
		{"refract", m.Refract},
		{"luminosity", m.Luminosity},
	}
	for _, c := range coefficients {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %g", ErrInvalidMaterial, c.name, c.value)
		}
	}
	if m.Refract > 0 && m.RefractIndex <= 0 {
		return fmt.Errorf("%w: refract index must be positive, got %g", ErrInvalidMaterial, m.RefractIndex)
	}
	return nil
}
