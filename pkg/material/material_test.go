package material

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	m := New()

	assert.Equal(t, core.White, m.Color)
	assert.Equal(t, 1.0, m.Diffuse)
	assert.Equal(t, 1.0, m.RefractIndex)
	assert.True(t, m.SurfaceVisible)
	assert.False(t, m.IsLight())
	assert.Equal(t, 1.0, m.LocalWeight())
	assert.NoError(t, m.Validate())
}

func TestMaterial_LocalWeight(t *testing.T) {
	assert.Equal(t, 0.0, NewMirror(core.White).LocalWeight())
	glass := NewGlass(core.White, 0.9, 0.1, 1.5)
	assert.InDelta(t, 0.0, glass.LocalWeight(), 1e-12)

	half := New()
	half.Reflect = 0.25
	half.Refract = 0.25
	assert.Equal(t, 0.5, half.LocalWeight())

	over := New()
	over.Reflect = 1
	over.Refract = 1
	assert.Equal(t, 0.0, over.LocalWeight())
}

func TestMaterial_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(m *Material)
		valid  bool
	}{
		{"default", func(m *Material) {}, true},
		{"light", func(m *Material) { m.Luminosity = 1 }, true},
		{"negative diffuse", func(m *Material) { m.Diffuse = -0.1 }, false},
		{"reflect above one", func(m *Material) { m.Reflect = 1.5 }, false},
		{"refract without index", func(m *Material) { m.Refract = 0.5; m.RefractIndex = 0 }, false},
		{"index without refract is ignored", func(m *Material) { m.RefractIndex = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			tt.modify(&m)
			err := m.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidMaterial)
			}
		})
	}
}

func TestMaterial_ColorAt(t *testing.T) {
	m := NewDiffuse(core.Red)
	assert.Equal(t, core.Red, m.ColorAt(core.NewVec2(0, 0), true))

	m.UVMap = Solid(core.Blue)
	assert.Equal(t, core.Blue, m.ColorAt(core.NewVec2(0, 0), true))
	assert.Equal(t, core.Red, m.ColorAt(core.NewVec2(0, 0), false))
}

func TestChecker_Quadrants(t *testing.T) {
	checker := Checker(core.Magenta, core.Black)

	tests := []struct {
		name     string
		u, v     float64
		expected core.Color
	}{
		// (u+1)/(pi/2) and v/(pi/2) cell indices
		{"both even", -1, 0.1, core.Black},
		{"u odd", math.Pi/2 - 0.5, 0.1, core.Magenta},
		{"v odd", -1, math.Pi/2 + 0.1, core.Magenta},
		{"both odd", math.Pi/2 - 0.5, math.Pi/2 + 0.1, core.Black},
		{"negative odd u", -math.Pi, 0.1, core.Magenta},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, checker(tt.u, tt.v))
		})
	}
}

func TestCheckerGrid_Alternates(t *testing.T) {
	grid := CheckerGrid(core.White, core.Black, 4, 2)

	// u = -pi is s = 0, v = 0 is t = 0
	assert.Equal(t, core.White, grid(-math.Pi+0.01, 0.01))
	assert.Equal(t, core.Black, grid(-math.Pi/2+0.01, 0.01))
	assert.Equal(t, core.Black, grid(-math.Pi+0.01, math.Pi-0.01))
	// The seam wraps instead of indexing out of range
	assert.Equal(t, core.White, grid(math.Pi, 0.01))
	assert.Equal(t, core.Black, grid(math.Pi, math.Pi))
}

func TestStripes(t *testing.T) {
	stripes := Stripes(core.Red, core.Green, 2)
	assert.Equal(t, core.Red, stripes(0, 0.1))
	assert.Equal(t, core.Green, stripes(0, math.Pi-0.1))
}

func TestImageTexture_UVMap(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})

	texture := NewImageTextureFromImage(img)
	assert.Equal(t, 2, texture.Width)
	assert.Equal(t, 2, texture.Height)

	uv := texture.UVMap()
	assert.Equal(t, core.Red, uv(-math.Pi+0.1, 0.1))
	assert.Equal(t, core.Green, uv(0.1, 0.1))
	assert.Equal(t, core.Blue, uv(-math.Pi+0.1, math.Pi-0.1))
	assert.Equal(t, core.White, uv(0.1, math.Pi-0.1))

	empty := NewImageTexture(0, 0, nil)
	assert.Equal(t, core.Black, empty.Sample(0.5, 0.5))
}
