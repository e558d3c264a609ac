package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSceneFile is returned for scene files that parse but describe an unusable scene
var ErrInvalidSceneFile = errors.New("invalid scene file")

// SceneFile is the YAML description of a scene
type SceneFile struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Group       string       `yaml:"group"`
	Width       int          `yaml:"width"`
	Height      int          `yaml:"height"`
	Settings    SettingsSpec `yaml:"settings"`
	Camera      *CameraSpec  `yaml:"camera"`
	Objects     []ObjectSpec `yaml:"objects"`

	// BaseDir resolves relative texture paths; set by LoadSceneFile
	BaseDir string `yaml:"-"`
}

// SettingsSpec overrides scene settings; nil fields keep their defaults
type SettingsSpec struct {
	Background         *ColorValue `yaml:"background"`
	SoftShadows        *bool       `yaml:"soft_shadows"`
	SoftShadowsScale   *float64    `yaml:"soft_shadows_scale"`
	SoftShadowSamples  *int        `yaml:"soft_shadow_samples"`
	DiffuseLight       *bool       `yaml:"diffuse_light"`
	RandomDiffuseRay   *bool       `yaml:"random_diffuse_ray"`
	RandomDiffuseCount *int        `yaml:"random_diffuse_count"`
	MaxRayDepth        *int        `yaml:"max_ray_depth"`
}

// CameraSpec describes the camera; missing vectors fall back to the default camera
type CameraSpec struct {
	Center []float64 `yaml:"center"`
	LookAt []float64 `yaml:"look_at"`
	Up     []float64 `yaml:"up"`
	VFov   float64   `yaml:"vfov"`
}

// ObjectSpec describes one sphere, plane or uvsphere
type ObjectSpec struct {
	Type     string       `yaml:"type"`
	Name     string       `yaml:"name"`
	Center   []float64    `yaml:"center"`   // sphere, uvsphere
	Radius   float64      `yaml:"radius"`   // sphere, uvsphere
	Point    []float64    `yaml:"point"`    // plane
	Normal   []float64    `yaml:"normal"`   // plane
	Pole     []float64    `yaml:"pole"`     // uvsphere
	Meridian []float64    `yaml:"meridian"` // uvsphere
	Material MaterialSpec `yaml:"material"`
}

// MaterialSpec overrides the default material
type MaterialSpec struct {
	Color          *ColorValue `yaml:"color"`
	Diffuse        *float64    `yaml:"diffuse"`
	Reflect        *float64    `yaml:"reflect"`
	Refract        *float64    `yaml:"refract"`
	RefractIndex   *float64    `yaml:"refract_index"`
	Luminosity     *float64    `yaml:"luminosity"`
	SurfaceVisible *bool       `yaml:"surface_visible"`
	UVMap          *UVMapSpec  `yaml:"uv_map"`
}

// UVMapSpec selects a procedural or image uv map
type UVMapSpec struct {
	Type   string       `yaml:"type"` // checker, grid, stripes, image, solid
	Colors []ColorValue `yaml:"colors"`
	Cells  []int        `yaml:"cells"` // grid: [nu, nv]
	Bands  int          `yaml:"bands"` // stripes
	Path   string       `yaml:"path"`  // image
}

// LoadSceneFile reads and parses a YAML scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	file, err := ParseSceneFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	file.BaseDir = filepath.Dir(filename)
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return file, nil
}

// ParseSceneFile parses a YAML scene description. Unknown keys are rejected.
func ParseSceneFile(r io.Reader) (*SceneFile, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file SceneFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSceneFile)
		}
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}

	if file.Width < 0 || file.Height < 0 {
		return nil, fmt.Errorf("%w: negative image size %dx%d", ErrInvalidSceneFile, file.Width, file.Height)
	}
	for i, obj := range file.Objects {
		switch obj.Type {
		case "sphere", "uvsphere", "plane":
		default:
			return nil, fmt.Errorf("%w: object %d: unknown type %q", ErrInvalidSceneFile, i, obj.Type)
		}
	}
	return &file, nil
}

// Vec3 converts a three element list to a vector
func Vec3(values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: vector needs 3 components, got %d", ErrInvalidSceneFile, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// Vec3Or converts values to a vector, or returns fallback when values is empty
func Vec3Or(values []float64, fallback core.Vec3) (core.Vec3, error) {
	if len(values) == 0 {
		return fallback, nil
	}
	return Vec3(values)
}

// Build returns the material described by the spec. Relative image
// paths are resolved against baseDir.
func (m MaterialSpec) Build(baseDir string) (material.Material, error) {
	mat := material.New()
	if m.Color != nil {
		mat.Color = m.Color.Color
	}
	setFloat(&mat.Diffuse, m.Diffuse)
	setFloat(&mat.Reflect, m.Reflect)
	setFloat(&mat.Refract, m.Refract)
	setFloat(&mat.RefractIndex, m.RefractIndex)
	setFloat(&mat.Luminosity, m.Luminosity)
	if m.SurfaceVisible != nil {
		mat.SurfaceVisible = *m.SurfaceVisible
	}

	if m.UVMap != nil {
		uvMap, err := m.UVMap.Build(baseDir)
		if err != nil {
			return mat, err
		}
		mat.UVMap = uvMap
	}

	if err := mat.Validate(); err != nil {
		return mat, err
	}
	return mat, nil
}

// Build returns the uv map described by the spec
func (u UVMapSpec) Build(baseDir string) (material.UVMap, error) {
	colors := make([]core.Color, len(u.Colors))
	for i, c := range u.Colors {
		colors[i] = c.Color
	}
	pair := func() (core.Color, core.Color) {
		a, b := core.Magenta, core.Black
		if len(colors) > 0 {
			a = colors[0]
		}
		if len(colors) > 1 {
			b = colors[1]
		}
		return a, b
	}

	switch u.Type {
	case "checker":
		a, b := pair()
		return material.Checker(a, b), nil
	case "grid":
		if len(u.Cells) != 2 || u.Cells[0] <= 0 || u.Cells[1] <= 0 {
			return nil, fmt.Errorf("%w: grid uv map needs cells: [nu, nv]", ErrInvalidSceneFile)
		}
		a, b := pair()
		return material.CheckerGrid(a, b, u.Cells[0], u.Cells[1]), nil
	case "stripes":
		if u.Bands <= 0 {
			return nil, fmt.Errorf("%w: stripes uv map needs bands > 0", ErrInvalidSceneFile)
		}
		a, b := pair()
		return material.Stripes(a, b, u.Bands), nil
	case "solid":
		a, _ := pair()
		return material.Solid(a), nil
	case "image":
		if u.Path == "" {
			return nil, fmt.Errorf("%w: image uv map needs a path", ErrInvalidSceneFile)
		}
		path := u.Path
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		texture, err := LoadTexture(path)
		if err != nil {
			return nil, err
		}
		return texture.UVMap(), nil
	default:
		return nil, fmt.Errorf("%w: unknown uv map type %q", ErrInvalidSceneFile, u.Type)
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
