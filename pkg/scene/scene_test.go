package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(s *Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"depth zero", func(s *Settings) { s.MaxRayDepth = 0 }, false},
		{"negative depth", func(s *Settings) { s.MaxRayDepth = -1 }, true},
		{"soft shadows without samples", func(s *Settings) { s.SoftShadows = true; s.SoftShadowSamples = 0 }, true},
		{"soft shadows negative scale", func(s *Settings) { s.SoftShadows = true; s.SoftShadowsScale = -1 }, true},
		{"samples ignored when off", func(s *Settings) { s.SoftShadowSamples = 0 }, false},
		{"random diffuse without count", func(s *Settings) { s.RandomDiffuseRay = true; s.RandomDiffuseCount = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.modify(&settings)
			err := settings.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidSettings))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScene_Lights(t *testing.T) {
	s := New("test", geometry.NewDefaultCamera(10, 10))
	s.AddObject(geometry.NewSphere(core.NewVec3(0, 0, 10), 1))
	light := geometry.NewSphereWithMaterial(core.NewVec3(0, 5, 10), 1, material.NewLight(core.White, 1))
	s.AddObject(light)
	s.AddObject(geometry.NewPlaneWithMaterial(core.NewVec3(0, -1, 0), core.AxisY, material.NewLight(core.White, 1)))

	lights := s.Lights()
	require.Len(t, lights, 1, "glowing planes have no center to aim at")
	assert.Same(t, light, lights[0])
	assert.Equal(t, 3, s.GetPrimitiveCount())
}

func TestScene_Validate(t *testing.T) {
	s := New("test", geometry.NewDefaultCamera(10, 10))
	s.AddObject(geometry.NewSphere(core.NewVec3(0, 0, 10), 1))
	require.NoError(t, s.Validate())

	bad := material.New()
	bad.Reflect = 2
	s.AddObject(geometry.NewSphereWithMaterial(core.NewVec3(0, 0, 20), 1, bad))
	assert.True(t, errors.Is(s.Validate(), material.ErrInvalidMaterial))

	noCamera := New("no camera", nil)
	assert.True(t, errors.Is(noCamera.Validate(), ErrInvalidSettings))
}

func TestBuiltin(t *testing.T) {
	for _, info := range BuiltinScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Builtin(info.ID, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, info.ID, s.Name)
			assert.NoError(t, s.Validate())
			assert.NotEmpty(t, s.Lights())

			sized, err := Builtin(info.ID, 40, 30)
			require.NoError(t, err)
			assert.Equal(t, 40, sized.Camera.GetWidth())
			assert.Equal(t, 30, sized.Camera.GetHeight())
		})
	}

	_, err := Builtin("nope", 10, 10)
	assert.True(t, errors.Is(err, ErrUnknownScene))
}

func TestSpheresScene_Layout(t *testing.T) {
	s := NewSpheresScene(250, 250)
	require.Len(t, s.Objects, 4)

	red := s.Objects[0].(*geometry.Sphere)
	assert.Equal(t, core.NewVec3(20, 20, 100), red.Position)
	assert.Equal(t, core.Red, red.Material.Color)
	assert.Equal(t, 1.0, s.Objects[3].GetMaterial().Reflect)
}

func TestSoftRoomScene(t *testing.T) {
	s := NewSoftRoomScene(100, 100, 2)

	assert.True(t, s.Settings.SoftShadows)
	assert.True(t, s.Settings.RandomDiffuseRay)
	assert.Equal(t, 8, s.Settings.RandomDiffuseCount)

	uv, ok := s.Objects[len(s.Objects)-1].(*geometry.UVSphere)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(60, 40, 180), uv.Position)
	assert.NotNil(t, uv.Material.UVMap)

	// The light is hidden from rays but still lights the room
	lights := s.Lights()
	require.Len(t, lights, 1)
	assert.False(t, lights[0].GetMaterial().SurfaceVisible)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	content := `width: 32
height: 16
settings:
  background: blue
  max_ray_depth: 2
objects:
  - type: sphere
    center: [0, 0, 10]
    radius: 1
  - type: uvsphere
    center: [3, 0, 10]
    radius: 1
    pole: [0, 0, 1]
  - type: plane
    point: [0, -1, 0]
    normal: [0, 2, 0]
`
	path := filepath.Join(dir, "small.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	byPath, err := Load(path, 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, "small", byPath.Name)
	assert.Equal(t, 32, byPath.Camera.GetWidth())
	assert.Equal(t, 16, byPath.Camera.GetHeight())
	assert.Equal(t, core.Blue, byPath.Settings.Background)
	assert.Equal(t, 2, byPath.Settings.MaxRayDepth)
	assert.True(t, byPath.Settings.DiffuseLight, "unset settings keep defaults")
	require.Len(t, byPath.Objects, 3)
	assert.Equal(t, core.AxisZ, byPath.Objects[1].(*geometry.UVSphere).Pole)
	assert.Equal(t, core.AxisY, byPath.Objects[2].(*geometry.Plane).Normal)

	byID, err := Load("file:small", 8, 8, dir)
	require.NoError(t, err)
	assert.Equal(t, 8, byID.Camera.GetWidth())

	builtin, err := Load("spheres", 0, 0, dir)
	require.NoError(t, err)
	assert.Equal(t, 250, builtin.Camera.GetWidth())

	_, err = Load("file:missing", 0, 0, dir)
	assert.True(t, errors.Is(err, ErrUnknownScene))
	_, err = Load("cornell", 0, 0, dir)
	assert.True(t, errors.Is(err, ErrUnknownScene))
}

func TestFromFile_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"zero radius":  "objects:\n  - type: sphere\n    center: [0, 0, 1]\n    radius: 0\n",
		"short vector": "objects:\n  - type: sphere\n    center: [0, 0]\n    radius: 1\n",
		"zero normal":  "objects:\n  - type: plane\n    point: [0, 0, 0]\n    normal: [0, 0, 0]\n",
		"bad material": "objects:\n  - type: sphere\n    center: [0, 0, 1]\n    radius: 1\n    material:\n      refract: 3\n",
		"bad camera":   "camera:\n  center: [1]\n",
		"bad settings": "settings:\n  max_ray_depth: -2\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "scene.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := Load(path, 0, 0, "")
			assert.Error(t, err)
		})
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lamp.yml")
	require.NoError(t, os.WriteFile(path, []byte("objects: []\n"), 0o644))

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"room", "", false},
		{"file:lamp", path, false},
		{"other/scene.yaml", "other/scene.yaml", false},
		{"file:nope", "", true},
		{"scene.pbrt", "", true},
		{"file:../lamp", "", true},
		{"file:sub/lamp", "", true},
		{"file:", "", true},
	}
	for _, tt := range tests {
		got, err := ResolvePath(tt.ref, dir)
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrUnknownScene), tt.ref)
			continue
		}
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.want, got, tt.ref)
	}
}

func TestIsCatalogRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"spheres", true},
		{"room-soft", true},
		{"file:lamp", true},
		{"file:../lamp", false},
		{"file:..", false},
		{"/etc/scene.yaml", false},
		{"scenes/glass.yaml", false},
		{"cornell", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCatalogRef(tt.ref), tt.ref)
	}
}
