package geometry

import (
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamera_CenterRayFollowsLookAt(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Width:  400,
		Height: 400,
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   45.0,
	})

	forward := camera.GetRayAt(200, 200).Direction
	assert.InDelta(t, -1.0, forward.Z, 1e-9)
	assert.InDelta(t, 0.0, forward.Y, 1e-9)
	assert.InDelta(t, 0.0, forward.X, 1e-9)
}

func TestDefaultCamera_LooksDownPositiveZ(t *testing.T) {
	camera := NewDefaultCamera(50, 50)

	assert.Equal(t, 50, camera.GetWidth())
	assert.Equal(t, 50, camera.GetHeight())

	center := camera.GetRayAt(25, 25)
	assert.Equal(t, core.NewVec3(0, 0, 0), center.Origin)
	assert.InDelta(t, 1.0, center.Direction.Z, 1e-9)

	// Top-left pixel points up and to the left (world -X, +Y)
	corner := camera.GetRay(0, 0)
	assert.Less(t, corner.Direction.X, 0.0)
	assert.Greater(t, corner.Direction.Y, 0.0)
	assert.InDelta(t, 1.0, corner.Direction.Length(), 1e-9)
}

func TestCamera_ProjectInvertsGetRay(t *testing.T) {
	configs := []CameraConfig{
		DefaultCameraConfig(50, 50),
		DefaultCameraConfig(320, 200),
		{
			Width:  64,
			Height: 48,
			Center: core.NewVec3(3, 2, -10),
			LookAt: core.NewVec3(0, 0, 5),
			Up:     core.NewVec3(0, 1, 0),
			VFov:   70,
		},
	}

	for _, config := range configs {
		camera := NewCamera(config)
		for _, p := range [][2]float64{{0.5, 0.5}, {10.25, 7.75}, {float64(config.Width) - 1, float64(config.Height) - 2}} {
			ray := camera.GetRayAt(p[0], p[1])
			px, py, ok := camera.Project(ray.At(37))
			require.True(t, ok)
			assert.InDelta(t, p[0], px, 1e-6)
			assert.InDelta(t, p[1], py, 1e-6)
		}
	}
}

func TestCamera_ProjectKnownPoint(t *testing.T) {
	camera := NewDefaultCamera(50, 50)

	px, py, ok := camera.Project(core.NewVec3(20, 20, 100))
	require.True(t, ok)
	assert.InDelta(t, 35.0, px, 1e-9)
	assert.InDelta(t, 15.0, py, 1e-9)

	_, _, ok = camera.Project(core.NewVec3(0, 0, -5))
	assert.False(t, ok, "points behind the camera do not project")
}

func TestCamera_DegenerateConfig(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Width:  0,
		Height: 0,
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 0, 1),
		VFov:   60,
	})

	assert.Equal(t, 1, camera.GetWidth())
	ray := camera.GetRay(0, 0)
	assert.True(t, ray.Direction.IsFinite())
	assert.InDelta(t, 1.0, ray.Direction.Length(), 1e-9)
}
