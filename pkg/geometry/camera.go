package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera and its pixel grid
type CameraConfig struct {
	Width  int       // Image width in pixels
	Height int       // Image height in pixels
	Center core.Vec3 // Camera position
	LookAt core.Vec3 // Point the camera looks at
	Up     core.Vec3 // Up direction
	VFov   float64   // Vertical field of view in degrees
}

// DefaultCameraConfig returns a camera at the origin looking down +Z with +Y up.
// The field of view puts the image plane one longest-side pixel count away, so
// a square image spans about 53 degrees.
func DefaultCameraConfig(width, height int) CameraConfig {
	longest := float64(max(width, height, 1))
	vfov := 2 * math.Atan(0.5*float64(height)/longest) * 180 / math.Pi
	return CameraConfig{
		Width:  width,
		Height: height,
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, 1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   vfov,
	}
}

// Camera maps pixel coordinates to primary rays
type Camera struct {
	config     CameraConfig
	origin     core.Vec3
	forward    core.Vec3 // w: unit view direction
	right      core.Vec3 // u: image x axis
	up         core.Vec3 // v: image y axis (world up, image rows go down)
	halfWidth  float64   // Half viewport extent at unit distance
	halfHeight float64
}

// NewCamera creates a camera from the config
func NewCamera(config CameraConfig) *Camera {
	config.Width = max(1, config.Width)
	config.Height = max(1, config.Height)

	forward := config.LookAt.Subtract(config.Center).Normalize()
	if forward.IsZero() {
		forward = core.AxisZ
	}
	right := config.Up.Cross(forward).Normalize()
	if right.IsZero() {
		// Up parallel to the view direction; pick any perpendicular
		right = core.AxisX.Cross(forward).Normalize()
		if right.IsZero() {
			right = core.AxisY.Cross(forward).Normalize()
		}
	}
	up := forward.Cross(right)

	halfHeight := math.Tan(config.VFov * math.Pi / 180 / 2)
	halfWidth := halfHeight * float64(config.Width) / float64(config.Height)

	return &Camera{
		config:     config,
		origin:     config.Center,
		forward:    forward,
		right:      right,
		up:         up,
		halfWidth:  halfWidth,
		halfHeight: halfHeight,
	}
}

// NewDefaultCamera creates the default camera for a width x height image
func NewDefaultCamera(width, height int) *Camera {
	return NewCamera(DefaultCameraConfig(width, height))
}

// GetWidth returns the pixel grid width
func (c *Camera) GetWidth() int { return c.config.Width }

// GetHeight returns the pixel grid height
func (c *Camera) GetHeight() int { return c.config.Height }

// GetRay returns the primary ray through the center of pixel (x, y).
// Row 0 is the top of the image.
func (c *Camera) GetRay(x, y int) core.Ray {
	return c.GetRayAt(float64(x)+0.5, float64(y)+0.5)
}

// GetRayAt returns the primary ray through the continuous image position (px, py)
func (c *Camera) GetRayAt(px, py float64) core.Ray {
	sx := (2*px/float64(c.config.Width) - 1) * c.halfWidth
	sy := (1 - 2*py/float64(c.config.Height)) * c.halfHeight
	direction := c.forward.Add(c.right.Multiply(sx)).Add(c.up.Multiply(sy)).Normalize()
	return core.NewRay(c.origin, direction)
}

// Project returns the continuous image position of a world point.
// It returns false for points at or behind the camera plane.
func (c *Camera) Project(point core.Vec3) (px, py float64, ok bool) {
	d := point.Subtract(c.origin)
	depth := d.Dot(c.forward)
	if depth <= 0 {
		return 0, 0, false
	}
	sx := d.Dot(c.right) / depth / c.halfWidth
	sy := d.Dot(c.up) / depth / c.halfHeight
	px = (sx + 1) / 2 * float64(c.config.Width)
	py = (1 - sy) / 2 * float64(c.config.Height)
	return px, py, true
}
