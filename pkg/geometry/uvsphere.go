package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// UVSphere is a sphere that reports angular texture coordinates at each hit:
// u is the azimuth around Pole measured from Meridian in [-pi, pi], v is the
// angle from Pole in [0, pi].
type UVSphere struct {
	Sphere
	Pole     core.Vec3 // Axis through v = 0
	Meridian core.Vec3 // Direction of u = 0
}

// NewUVSphere creates a uv sphere with +Y as pole and +X as meridian
func NewUVSphere(center core.Vec3, radius float64) *UVSphere {
	return &UVSphere{
		Sphere:   *NewSphere(center, radius),
		Pole:     core.AxisY,
		Meridian: core.AxisX,
	}
}

// NewUVSphereWithMaterial creates a uv sphere with the given material
func NewUVSphereWithMaterial(center core.Vec3, radius float64, mat material.Material) *UVSphere {
	s := NewUVSphere(center, radius)
	s.Material = mat
	return s
}

// Orient sets the pole and meridian; the meridian is made perpendicular to the pole
func (s *UVSphere) Orient(pole, meridian core.Vec3) *UVSphere {
	pole = pole.Normalize()
	meridian = meridian.Subtract(pole.Multiply(meridian.Dot(pole))).Normalize()
	if pole.IsZero() || meridian.IsZero() {
		return s
	}
	s.Pole = pole
	s.Meridian = meridian
	return s
}

// Hit tests if a ray intersects with the sphere and fills in uv
func (s *UVSphere) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	hit, ok := s.Sphere.Hit(ray, tMin, tMax)
	if !ok {
		return nil, false
	}
	hit.Shape = s
	hit.UV = s.UVAt(hit.Point)
	hit.HasUV = true
	return hit, true
}

// UVAt returns the angular coordinates of a point on the surface
func (s *UVSphere) UVAt(point core.Vec3) core.Vec2 {
	n := point.Subtract(s.Position).Normalize()
	side := s.Meridian.Cross(s.Pole)
	u := math.Atan2(n.Dot(side), n.Dot(s.Meridian))
	v := math.Acos(max(-1, min(1, n.Dot(s.Pole))))
	return core.NewVec2(u, v)
}
