package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal; zero for a degenerate plane
	Material material.Material
}

// NewPlane creates a new plane with the default material
func NewPlane(point, normal core.Vec3) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(), // Ensure normal is normalized
		Material: material.New(),
	}
}

// NewPlaneWithMaterial creates a new plane
func NewPlaneWithMaterial(point, normal core.Vec3, mat material.Material) *Plane {
	p := NewPlane(point, normal)
	p.Material = mat
	return p
}

// GetMaterial returns the plane material
func (p *Plane) GetMaterial() *material.Material {
	return &p.Material
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	// A zero normal gives a zero denominator, so degenerate planes never hit
	denominator := ray.Direction.Dot(p.Normal)

	// If denominator is close to zero, ray is parallel to plane (no intersection)
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator

	if t < tMin || t > tMax {
		return nil, false
	}

	hitRecord := &HitRecord{
		T:     t,
		Point: ray.At(t),
		Shape: p,
	}
	hitRecord.SetFaceNormal(ray, p.Normal)

	return hitRecord, true
}
