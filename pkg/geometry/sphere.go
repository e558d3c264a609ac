package geometry

import (
	"math"
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Position core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere with the default material
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		Position: center,
		Radius:   radius,
		Material: material.New(),
	}
}

// NewSphereWithMaterial creates a new sphere
func NewSphereWithMaterial(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Position: center,
		Radius:   radius,
		Material: mat,
	}
}

// GetMaterial returns the sphere material
func (s *Sphere) GetMaterial() *material.Material {
	return &s.Material
}

// Center returns the sphere center
func (s *Sphere) Center() core.Vec3 {
	return s.Position
}

// SamplePoint returns a random point within spread*radius of the center
func (s *Sphere) SamplePoint(random *rand.Rand, spread float64) core.Vec3 {
	return s.Position.Add(core.RandomInUnitSphere(random).Multiply(s.Radius * spread))
}

// Intersections returns both roots of the ray-sphere quadratic, t0 <= t1.
// Degenerate spheres (radius <= 0) and zero-length directions never intersect.
func (s *Sphere) Intersections(ray core.Ray) (t0, t1 float64, ok bool) {
	if s.Radius <= 0 {
		return 0, 0, false
	}

	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Position)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return 0, 0, false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	return (-halfB - sqrtD) / a, (-halfB + sqrtD) / a, true
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	root, ok := s.nearestRoot(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	hitRecord := &HitRecord{
		T:     root,
		Point: ray.At(root),
		Shape: s,
	}

	// Outward normal (from center to hit point)
	outwardNormal := hitRecord.Point.Subtract(s.Position).Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

// nearestRoot returns the closest intersection within (tMin, tMax)
func (s *Sphere) nearestRoot(ray core.Ray, tMin, tMax float64) (float64, bool) {
	t0, t1, ok := s.Intersections(ray)
	if !ok {
		return 0, false
	}

	// Try the closer intersection point first
	if t0 >= tMin && t0 <= tMax {
		return t0, true
	}
	if t1 >= tMin && t1 <= tMax {
		return t1, true
	}
	return 0, false
}
