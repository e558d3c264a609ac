package geometry

import (
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal at intersection, facing against the ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	UV        core.Vec2 // Texture coordinates, valid when HasUV is set
	HasUV     bool
	Shape     Shape // The shape that was hit
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Material returns the material of the shape that was hit
func (h *HitRecord) Material() *material.Material {
	return h.Shape.GetMaterial()
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool)
	GetMaterial() *material.Material
}

// LightSource is a shape with a position that direct lighting can aim shadow rays at
type LightSource interface {
	Shape
	// Center returns the point hard shadow rays aim at
	Center() core.Vec3
	// SamplePoint returns a point jittered around the center within spread radii
	SamplePoint(random *rand.Rand, spread float64) core.Vec3
}
