package renderer

import (
	"math"
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// rayEpsilon is the minimum hit distance for secondary rays so that a
// surface does not shadow or reflect itself
const rayEpsilon = 0.001

// Raytracer shades rays against an immutable scene. It holds no mutable
// state and is safe for concurrent use; randomness is passed in per call.
type Raytracer struct {
	scene    *scene.Scene
	settings scene.Settings
	lights   []geometry.LightSource
	seed     int64
}

// NewRaytracer creates a new raytracer for the scene
func NewRaytracer(s *scene.Scene) *Raytracer {
	return &Raytracer{
		scene:    s,
		settings: s.Settings,
		lights:   s.Lights(),
		seed:     42, // Deterministic for testing
	}
}

// SetSeed changes the base seed used for per-pixel randomness
func (rt *Raytracer) SetSeed(seed int64) {
	rt.seed = seed
}

// Scene returns the scene being traced
func (rt *Raytracer) Scene() *scene.Scene {
	return rt.scene
}

// Intersect finds the nearest visible object hit by the ray in (tMin, tMax).
// A later object replaces the current hit only when strictly closer.
func (rt *Raytracer) Intersect(ray core.Ray, tMin, tMax float64) (*geometry.HitRecord, bool) {
	var closestHit *geometry.HitRecord
	closestSoFar := tMax

	for _, shape := range rt.scene.Objects {
		if !shape.GetMaterial().SurfaceVisible {
			continue
		}
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			if closestHit != nil && hit.T >= closestHit.T {
				continue
			}
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// PixelColor shades the primary ray through pixel (x, y). random is reseeded
// from the pixel position, so the result does not depend on which worker
// renders the pixel or in what order.
func (rt *Raytracer) PixelColor(x, y int, random *rand.Rand) core.Color {
	random.Seed(rt.pixelSeed(x, y))
	ray := rt.scene.Camera.GetRay(x, y)
	return rt.ShadeColor(ray, rt.settings.MaxRayDepth, random)
}

func (rt *Raytracer) pixelSeed(x, y int) int64 {
	return rt.seed*1_000_003 + int64(y)*int64(rt.scene.Camera.GetWidth()) + int64(x)
}

// ShadeColor shades a ray and clamps the result to a displayable color
func (rt *Raytracer) ShadeColor(ray core.Ray, depth int, random *rand.Rand) core.Color {
	return core.ColorFromVec3(rt.Shade(ray, depth, random))
}

// Shade returns the unclamped light arriving along the ray. Reflection,
// refraction and ambient rays recurse with depth-1; at depth 0 only direct
// lighting is computed.
func (rt *Raytracer) Shade(ray core.Ray, depth int, random *rand.Rand) core.Vec3 {
	ray.Direction = ray.Direction.Normalize()

	hit, isHit := rt.Intersect(ray, rayEpsilon, math.Inf(1))
	if !isHit {
		return rt.settings.Background.Vec3()
	}

	mat := hit.Material()
	surface := mat.ColorAt(hit.UV, hit.HasUV).Vec3()

	// Lights are flat emitters
	if mat.IsLight() {
		return surface.Multiply(mat.Luminosity)
	}

	direct := rt.directLight(hit, mat, surface, random)
	if depth <= 0 {
		return direct
	}

	local := direct
	if rt.settings.RandomDiffuseRay && mat.Diffuse > 0 {
		local = local.Add(rt.ambientLight(hit, depth, random).MultiplyVec(surface).Multiply(mat.Diffuse))
	}
	color := local.Multiply(mat.LocalWeight())

	if mat.Reflect > 0 {
		reflected := core.NewRay(hit.Point, ray.Direction.Reflect(hit.Normal))
		color = color.Add(rt.Shade(reflected, depth-1, random).MultiplyVec(surface).Multiply(mat.Reflect))
	}

	if mat.Refract > 0 {
		color = color.Add(rt.refractedLight(ray, hit, mat, depth, random).MultiplyVec(surface).Multiply(mat.Refract))
	}

	return color
}

// refractedLight follows the transmitted ray, or the mirror ray on total internal reflection
func (rt *Raytracer) refractedLight(ray core.Ray, hit *geometry.HitRecord, mat *material.Material, depth int, random *rand.Rand) core.Vec3 {
	etaRatio := mat.RefractIndex
	if hit.FrontFace {
		etaRatio = 1.0 / mat.RefractIndex
	}

	direction, ok := ray.Direction.Refract(hit.Normal, etaRatio)
	if !ok {
		direction = ray.Direction.Reflect(hit.Normal)
	}
	return rt.Shade(core.NewRay(hit.Point, direction), depth-1, random)
}

// ambientLight averages random hemisphere rays around the normal
func (rt *Raytracer) ambientLight(hit *geometry.HitRecord, depth int, random *rand.Rand) core.Vec3 {
	count := rt.settings.RandomDiffuseCount
	if count <= 0 {
		return core.Vec3{}
	}

	var sum core.Vec3
	for i := 0; i < count; i++ {
		dir := core.RandomInHemisphere(hit.Normal, random)
		sum = sum.Add(rt.Shade(core.NewRay(hit.Point, dir), depth-1, random))
	}
	return sum.Multiply(1.0 / float64(count))
}

// directLight sums the light reaching the hit point from every luminous object
func (rt *Raytracer) directLight(hit *geometry.HitRecord, mat *material.Material, surface core.Vec3, random *rand.Rand) core.Vec3 {
	if mat.Diffuse <= 0 {
		return core.Vec3{}
	}

	samples, spread := 1, 0.0
	if rt.settings.SoftShadows {
		samples, spread = rt.settings.SoftShadowSamples, rt.settings.SoftShadowsScale
	}

	var total core.Vec3
	for _, light := range rt.lights {
		if light == hit.Shape {
			continue
		}

		var received float64
		for i := 0; i < samples; i++ {
			target := light.Center()
			if spread > 0 {
				target = light.SamplePoint(random, spread)
			}
			received += rt.lightSample(hit, light, target)
		}
		if received <= 0 {
			continue
		}

		lightMat := light.GetMaterial()
		emitted := lightMat.Color.Vec3().Multiply(lightMat.Luminosity)
		total = total.Add(emitted.Multiply(received / float64(samples)))
	}

	return total.MultiplyVec(surface).Multiply(mat.Diffuse)
}

// lightSample returns the cosine (or 1 for flat lighting) weighted
// transmission from target towards the hit point
func (rt *Raytracer) lightSample(hit *geometry.HitRecord, light geometry.Shape, target core.Vec3) float64 {
	toLight := target.Subtract(hit.Point)
	distance := toLight.Length()
	if distance == 0 {
		return 0
	}
	dir := toLight.Multiply(1.0 / distance)

	cosine := dir.Dot(hit.Normal)
	if cosine <= 0 {
		return 0
	}

	transmission := rt.transmission(core.NewRay(hit.Point, dir), distance, light)
	if !rt.settings.DiffuseLight {
		return transmission
	}
	return transmission * cosine
}

// transmission returns the fraction of light passing along the shadow ray
// before distance. Opaque occluders block it; transparent ones pass their
// refract share. Lights and hidden surfaces do not cast shadows.
func (rt *Raytracer) transmission(ray core.Ray, distance float64, light geometry.Shape) float64 {
	transmission := 1.0
	for _, shape := range rt.scene.Objects {
		if shape == light {
			continue
		}
		mat := shape.GetMaterial()
		if !mat.SurfaceVisible || mat.IsLight() {
			continue
		}
		if _, isHit := shape.Hit(ray, rayEpsilon, distance-rayEpsilon); !isHit {
			continue
		}
		if mat.Refract <= 0 {
			return 0
		}
		transmission *= mat.Refract
	}
	return transmission
}
