package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

var (
	// ErrUnknownScene is returned when a scene name matches neither a built-in nor a scene file
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidSettings is returned by Validate for unusable render settings
	ErrInvalidSettings = errors.New("invalid scene settings")
)

// Settings holds the global lighting and recursion configuration
type Settings struct {
	SoftShadows        bool       // Sample jittered points on each light instead of its center
	SoftShadowsScale   float64    // Jitter radius as a fraction of the light radius
	SoftShadowSamples  int        // Shadow rays per light when SoftShadows is set
	DiffuseLight       bool       // Lambert cosine falloff; false lights facing surfaces flat
	RandomDiffuseRay   bool       // Gather ambient light with random hemisphere rays
	RandomDiffuseCount int        // Hemisphere rays per hit when RandomDiffuseRay is set
	MaxRayDepth        int        // Recursion depth for primary rays
	Background         core.Color // Returned for rays that hit nothing
}

// DefaultSettings returns hard shadows, Lambert lighting and depth 4 on black
func DefaultSettings() Settings {
	return Settings{
		SoftShadows:        false,
		SoftShadowsScale:   0.5,
		SoftShadowSamples:  16,
		DiffuseLight:       true,
		RandomDiffuseRay:   false,
		RandomDiffuseCount: 8,
		MaxRayDepth:        4,
		Background:         core.Black,
	}
}

// Validate checks the settings are usable for a render
func (s Settings) Validate() error {
	if s.MaxRayDepth < 0 {
		return fmt.Errorf("%w: max ray depth must be >= 0, got %d", ErrInvalidSettings, s.MaxRayDepth)
	}
	if s.SoftShadows {
		if s.SoftShadowSamples <= 0 {
			return fmt.Errorf("%w: soft shadow samples must be > 0, got %d", ErrInvalidSettings, s.SoftShadowSamples)
		}
		if s.SoftShadowsScale < 0 {
			return fmt.Errorf("%w: soft shadow scale must be >= 0, got %g", ErrInvalidSettings, s.SoftShadowsScale)
		}
	}
	if s.RandomDiffuseRay && s.RandomDiffuseCount <= 0 {
		return fmt.Errorf("%w: random diffuse count must be > 0, got %d", ErrInvalidSettings, s.RandomDiffuseCount)
	}
	return nil
}

// Scene contains all the elements needed for rendering. It is built once
// and must not be modified while a render is running.
type Scene struct {
	Name     string
	Camera   *geometry.Camera
	Objects  []geometry.Shape // Insertion order breaks ties between equidistant hits
	Settings Settings
}

// New creates an empty scene with default settings
func New(name string, camera *geometry.Camera) *Scene {
	return &Scene{
		Name:     name,
		Camera:   camera,
		Objects:  make([]geometry.Shape, 0),
		Settings: DefaultSettings(),
	}
}

// AddObject appends a shape to the scene
func (s *Scene) AddObject(shape geometry.Shape) {
	s.Objects = append(s.Objects, shape)
}

// Lights returns the luminous objects that can be aimed at by shadow rays.
// Luminous shapes without a center (planes) glow but do not light others.
func (s *Scene) Lights() []geometry.LightSource {
	var lights []geometry.LightSource
	for _, obj := range s.Objects {
		if !obj.GetMaterial().IsLight() {
			continue
		}
		if light, ok := obj.(geometry.LightSource); ok {
			lights = append(lights, light)
		}
	}
	return lights
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}

// Validate checks the camera, settings and every material
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("%w: scene %q has no camera", ErrInvalidSettings, s.Name)
	}
	if err := s.Settings.Validate(); err != nil {
		return err
	}
	for i, obj := range s.Objects {
		if err := obj.GetMaterial().Validate(); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	return nil
}
