package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// builtin describes a scene constructed in code
type builtin struct {
	info          SceneInfo
	defaultWidth  int
	defaultHeight int
	build         func(width, height int) *Scene
}

var builtins = map[string]builtin{
	"spheres": {
		info: SceneInfo{
			ID:          "spheres",
			Name:        "Spheres",
			DisplayName: "Spheres",
			Description: "Red, green and mirror spheres lit by a luminous sphere",
			Group:       "Built-in Scenes",
			Type:        "builtin",
		},
		defaultWidth:  250,
		defaultHeight: 250,
		build:         NewSpheresScene,
	},
	"room": {
		info: SceneInfo{
			ID:          "room",
			Name:        "Room",
			DisplayName: "Room",
			Description: "Closed room of coloured walls with mirror and glass spheres",
			Group:       "Built-in Scenes",
			Type:        "builtin",
		},
		defaultWidth:  500,
		defaultHeight: 500,
		build: func(width, height int) *Scene {
			return NewRoomScene(width, height, roomScale(width, height))
		},
	},
	"room-soft": {
		info: SceneInfo{
			ID:          "room-soft",
			Name:        "Room",
			DisplayName: "Room - Soft Shadows",
			Description: "Room with soft shadows, ambient rays and a checkered uv sphere",
			Group:       "Built-in Scenes",
			Type:        "builtin",
			Variant:     "Soft Shadows",
		},
		defaultWidth:  500,
		defaultHeight: 500,
		build: func(width, height int) *Scene {
			return NewSoftRoomScene(width, height, roomScale(width, height))
		},
	},
}

// roomScale grows the room with the image so that world units per pixel stay constant
func roomScale(width, height int) float64 {
	return max(1, float64(max(width, height))/250)
}

// Builtin creates a built-in scene by name. Zero width or height selects the scene's default size.
func Builtin(name string, width, height int) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	if width <= 0 || height <= 0 {
		width, height = b.defaultWidth, b.defaultHeight
	}
	s := b.build(width, height)
	s.Name = name
	return s, nil
}

// BuiltinScenes lists the built-in scenes sorted by ID
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		infos = append(infos, b.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// NewSpheresScene creates the viewer scene: a red and a green sphere, a white
// luminous sphere and a large mirror sphere, seen from the origin down +Z
func NewSpheresScene(width, height int) *Scene {
	s := New("spheres", geometry.NewDefaultCamera(width, height))

	s.AddObject(geometry.NewSphereWithMaterial(core.NewVec3(20, 20, 100), 5, material.NewDiffuse(core.Red)))
	s.AddObject(geometry.NewSphereWithMaterial(core.NewVec3(20, -20, 100), 5, material.NewDiffuse(core.Green)))
	s.AddObject(geometry.NewSphereWithMaterial(core.NewVec3(0, 20, 80), 5, material.NewLight(core.White, 1.0)))
	s.AddObject(geometry.NewSphereWithMaterial(core.NewVec3(0, 0, 100), 10, material.NewMirror(core.White)))

	return s
}

// addRoom adds the six walls of a 100 x 100 x 200 room around the origin
func addRoom(s *Scene, scale float64) {
	walls := []struct {
		point  core.Vec3
		normal core.Vec3
		color  core.Color
	}{
		{core.NewVec3(0, -50, 0), core.NewVec3(0, 1, 0), core.White},  // floor
		{core.NewVec3(-50, 0, 0), core.NewVec3(1, 0, 0), core.Blue},   // left
		{core.NewVec3(50, 0, 0), core.NewVec3(-1, 0, 0), core.Red},    // right
		{core.NewVec3(0, 0, 150), core.NewVec3(0, 0, -1), core.White}, // back
		{core.NewVec3(0, 50, 0), core.NewVec3(0, -1, 0), core.White},  // ceiling
		{core.NewVec3(0, 0, -50), core.NewVec3(0, 0, 1), core.White},  // behind the camera
	}
	for _, w := range walls {
		s.AddObject(geometry.NewPlaneWithMaterial(w.point.Multiply(scale), w.normal, material.NewDiffuse(w.color)))
	}
}

// addRoomSpheres adds the furniture shared by both room variants
func addRoomSpheres(s *Scene, scale, glassIndex float64) {
	at := func(x, y, z float64) core.Vec3 { return core.NewVec3(x, y, z).Multiply(scale) }

	s.AddObject(geometry.NewSphereWithMaterial(at(20, 20, 120), 5*scale, material.NewDiffuse(core.Red)))
	s.AddObject(geometry.NewSphereWithMaterial(at(15, -15, 100), 5*scale, material.NewDiffuse(core.Green)))

	light := material.NewLight(core.White, 1.0)
	light.SurfaceVisible = false
	s.AddObject(geometry.NewSphereWithMaterial(at(0, 20, 80), 5*scale, light))

	s.AddObject(geometry.NewSphereWithMaterial(at(10, 0, 100), 10*scale, material.NewMirror(core.White)))
	s.AddObject(geometry.NewSphereWithMaterial(at(-5, -5, 50), 10*scale, material.NewGlass(core.White, 0.9, 0.1, glassIndex)))
}

// NewRoomScene creates the batch render scene: a closed room with an
// invisible light, cosine diffuse lighting and hard shadows
func NewRoomScene(width, height int, scale float64) *Scene {
	s := New("room", geometry.NewDefaultCamera(width, height))
	s.Settings.DiffuseLight = true
	s.Settings.SoftShadowsScale = 0.5
	s.Settings.MaxRayDepth = 4

	addRoom(s, scale)
	addRoomSpheres(s, scale, 0.5)
	return s
}

// NewSoftRoomScene creates the room with soft shadows, ambient hemisphere
// rays, denser glass and a checkered uv sphere
func NewSoftRoomScene(width, height int, scale float64) *Scene {
	s := New("room-soft", geometry.NewDefaultCamera(width, height))
	s.Settings.SoftShadows = true
	s.Settings.SoftShadowsScale = 0.5
	s.Settings.DiffuseLight = false
	s.Settings.RandomDiffuseRay = true
	s.Settings.RandomDiffuseCount = 8
	s.Settings.MaxRayDepth = 4

	addRoom(s, scale)
	addRoomSpheres(s, scale, 3.3)

	checker := material.NewDiffuse(core.White)
	checker.UVMap = material.Checker(core.Magenta, core.Black)
	s.AddObject(geometry.NewUVSphereWithMaterial(core.NewVec3(30, 20, 90).Multiply(scale), 10*scale, checker))
	return s
}
