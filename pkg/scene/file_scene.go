package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// Load resolves a scene reference: a built-in name, a "file:<name>" ID from
// the scenes directory, or a path to a YAML file. Zero width or height keeps
// the scene's own size.
func Load(ref string, width, height int, scenesDir string) (*Scene, error) {
	path, err := ResolvePath(ref, scenesDir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Builtin(ref, width, height)
	}

	file, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, err
	}
	return FromFile(file, width, height)
}

// ResolvePath returns the YAML file a scene reference points at, or "" for a
// built-in scene
func ResolvePath(ref, scenesDir string) (string, error) {
	if _, ok := builtins[ref]; ok {
		return "", nil
	}
	if name, ok := strings.CutPrefix(ref, "file:"); ok {
		if !isPlainName(name) {
			return "", fmt.Errorf("%w: %q", ErrUnknownScene, ref)
		}
		path := findSceneFile(FindScenesDir(scenesDir), name)
		if path == "" {
			return "", fmt.Errorf("%w: %q", ErrUnknownScene, ref)
		}
		return path, nil
	}
	if ext := filepath.Ext(ref); ext != ".yaml" && ext != ".yml" {
		return "", fmt.Errorf("%w: %q", ErrUnknownScene, ref)
	}
	return ref, nil
}

// IsCatalogRef reports whether ref names a built-in scene or a file:<name>
// entry of the scenes directory, as opposed to an arbitrary path
func IsCatalogRef(ref string) bool {
	if _, ok := builtins[ref]; ok {
		return true
	}
	name, ok := strings.CutPrefix(ref, "file:")
	return ok && isPlainName(name)
}

// isPlainName rejects names that could leave the scenes directory
func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

func findSceneFile(dir, name string) string {
	if dir == "" {
		return ""
	}
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FromFile builds a scene from a parsed scene file. Zero width or height
// uses the size in the file, then 250x250.
func FromFile(file *loaders.SceneFile, width, height int) (*Scene, error) {
	if width <= 0 || height <= 0 {
		width, height = file.Width, file.Height
	}
	if width <= 0 || height <= 0 {
		width, height = 250, 250
	}

	camera, err := buildCamera(file.Camera, width, height)
	if err != nil {
		return nil, err
	}

	s := New(file.Name, camera)
	applySettings(&s.Settings, file.Settings)

	for i, obj := range file.Objects {
		shape, err := buildObject(obj, file.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, obj.Type, err)
		}
		s.AddObject(shape)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func buildCamera(spec *loaders.CameraSpec, width, height int) (*geometry.Camera, error) {
	config := geometry.DefaultCameraConfig(width, height)
	if spec == nil {
		return geometry.NewCamera(config), nil
	}

	var err error
	if config.Center, err = loaders.Vec3Or(spec.Center, config.Center); err != nil {
		return nil, fmt.Errorf("camera center: %w", err)
	}
	if config.LookAt, err = loaders.Vec3Or(spec.LookAt, config.Center.Add(core.AxisZ)); err != nil {
		return nil, fmt.Errorf("camera look_at: %w", err)
	}
	if config.Up, err = loaders.Vec3Or(spec.Up, config.Up); err != nil {
		return nil, fmt.Errorf("camera up: %w", err)
	}
	if spec.VFov > 0 {
		config.VFov = spec.VFov
	}
	return geometry.NewCamera(config), nil
}

func applySettings(settings *Settings, spec loaders.SettingsSpec) {
	if spec.Background != nil {
		settings.Background = spec.Background.Color
	}
	if spec.SoftShadows != nil {
		settings.SoftShadows = *spec.SoftShadows
	}
	if spec.SoftShadowsScale != nil {
		settings.SoftShadowsScale = *spec.SoftShadowsScale
	}
	if spec.SoftShadowSamples != nil {
		settings.SoftShadowSamples = *spec.SoftShadowSamples
	}
	if spec.DiffuseLight != nil {
		settings.DiffuseLight = *spec.DiffuseLight
	}
	if spec.RandomDiffuseRay != nil {
		settings.RandomDiffuseRay = *spec.RandomDiffuseRay
	}
	if spec.RandomDiffuseCount != nil {
		settings.RandomDiffuseCount = *spec.RandomDiffuseCount
	}
	if spec.MaxRayDepth != nil {
		settings.MaxRayDepth = *spec.MaxRayDepth
	}
}

func buildObject(obj loaders.ObjectSpec, baseDir string) (geometry.Shape, error) {
	mat, err := obj.Material.Build(baseDir)
	if err != nil {
		return nil, err
	}

	switch obj.Type {
	case "sphere", "uvsphere":
		center, err := loaders.Vec3(obj.Center)
		if err != nil {
			return nil, err
		}
		if obj.Radius <= 0 {
			return nil, fmt.Errorf("%w: radius must be > 0, got %g", loaders.ErrInvalidSceneFile, obj.Radius)
		}
		if obj.Type == "sphere" {
			return geometry.NewSphereWithMaterial(center, obj.Radius, mat), nil
		}
		sphere := geometry.NewUVSphereWithMaterial(center, obj.Radius, mat)
		pole, err := loaders.Vec3Or(obj.Pole, sphere.Pole)
		if err != nil {
			return nil, err
		}
		meridian, err := loaders.Vec3Or(obj.Meridian, sphere.Meridian)
		if err != nil {
			return nil, err
		}
		return sphere.Orient(pole, meridian), nil
	case "plane":
		point, err := loaders.Vec3(obj.Point)
		if err != nil {
			return nil, err
		}
		normal, err := loaders.Vec3(obj.Normal)
		if err != nil {
			return nil, err
		}
		if normal.IsZero() {
			return nil, fmt.Errorf("%w: plane normal must be non-zero", loaders.ErrInvalidSceneFile)
		}
		return geometry.NewPlaneWithMaterial(point, normal, mat), nil
	default:
		return nil, fmt.Errorf("%w: unknown object type %q", loaders.ErrInvalidSceneFile, obj.Type)
	}
}
