package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	PixelColor   string                 `json:"pixelColor"` // Shaded color of the pixel
	ObjectIndex  int                    `json:"objectIndex"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	UV           *[2]float64            `json:"uv,omitempty"`
	Material     *MaterialInfo          `json:"material,omitempty"`
	Geometry     map[string]interface{} `json:"geometry,omitempty"`
}

// MaterialInfo describes the material of the inspected surface
type MaterialInfo struct {
	Color        string  `json:"color"`
	SurfaceColor string  `json:"surfaceColor"` // After the uv map, when there is one
	Diffuse      float64 `json:"diffuse"`
	Reflect      float64 `json:"reflect"`
	Refract      float64 `json:"refract"`
	RefractIndex float64 `json:"refractIndex"`
	Luminosity   float64 `json:"luminosity"`
	UVMapped     bool    `json:"uvMapped"`
}

func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// InspectResult contains the nearest visible hit through a pixel
type InspectResult struct {
	Hit         bool
	HitRecord   *geometry.HitRecord
	ObjectIndex int
	PixelColor  core.Color
}

// inspectPixel casts the primary ray through the pixel and reports what it
// hits, using the same visibility rules as the renderer
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	rt := renderer.NewRaytracer(sceneObj)
	result := InspectResult{
		ObjectIndex: -1,
		PixelColor:  rt.PixelColor(pixelX, pixelY, renderer.NewPixelRandom()),
	}

	ray := sceneObj.Camera.GetRay(pixelX, pixelY)
	ray.Direction = ray.Direction.Normalize()
	hit, isHit := rt.Intersect(ray, 0.001, math.Inf(1))
	if !isHit {
		return result
	}

	result.Hit = true
	result.HitRecord = hit
	for i, obj := range sceneObj.Objects {
		if obj == hit.Shape {
			result.ObjectIndex = i
			break
		}
	}
	return result
}

func extractMaterialInfo(mat *material.Material, hit *geometry.HitRecord) *MaterialInfo {
	return &MaterialInfo{
		Color:        mat.Color.Hex(),
		SurfaceColor: mat.ColorAt(hit.UV, hit.HasUV).Hex(),
		Diffuse:      mat.Diffuse,
		Reflect:      mat.Reflect,
		Refract:      mat.Refract,
		RefractIndex: mat.RefractIndex,
		Luminosity:   mat.Luminosity,
		UVMapped:     mat.UVMap != nil,
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.UVSphere:
		properties["center"] = vec3Array(geom.Position)
		properties["radius"] = geom.Radius
		properties["pole"] = vec3Array(geom.Pole)
		properties["meridian"] = vec3Array(geom.Meridian)
		return "uvsphere", properties

	case *geometry.Sphere:
		properties["center"] = vec3Array(geom.Position)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vec3Array(geom.Point)
		properties["normal"] = vec3Array(geom.Normal)
		return "plane", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := scene.Load(req.Scene, req.Width, req.Height, s.scenesDir)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	width, height := sceneObj.Camera.GetWidth(), sceneObj.Camera.GetHeight()
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	response := InspectResponse{
		Hit:         result.Hit,
		PixelColor:  result.PixelColor.Hex(),
		ObjectIndex: result.ObjectIndex,
	}
	if result.Hit {
		hit := result.HitRecord
		response.GeometryType, response.Geometry = extractGeometryInfo(hit.Shape)
		response.Point = vec3Array(hit.Point)
		response.Normal = vec3Array(hit.Normal)
		response.Distance = hit.T
		response.FrontFace = hit.FrontFace
		if hit.HasUV {
			response.UV = &[2]float64{hit.UV.X, hit.UV.Y}
		}
		response.Material = extractMaterialInfo(hit.Material(), hit)
	}

	writeJSON(w, http.StatusOK, response)
}
