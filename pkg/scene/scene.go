package scene

import (
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering, plus the image and
// sampling settings it was composed for.
type Scene struct {
	Name         string
	World        *geometry.ShapeList
	CameraConfig geometry.CameraConfig
	Image        renderer.Image
	RenderConfig renderer.RenderConfig
}

// Resize changes the image width, keeping the aspect ratio the camera was built for
func (s *Scene) Resize(width int) {
	s.Image = renderer.NewImage(width, s.CameraConfig.AspectRatio)
}

// NewRaytracer builds a raytracer for the scene with its current settings
func (s *Scene) NewRaytracer() *renderer.Raytracer {
	return renderer.NewRaytracer(s.World, geometry.NewCamera(s.CameraConfig), s.Image, s.RenderConfig)
}
