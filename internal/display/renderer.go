package display

import (
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"raypick/internal/camera"
	"raypick/internal/engine"
	"raypick/internal/picking"
)

const sphereSegments = 16

// Renderer draws every drawable node of the live objects with one raylib model
// per mesh handle. It must be used on the window's thread.
type Renderer struct {
	FloorY    float32
	FloorSize float32

	models map[string]rl.Model

	// Counts from the last frame
	Drawn  int
	Culled int
}

func NewRenderer() *Renderer {
	return &Renderer{
		FloorY:    -150,
		FloorSize: 1200,
		models:    make(map[string]rl.Model),
	}
}

// Render draws objs from cam's point of view. It expects to be called between
// BeginDrawing and EndDrawing.
func (r *Renderer) Render(objs []*engine.Object, cam *camera.Camera) {
	rl.BeginMode3D(toCamera3D(cam))
	// BeginMode3D uses raylib's default clip range; use the camera's own.
	rl.SetMatrixProjection(toMatrix(cam.Projection()))

	r.Drawn, r.Culled = 0, 0
	frustum := cam.Frustum()
	for _, o := range objs {
		o.Walk(func(n *engine.Node, world mgl32.Mat4) {
			if n.Kind != engine.KindDrawable {
				return
			}
			if !visible(&frustum, n.Mesh.Shape, world) {
				r.Culled++
				return
			}
			model := r.model(n.Mesh)
			model.Transform = toMatrix(world)
			rl.DrawModel(model, rl.Vector3Zero(), 1.0, toColor(shade(n.Material)))
			r.Drawn++
		})
	}

	rl.DrawPlane(rl.Vector3{X: 0, Y: r.FloorY, Z: -r.FloorSize / 2}, rl.Vector2{X: r.FloorSize, Y: r.FloorSize}, rl.NewColor(40, 40, 55, 255))
	rl.EndMode3D()
}

func visible(f *camera.Frustum, shape engine.Shape, world mgl32.Mat4) bool {
	box := picking.ShapeBounds(shape).Transformed(world)
	center := box.Min.Add(box.Max).Mul(0.5)
	radius := box.Max.Sub(center).Len()
	return f.ContainsSphere(center, radius)
}

// model returns the cached model for a mesh, generating it on first use.
func (r *Renderer) model(mesh engine.Mesh) rl.Model {
	if m, ok := r.models[mesh.Handle]; ok {
		return m
	}

	var gen rl.Mesh
	switch mesh.Shape.Kind {
	case engine.ShapeSphere:
		gen = rl.GenMeshSphere(mesh.Shape.Radius, sphereSegments, sphereSegments)
	default:
		s := mesh.Shape.Size
		gen = rl.GenMeshCube(s.X(), s.Y(), s.Z())
	}
	m := rl.LoadModelFromMesh(gen)
	r.models[mesh.Handle] = m
	return m
}

// Unload releases every cached model.
func (r *Renderer) Unload() {
	for handle, m := range r.models {
		rl.UnloadModel(m)
		delete(r.models, handle)
	}
}
