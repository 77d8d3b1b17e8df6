package picking

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/camera"
	"raypick/internal/engine"
)

// Hit is one ray/object intersection.
type Hit struct {
	Object   *engine.Object
	Node     *engine.Node // the drawable leaf for recursive picks, the object's root otherwise
	Distance float32
	Point    mgl32.Vec3
}

type Options struct {
	// Recursive tests every drawable inside composite objects and reports the
	// leaf that was hit. Otherwise each object reports one hit, its nearest
	// part, against its root. Both modes test the same shapes.
	Recursive bool
	// MaxDistance limits hits along the ray; zero means unlimited.
	MaxDistance float32
}

// PickNDC casts a ray from cam through ndc and tests every live object in reg.
func PickNDC(ndc mgl32.Vec2, cam *camera.Camera, reg *engine.Registry, opts Options) []Hit {
	return Pick(cam.Ray(ndc), reg.All(), opts)
}

// Pick tests ray against every object and returns all hits sorted nearest
// first. Equal distances keep iteration order. No hits is an empty slice.
func Pick(ray camera.Ray, objs iter.Seq[*engine.Object], opts Options) []Hit {
	maxDistance := opts.MaxDistance
	if maxDistance <= 0 {
		maxDistance = math32.Inf(1)
	}

	hits := make([]Hit, 0)
	for o := range objs {
		if o.Root == nil {
			continue
		}
		if opts.Recursive {
			hits = pickParts(hits, ray, o, maxDistance)
		} else if h, ok := pickWhole(ray, o, maxDistance); ok {
			hits = append(hits, h)
		}
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

func pickParts(hits []Hit, ray camera.Ray, o *engine.Object, maxDistance float32) []Hit {
	o.Walk(func(n *engine.Node, world mgl32.Mat4) {
		if n.Kind != engine.KindDrawable {
			return
		}
		origin, dir := toLocal(world, ray.Origin, ray.Dir)
		if t, ok := raycastShape(origin, dir, n.Mesh.Shape, maxDistance); ok {
			hits = append(hits, Hit{Object: o, Node: n, Distance: t, Point: ray.At(t)})
		}
	})
	return hits
}

// pickWhole runs the same per-part shape tests as pickParts and reports the
// nearest part's distance against the object's root.
func pickWhole(ray camera.Ray, o *engine.Object, maxDistance float32) (Hit, bool) {
	best := Hit{Distance: math32.Inf(1)}
	found := false
	o.Walk(func(n *engine.Node, world mgl32.Mat4) {
		if n.Kind != engine.KindDrawable {
			return
		}
		origin, dir := toLocal(world, ray.Origin, ray.Dir)
		if t, ok := raycastShape(origin, dir, n.Mesh.Shape, maxDistance); ok && t < best.Distance {
			best = Hit{Object: o, Node: o.Root, Distance: t, Point: ray.At(t)}
			found = true
		}
	})
	return best, found
}

// LocalBounds is the box around all of o's drawables in o's own space.
func LocalBounds(o *engine.Object) AABB {
	box := EmptyAABB()
	if o.Root == nil {
		return box
	}
	o.Root.Walk(mgl32.Ident4(), func(n *engine.Node, local mgl32.Mat4) {
		if n.Kind == engine.KindDrawable {
			box = box.Union(ShapeBounds(n.Mesh.Shape).Transformed(local))
		}
	})
	return box
}

// Policy picks which end of a sorted hit list drives hover and click.
type Policy uint8

const (
	// Nearest selects the closest hit.
	Nearest Policy = iota
	// Farthest selects the last hit in the list.
	Farthest
)

func (p Policy) String() string {
	if p == Farthest {
		return "farthest"
	}
	return "nearest"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return Nearest, nil
	case "farthest":
		return Farthest, nil
	}
	return Nearest, fmt.Errorf("unknown pick policy %q: %w", s, engine.ErrConfiguration)
}

// Choose returns the hit selected by p from a nearest-first list.
func (p Policy) Choose(hits []Hit) (Hit, bool) {
	if len(hits) == 0 {
		return Hit{}, false
	}
	if p == Farthest {
		return hits[len(hits)-1], true
	}
	return hits[0], true
}
