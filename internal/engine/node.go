package engine

import "github.com/go-gl/mathgl/mgl32"

// NodeKind tags what a Node carries.
type NodeKind uint8

const (
	// KindGroup nodes only hold children.
	KindGroup NodeKind = iota
	// KindDrawable nodes hold a mesh and material and never have children.
	KindDrawable
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindDrawable:
		return "drawable"
	}
	return "unknown"
}

type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
)

// Shape is the bounding proxy used for ray tests. Size is the full box extent;
// Radius is used for spheres.
type Shape struct {
	Kind   ShapeKind
	Size   mgl32.Vec3
	Radius float32
}

func Box(size mgl32.Vec3) Shape {
	return Shape{Kind: ShapeBox, Size: size}
}

func Sphere(radius float32) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Mesh is an opaque geometry handle owned by the renderer plus its bounding shape.
type Mesh struct {
	Handle string
	Shape  Shape
}

// Material colors are 0xRRGGBB.
type Material struct {
	Color    uint32
	Emissive uint32
}

// Node is one element of an object's scene graph.
type Node struct {
	Kind     NodeKind
	Name     string
	Local    Transform
	Parent   *Node
	Children []*Node
	Mesh     Mesh
	Material Material
}

func NewGroup(name string, children ...*Node) *Node {
	g := &Node{Kind: KindGroup, Name: name, Local: Identity()}
	for _, c := range children {
		g.AddChild(c)
	}
	return g
}

func NewDrawable(name string, mesh Mesh, mat Material) *Node {
	return &Node{Kind: KindDrawable, Name: name, Local: Identity(), Mesh: mesh, Material: mat}
}

// AddChild attaches child to a group node.
func (n *Node) AddChild(child *Node) {
	if n.Kind != KindGroup {
		panic("engine: AddChild on " + n.Kind.String() + " node " + n.Name)
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Root walks up to the topmost owning node.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Walk visits n and its descendants depth-first with each node's world matrix.
func (n *Node) Walk(parent mgl32.Mat4, visit func(n *Node, world mgl32.Mat4)) {
	world := parent.Mul4(n.Local.Matrix())
	visit(n, world)
	if n.Kind == KindGroup {
		for _, c := range n.Children {
			c.Walk(world, visit)
		}
	}
}

// Drawables returns every drawable leaf under n, including n itself.
func (n *Node) Drawables() []*Node {
	var out []*Node
	n.Walk(mgl32.Ident4(), func(c *Node, _ mgl32.Mat4) {
		if c.Kind == KindDrawable {
			out = append(out, c)
		}
	})
	return out
}
