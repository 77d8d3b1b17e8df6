package assets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"raypick/internal/engine"
)

// Prefab describes a multi-part figure. Each part becomes one drawable under a
// shared group, so clicking any part removes the whole figure.
type Prefab struct {
	Name  string `yaml:"name"`
	Parts []Part `yaml:"parts"`
}

type Part struct {
	Name     string     `yaml:"name"`
	Shape    string     `yaml:"shape"` // box or sphere
	Size     [3]float32 `yaml:"size,flow"`
	Radius   float32    `yaml:"radius"`
	Offset   [3]float32 `yaml:"offset,flow"`
	Color    string     `yaml:"color"`
	Emissive string     `yaml:"emissive"`
}

// Color name mapping for prefab parts
var colorByName = map[string]uint32{
	"Red":       0xe62937,
	"Blue":      0x0079f1,
	"Green":     0x00e430,
	"Purple":    0xc87aff,
	"Orange":    0xffa100,
	"Yellow":    0xfdf900,
	"Gold":      0xffcb00,
	"White":     0xffffff,
	"Gray":      0x828282,
	"LightGray": 0xc8c8c8,
	"DarkGray":  0x505050,
	"Black":     0x000000,
	"Pink":      0xff6dc2,
	"Maroon":    0xbe2137,
	"Brown":     0x7f6a4f,
	"Beige":     0xd3b083,
	"SkyBlue":   0x66bfff,
	"DarkBlue":  0x0052ac,
	"Lime":      0x009e2f,
	"DarkGreen": 0x00752c,
}

// LookupColor resolves a colour name or a #rrggbb / 0xrrggbb literal. Empty
// and unknown names are white.
func LookupColor(name string) uint32 {
	if c, ok := colorByName[name]; ok {
		return c
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(name), "#"), "0x")
	if len(hex) == 6 {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return uint32(v)
		}
	}
	return 0xffffff
}

// ParsePrefab decodes and validates a YAML prefab document.
func ParsePrefab(data []byte) (*Prefab, error) {
	var p Prefab
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode prefab: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Prefab) Validate() error {
	if len(p.Parts) == 0 {
		return fmt.Errorf("prefab %q has no parts: %w", p.Name, engine.ErrConfiguration)
	}
	for i, part := range p.Parts {
		switch part.Shape {
		case "", "box":
			if part.Size[0] <= 0 || part.Size[1] <= 0 || part.Size[2] <= 0 {
				return fmt.Errorf("prefab %q part %d: box size %v must be positive: %w",
					p.Name, i, part.Size, engine.ErrConfiguration)
			}
		case "sphere":
			if part.Radius <= 0 {
				return fmt.Errorf("prefab %q part %d: sphere radius %v must be positive: %w",
					p.Name, i, part.Radius, engine.ErrConfiguration)
			}
		default:
			return fmt.Errorf("prefab %q part %d: unknown shape %q: %w",
				p.Name, i, part.Shape, engine.ErrConfiguration)
		}
	}
	return nil
}

// Build creates a fresh node graph for one instance of the prefab.
func (p *Prefab) Build() *engine.Node {
	root := engine.NewGroup(p.Name)
	for i, part := range p.Parts {
		name := part.Name
		if name == "" {
			name = fmt.Sprintf("%s.%d", p.Name, i)
		}
		mesh := part.mesh()
		mat := engine.Material{Color: LookupColor(part.Color)}
		if part.Emissive != "" {
			mat.Emissive = LookupColor(part.Emissive)
		}
		n := engine.NewDrawable(name, mesh, mat)
		n.Local = engine.TranslationOf(mgl32.Vec3(part.Offset))
		root.AddChild(n)
	}
	return root
}

// mesh returns the shape plus a handle shared by every part with the same
// geometry, so the renderer builds each model once.
func (part Part) mesh() engine.Mesh {
	if part.Shape == "sphere" {
		return engine.Mesh{
			Handle: fmt.Sprintf("sphere:%g", part.Radius),
			Shape:  engine.Sphere(part.Radius),
		}
	}
	size := mgl32.Vec3(part.Size)
	return engine.Mesh{
		Handle: fmt.Sprintf("box:%gx%gx%g", size[0], size[1], size[2]),
		Shape:  engine.Box(size),
	}
}
